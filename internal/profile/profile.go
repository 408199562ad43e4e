// Package profile tracks a student's personalization profile across
// quizzes: per-topic weakness counters and a running average score.
package profile

import (
	"maps"
	"slices"
	"sort"

	"github.com/abhisek/cmaster/internal/quiz"
)

// WeakScoreThreshold is the score below which a question counts against
// its topic.
const WeakScoreThreshold = 70

// UserProfile is the persisted personalization state. Values are replaced
// wholesale by Update, never edited in place.
type UserProfile struct {
	// WeakTopics counts, per topic, the questions scored below
	// WeakScoreThreshold.
	WeakTopics map[string]int `json:"weakTopics"`

	// TopicOrder lists WeakTopics keys in first-seen order. It breaks ties
	// when ranking.
	TopicOrder []string `json:"topicOrder,omitempty"`

	TotalQuizzes int     `json:"totalQuizzes"`
	AverageScore float64 `json:"averageScore"`
}

// New returns the empty default profile.
func New() UserProfile {
	return UserProfile{WeakTopics: map[string]int{}}
}

// Clone returns a deep copy of p.
func (p UserProfile) Clone() UserProfile {
	out := UserProfile{
		WeakTopics:   maps.Clone(p.WeakTopics),
		TopicOrder:   slices.Clone(p.TopicOrder),
		TotalQuizzes: p.TotalQuizzes,
		AverageScore: p.AverageScore,
	}
	if out.WeakTopics == nil {
		out.WeakTopics = map[string]int{}
	}
	return out
}

// Normalize repairs a decoded profile: nil maps become empty and counters
// missing from TopicOrder are appended in name order, so older documents
// without an order still rank deterministically.
func (p UserProfile) Normalize() UserProfile {
	out := p.Clone()

	seen := make(map[string]bool, len(out.TopicOrder))
	order := out.TopicOrder[:0]
	for _, t := range out.TopicOrder {
		if _, ok := out.WeakTopics[t]; ok && !seen[t] {
			seen[t] = true
			order = append(order, t)
		}
	}
	var missing []string
	for t := range out.WeakTopics {
		if !seen[t] {
			missing = append(missing, t)
		}
	}
	sort.Strings(missing)
	out.TopicOrder = append(order, missing...)
	if len(out.TopicOrder) == 0 {
		out.TopicOrder = nil
	}
	return out
}

// Update folds a finished quiz into the profile and returns the new value.
// Questions without an answer score 0. The quiz mean is averaged over all
// questions (0 for an empty quiz) and merged into an exact running mean.
func Update(prev UserProfile, answers []quiz.UserAnswer, questions []quiz.Question) UserProfile {
	next := prev.Normalize()

	scores := quiz.ResolvedScores(questions, answers)
	for i, q := range questions {
		if scores[i] >= WeakScoreThreshold {
			continue
		}
		if _, ok := next.WeakTopics[q.Topic]; !ok {
			next.TopicOrder = append(next.TopicOrder, q.Topic)
		}
		next.WeakTopics[q.Topic]++
	}

	mean := quiz.MeanScore(questions, answers)
	if next.TotalQuizzes == 0 {
		next.AverageScore = mean
	} else {
		n := float64(next.TotalQuizzes)
		next.AverageScore = (next.AverageScore*n + mean) / (n + 1)
	}
	next.TotalQuizzes++

	return next
}

// TopicCount pairs a topic with its weakness counter.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Ranked returns every weak topic by descending counter. Ties keep
// first-seen order.
func Ranked(p UserProfile) []TopicCount {
	p = p.Normalize()
	out := make([]TopicCount, 0, len(p.TopicOrder))
	for _, t := range p.TopicOrder {
		out = append(out, TopicCount{Topic: t, Count: p.WeakTopics[t]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// WeakTopics returns up to n topic labels, weakest first.
func WeakTopics(p UserProfile, n int) []string {
	ranked := Ranked(p)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, tc := range ranked {
		out[i] = tc.Topic
	}
	return out
}

// FocusTopics returns the topics a new quiz should emphasize.
func FocusTopics(p UserProfile) []string {
	return WeakTopics(p, quiz.MaxFocusTopics)
}
