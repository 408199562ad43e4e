package quiz

import "math"

// CorrectThreshold is the score at or above which an answer counts as
// correct in the results view.
const CorrectThreshold = 80

// Item is the outcome of one question in a finished quiz.
type Item struct {
	Question Question    `json:"question"`
	Answer   *UserAnswer `json:"answer,omitempty"`
	Score    int         `json:"score"`
	Skipped  bool        `json:"skipped"`
	Correct  bool        `json:"correct"`
}

// Results summarizes a finished quiz.
type Results struct {
	Items []Item  `json:"items"`
	Mean  float64 `json:"mean"`
}

// IndexAnswers maps answers by question id. Later answers for the same id
// are ignored.
func IndexAnswers(answers []UserAnswer) map[string]UserAnswer {
	byID := make(map[string]UserAnswer, len(answers))
	for _, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			byID[a.QuestionID] = a
		}
	}
	return byID
}

// ResolvedScores returns one score per question: the answer's score when
// an answer exists, 0 when the question was skipped or left ungraded.
func ResolvedScores(questions []Question, answers []UserAnswer) []int {
	byID := IndexAnswers(answers)
	scores := make([]int, len(questions))
	for i, q := range questions {
		if a, ok := byID[q.ID]; ok && a.Score != nil {
			scores[i] = *a.Score
		}
	}
	return scores
}

// MeanScore averages resolved scores over all questions. An empty quiz
// has a mean of 0.
func MeanScore(questions []Question, answers []UserAnswer) float64 {
	if len(questions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range ResolvedScores(questions, answers) {
		sum += s
	}
	return float64(sum) / float64(len(questions))
}

// Summarize builds the results view of a finished quiz.
func Summarize(questions []Question, answers []UserAnswer) Results {
	byID := IndexAnswers(answers)
	scores := ResolvedScores(questions, answers)

	items := make([]Item, len(questions))
	for i, q := range questions {
		item := Item{Question: q, Score: scores[i]}
		if a, ok := byID[q.ID]; ok {
			item.Answer = &a
		} else {
			item.Skipped = true
		}
		item.Correct = !item.Skipped && item.Score >= CorrectThreshold
		items[i] = item
	}

	return Results{Items: items, Mean: MeanScore(questions, answers)}
}

// RoundedMean returns the mean rounded to the nearest whole percent.
func (r Results) RoundedMean() int {
	return int(math.Round(r.Mean))
}

// CorrectCount returns how many items count as correct.
func (r Results) CorrectCount() int {
	n := 0
	for _, it := range r.Items {
		if it.Correct {
			n++
		}
	}
	return n
}

// SkippedCount returns how many questions have no answer.
func (r Results) SkippedCount() int {
	n := 0
	for _, it := range r.Items {
		if it.Skipped {
			n++
		}
	}
	return n
}
