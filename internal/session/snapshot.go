package session

import (
	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/quiz"
)

// Snapshot is a read-only view of the session for renderers.
type Snapshot struct {
	QuizID   string              `json:"quizId,omitempty"`
	Phase    Phase               `json:"phase"`
	Config   quiz.Config         `json:"config"`
	Index    int                 `json:"index"`
	Total    int                 `json:"total"`
	Answered int                 `json:"answered"`
	Question *quiz.Question      `json:"question,omitempty"`
	Selected *int                `json:"selected,omitempty"`
	Text     string              `json:"text,omitempty"`
	Results  *quiz.Results       `json:"results,omitempty"`
	Profile  profile.UserProfile `json:"profile"`
	Error    string              `json:"error,omitempty"`
}

// IsLast reports whether the current question is the final one.
func (s Snapshot) IsLast() bool {
	return s.Total > 0 && s.Index == s.Total-1
}

// Snapshot returns the current view. During the quiz phase the question
// is stripped of its correct option and model answer.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		QuizID:   s.quizID,
		Phase:    s.phase,
		Config:   s.config,
		Index:    s.index,
		Total:    len(s.questions),
		Answered: len(s.answers),
		Text:     s.text,
		Profile:  s.profile.Clone(),
	}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	if s.phase == PhaseQuiz {
		q := s.questions[s.index]
		q.CorrectOptionIndex = nil
		q.ModelAnswer = ""
		snap.Question = &q
	}
	if s.results != nil {
		r := *s.results
		snap.Results = &r
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
