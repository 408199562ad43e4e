// Package quiz holds the entities of a revision quiz: its configuration,
// the generated questions, the student's answers and the graded results.
package quiz

import "fmt"

// QuestionType tags how a question is answered.
type QuestionType string

const (
	TypeMCQ   QuestionType = "mcq"
	TypeShort QuestionType = "short"
	TypeLong  QuestionType = "long"
)

// Types returns the question types in presentation order.
func Types() []QuestionType {
	return []QuestionType{TypeMCQ, TypeShort, TypeLong}
}

// Label returns a human-readable name for the type.
func (t QuestionType) Label() string {
	switch t {
	case TypeMCQ:
		return "Multiple choice"
	case TypeShort:
		return "Short answer"
	case TypeLong:
		return "Long answer"
	default:
		return string(t)
	}
}

// Question is one generated question. Options and CorrectOptionIndex are
// meaningful only for TypeMCQ.
type Question struct {
	ID                 string       `json:"id"`
	Type               QuestionType `json:"type"`
	Topic              string       `json:"topic"`
	Text               string       `json:"text"`
	Options            []string     `json:"options,omitempty"`
	CorrectOptionIndex *int         `json:"correctOptionIndex,omitempty"`
	ModelAnswer        string       `json:"modelAnswer"`
}

// IsMCQ reports whether q is a multiple-choice question.
func (q Question) IsMCQ() bool {
	return q.Type == TypeMCQ
}

// Check verifies the required fields and the multiple-choice invariant:
// an MCQ carries a non-empty option list and an in-bounds correct index.
func (q Question) Check() error {
	switch {
	case q.ID == "":
		return fmt.Errorf("question has no id")
	case q.Text == "":
		return fmt.Errorf("question %s has no text", q.ID)
	case q.Topic == "":
		return fmt.Errorf("question %s has no topic", q.ID)
	case q.ModelAnswer == "":
		return fmt.Errorf("question %s has no model answer", q.ID)
	}

	switch q.Type {
	case TypeMCQ:
		if len(q.Options) == 0 {
			return fmt.Errorf("mcq %s has no options", q.ID)
		}
		if q.CorrectOptionIndex == nil {
			return fmt.Errorf("mcq %s has no correct option index", q.ID)
		}
		if i := *q.CorrectOptionIndex; i < 0 || i >= len(q.Options) {
			return fmt.Errorf("mcq %s correct option index %d out of range [0,%d)", q.ID, i, len(q.Options))
		}
	case TypeShort, TypeLong:
	default:
		return fmt.Errorf("question %s has unknown type %q", q.ID, q.Type)
	}
	return nil
}

// CorrectOption returns the text of the correct option of an MCQ, or ""
// when q is not a well-formed MCQ.
func (q Question) CorrectOption() string {
	if !q.IsMCQ() || q.CorrectOptionIndex == nil {
		return ""
	}
	i := *q.CorrectOptionIndex
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

// AnswerValue is the raw answer: a selected option for an MCQ, free text
// otherwise.
type AnswerValue struct {
	Option *int   `json:"option,omitempty"`
	Text   string `json:"text,omitempty"`
}

// String renders the value for display.
func (v AnswerValue) String() string {
	if v.Option != nil {
		return fmt.Sprintf("option %d", *v.Option+1)
	}
	return v.Text
}

// UserAnswer is the committed answer to one question. Score, Feedback and
// ModelAnswer are filled by grading; AIGraded marks the answer as needing
// no further grading call.
type UserAnswer struct {
	QuestionID  string      `json:"questionId"`
	Value       AnswerValue `json:"value"`
	Score       *int        `json:"score,omitempty"`
	Feedback    string      `json:"feedback,omitempty"`
	ModelAnswer string      `json:"modelAnswer,omitempty"`
	AIGraded    bool        `json:"aiGraded"`
}

// GradingResult is a grader's verdict on one free-text answer.
type GradingResult struct {
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
	ModelAnswer string `json:"modelAnswer"`
}

// ClampScore bounds a score to [0, 100].
func ClampScore(score int) int {
	return min(max(score, 0), 100)
}

// Apply merges a grading result into the answer and marks it AI-graded.
func (a UserAnswer) Apply(r GradingResult) UserAnswer {
	score := ClampScore(r.Score)
	a.Score = &score
	a.Feedback = r.Feedback
	a.ModelAnswer = r.ModelAnswer
	a.AIGraded = true
	return a
}
