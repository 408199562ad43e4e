package problemgen

import (
	"strings"

	"github.com/abhisek/cmaster/internal/quiz"
)

// PurposeQuizGen labels generation requests in the LLM event log.
const PurposeQuizGen = "quiz-gen"

// questionOutput is one raw question in the LLM response.
type questionOutput struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Topic              string   `json:"topic"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correctOptionIndex"`
	ModelAnswer        string   `json:"modelAnswer"`
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

// toQuestion converts a raw question. Options and the correct index are
// dropped from non-MCQ questions.
func (o questionOutput) toQuestion() quiz.Question {
	q := quiz.Question{
		ID:          strings.TrimSpace(o.ID),
		Type:        quiz.QuestionType(strings.ToLower(strings.TrimSpace(o.Type))),
		Topic:       strings.TrimSpace(o.Topic),
		Text:        o.Text,
		ModelAnswer: o.ModelAnswer,
	}
	if q.IsMCQ() {
		q.Options = o.Options
		q.CorrectOptionIndex = o.CorrectOptionIndex
	}
	return q
}
