package problemgen

import (
	"fmt"
	"slices"

	"github.com/abhisek/cmaster/internal/quiz"
)

// StructuralValidator checks every question for required fields and the
// multiple-choice invariant.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(questions []quiz.Question, _ quiz.Config) *ValidationError {
	for i, q := range questions {
		if err := q.Check(); err != nil {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d: %v", i+1, err),
				Retryable: true,
			}
		}
	}
	return nil
}

// CountValidator checks that the batch holds exactly the requested number
// of questions of each type.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(questions []quiz.Question, cfg quiz.Config) *ValidationError {
	got := make(map[quiz.QuestionType]int)
	for _, q := range questions {
		got[q.Type]++
	}
	for _, t := range quiz.Types() {
		if got[t] != cfg.Count(t) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("requested %d %s questions, got %d", cfg.Count(t), t, got[t]),
				Retryable: true,
			}
		}
	}
	return nil
}

// UniqueIDValidator rejects batches that reuse a question id.
type UniqueIDValidator struct{}

func (v *UniqueIDValidator) Name() string { return "unique-id" }

func (v *UniqueIDValidator) Validate(questions []quiz.Question, _ quiz.Config) *ValidationError {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate question id %q", q.ID),
				Retryable: true,
			}
		}
		seen[q.ID] = true
	}
	return nil
}

// TopicCoverageValidator checks that every explicitly selected topic
// appears in the batch when there are enough questions to cover them.
type TopicCoverageValidator struct{}

func (v *TopicCoverageValidator) Name() string { return "topic-coverage" }

func (v *TopicCoverageValidator) Validate(questions []quiz.Question, cfg quiz.Config) *ValidationError {
	if len(cfg.Topics) == 0 || len(questions) < len(cfg.Topics) {
		return nil
	}
	for _, t := range cfg.Topics {
		if !slices.ContainsFunc(questions, func(q quiz.Question) bool { return q.Topic == t }) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("selected topic %q is not covered", t),
				Retryable: true,
			}
		}
	}
	return nil
}
