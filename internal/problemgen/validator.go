package problemgen

import (
	"fmt"

	"github.com/abhisek/cmaster/internal/quiz"
)

// Validator checks a generated question batch.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if the batch passes, or a ValidationError. The
	// quiz config the batch was generated for is passed for context.
	Validate(questions []quiz.Question, cfg quiz.Config) *ValidationError
}

// ValidationError describes why a batch failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
