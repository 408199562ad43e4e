package problemgen

import (
	"context"

	"github.com/abhisek/cmaster/internal/quiz"
)

// Generator produces the question set for a quiz.
type Generator interface {
	// Generate returns questions matching cfg's per-type counts. weakTopics
	// (weakest first, at most three) are a soft hint; cfg.Topics must be
	// covered. A config requesting nothing yields an empty set.
	Generate(ctx context.Context, cfg quiz.Config, weakTopics []string) ([]quiz.Question, error)
}
