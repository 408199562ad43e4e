package grading

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abhisek/cmaster/internal/quiz"
)

// BatchGrader grades a whole answer set.
type BatchGrader interface {
	GradeAll(ctx context.Context, questions []quiz.Question, answers []quiz.UserAnswer) []quiz.UserAnswer
}

// GradeAll returns answers with every free-text answer graded by g. The
// result has the same order as answers and the input is not modified.
//
// MCQ answers keep their local score and only gain the model answer.
// Answers already marked AIGraded are left alone. Each grading task owns
// its failure, so GradeAll always returns once every task has settled.
func GradeAll(ctx context.Context, g Grader, questions []quiz.Question, answers []quiz.UserAnswer, cfg Config) []quiz.UserAnswer {
	byID := make(map[string]quiz.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(cfg.Burst, 1))
	}

	out := make([]quiz.UserAnswer, len(answers))
	copy(out, answers)

	var eg errgroup.Group
	if cfg.Concurrency > 0 {
		eg.SetLimit(cfg.Concurrency)
	}

	for i, a := range out {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		if q.IsMCQ() {
			out[i].ModelAnswer = q.ModelAnswer
			continue
		}
		if a.AIGraded {
			continue
		}

		eg.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				out[i] = a.Apply(Fallback(q))
				return nil
			}
			out[i] = a.Apply(g.Grade(ctx, q, a.Value.Text))
			return nil
		})
	}
	_ = eg.Wait()

	return out
}
