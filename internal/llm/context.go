package llm

import "context"

type contextKey int

const (
	purposeKey contextKey = iota
	quizIDKey
)

// WithPurpose labels the requests made under ctx ("quiz-gen", "grading")
// in the request log, metrics and traces.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithQuizID ties the requests made under ctx to one quiz, so the
// generation call and the grading calls of a quiz can be found together
// in the logs and traces.
func WithQuizID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, quizIDKey, id)
}

// QuizIDFrom returns the quiz id, or "".
func QuizIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(quizIDKey).(string)
	return v
}
