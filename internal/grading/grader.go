// Package grading scores free-text answers with an LLM examiner.
//
// Grading never fails from the caller's point of view: a provider error,
// a timeout or an unparseable verdict becomes a zero-score fallback so a
// quiz can always reach its results.
package grading

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/metrics"
	"github.com/abhisek/cmaster/internal/quiz"
)

// PurposeGrading labels grading requests in the LLM event log.
const PurposeGrading = "grading"

// FallbackFeedback is shown when an answer could not be graded.
const FallbackFeedback = "Error grading question. Please try again."

// Grader scores one free-text answer.
type Grader interface {
	Grade(ctx context.Context, q quiz.Question, answer string) quiz.GradingResult
}

// Config holds configuration for the LLM grader.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single grading call. Zero disables it.
	Timeout time.Duration

	// Concurrency caps in-flight grading calls in GradeAll.
	Concurrency int

	// RatePerSecond paces GradeAll calls. Zero means unlimited.
	RatePerSecond float64
	Burst         int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     1024,
		Temperature:   0.2,
		Timeout:       45 * time.Second,
		Concurrency:   4,
		RatePerSecond: 2,
		Burst:         4,
	}
}

// Option configures an LLMGrader.
type Option func(*LLMGrader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *LLMGrader) {
		if l != nil {
			g.logger = l
		}
	}
}

// LLMGrader implements Grader using the LLM provider.
type LLMGrader struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// New creates an LLM-based grader.
func New(provider llm.Provider, cfg Config, opts ...Option) *LLMGrader {
	g := &LLMGrader{provider: provider, cfg: cfg, logger: zap.NewNop()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// gradeOutput is the raw LLM verdict.
type gradeOutput struct {
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
	ModelAnswer string `json:"modelAnswer"`
}

// Grade asks the examiner for a verdict on answer. Any failure yields
// Fallback(q).
func (g *LLMGrader) Grade(ctx context.Context, q quiz.Question, answer string) quiz.GradingResult {
	res, err := g.grade(ctx, q, answer)
	if err != nil {
		g.logger.Warn("grading failed, using fallback",
			zap.String("question", q.ID),
			zap.String("topic", q.Topic),
			zap.Error(err))
		metrics.GradingFallbacks.Inc()
		return Fallback(q)
	}
	return res
}

func (g *LLMGrader) grade(ctx context.Context, q quiz.Question, answer string) (quiz.GradingResult, error) {
	ctx = llm.WithPurpose(ctx, PurposeGrading)
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	userMsg, err := buildGradeMessage(q, answer)
	if err != nil {
		return quiz.GradingResult{}, fmt.Errorf("build grading prompt: %w", err)
	}

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      GradeSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return quiz.GradingResult{}, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw gradeOutput
	if err := resp.Decode(&raw); err != nil {
		return quiz.GradingResult{}, fmt.Errorf("failed to parse grading response: %w", err)
	}

	modelAnswer := raw.ModelAnswer
	if modelAnswer == "" {
		modelAnswer = q.ModelAnswer
	}
	return quiz.GradingResult{
		Score:       quiz.ClampScore(raw.Score),
		Feedback:    raw.Feedback,
		ModelAnswer: modelAnswer,
	}, nil
}

// GradeAll grades answers concurrently with the grader's pacing settings.
func (g *LLMGrader) GradeAll(ctx context.Context, questions []quiz.Question, answers []quiz.UserAnswer) []quiz.UserAnswer {
	return GradeAll(ctx, g, questions, answers, g.cfg)
}

// Fallback is the verdict recorded when grading fails.
func Fallback(q quiz.Question) quiz.GradingResult {
	modelAnswer := q.ModelAnswer
	if modelAnswer == "" {
		modelAnswer = "N/A"
	}
	return quiz.GradingResult{
		Score:       0,
		Feedback:    FallbackFeedback,
		ModelAnswer: modelAnswer,
	}
}

const gradingSystemPrompt = `You are a strict but fair C programming examiner marking one answer from a revision quiz.

Marking rules:
- Score from 0 to 100.
- Arithmetic and code tracing answers must match the model answer exactly, including output formatting. Anything else scores 0.
- Code writing is judged on logic and whether it would compile. Deduct 10 for each syntax error that breaks compilation and 5 for a missing semicolon.
- Debugging answers must name the specific faulty line and the fix. A vague description scores at most 40.
- Pseudocode is judged on correctness of the steps, not syntax.
- Feedback is two or three sentences addressed to the student.
- modelAnswer is the canonical answer to show the student.`

var gradeUserTemplate = template.Must(template.New("grade").Parse(`Topic: {{.Topic}}
Question type: {{.Type}}

Question:
{{.Text}}

Model answer:
{{.ModelAnswer}}

Student answer:
{{.Answer}}
`))

type gradePromptData struct {
	quiz.Question
	Answer string
}

func buildGradeMessage(q quiz.Question, answer string) (string, error) {
	var buf bytes.Buffer
	if err := gradeUserTemplate.Execute(&buf, gradePromptData{Question: q, Answer: answer}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
