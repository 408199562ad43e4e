package problemgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/cmaster/internal/llm"
	"github.com/abhisek/cmaster/internal/quiz"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate asks the model for a full question set and validates it. A
// retryable validation failure triggers a fresh request that carries the
// rejection reason, up to MaxAttempts in total.
func (g *LLMGenerator) Generate(ctx context.Context, cfg quiz.Config, weakTopics []string) ([]quiz.Question, error) {
	if cfg.Total() <= 0 {
		return []quiz.Question{}, nil
	}

	ctx = llm.WithPurpose(ctx, PurposeQuizGen)

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildUserMessage(cfg, weakTopics)},
	}

	var lastErr error
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		questions, err := g.generateOnce(ctx, messages, cfg)
		if err == nil {
			return questions, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		messages = []llm.Message{
			messages[0],
			{Role: llm.RoleUser, Content: buildRetryMessage(verr)},
		}
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, messages []llm.Message, cfg quiz.Config) ([]quiz.Question, error) {
	req := llm.Request{
		System:      systemPrompt(),
		Messages:    messages,
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	questions := make([]quiz.Question, 0, len(raw.Questions))
	for _, o := range raw.Questions {
		questions = append(questions, o.toQuestion())
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(questions, cfg); verr != nil {
			return nil, verr
		}
	}

	return questions, nil
}
