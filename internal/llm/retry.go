package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/cmaster/internal/metrics"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter. An invalid response is retried once;
// truncation, rejections and context errors are returned at once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		reason, ok := retryable(err)
		if reason == "invalid_response" {
			ok = !invalidSeen
			invalidSeen = true
		}
		if !ok || attempt >= attempts {
			return nil, err
		}

		wait := r.backoff(attempt-1, err)
		// Sleeping past the caller's deadline only delays the same failure.
		if deadline, has := ctx.Deadline(); has && time.Until(deadline) < wait {
			return nil, err
		}
		metrics.LLMRetries.WithLabelValues(PurposeFrom(ctx), reason).Inc()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable classifies err for the retry loop. Unknown errors, usually
// network failures below the SDK, are treated as transient.
func retryable(err error) (reason string, ok bool) {
	var (
		rl       *ErrRateLimit
		unavail  *ErrProviderUnavailable
		invalid  *ErrInvalidResponse
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context", false
	case errors.As(err, &maxTok):
		return "max_tokens", false
	case errors.As(err, &rejected):
		return "rejected", false
	case errors.As(err, &rl):
		return "rate_limit", true
	case errors.As(err, &unavail):
		return "unavailable", true
	case errors.As(err, &invalid):
		return "invalid_response", true
	default:
		return "other", true
	}
}

// retryReason labels a retried error for the retry counter.
func retryReason(err error) string {
	reason, _ := retryable(err)
	return reason
}

// backoff computes the wait before the next attempt. A rate limit's
// Retry-After wins but is capped at MaxWait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if r.config.MaxWait > 0 {
			return min(rl.RetryAfter, r.config.MaxWait)
		}
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.MaxWait > 0 {
		wait = math.Min(wait, float64(r.config.MaxWait))
	}
	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
