package llm

import (
	"context"
	"errors"
	"time"

	"bytsbot/internal/logging"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a completion is attempted.
type RetryPolicy struct {
	MaxAttempts int           // including the first call
	BaseDelay   time.Duration // doubles after each failure
}

// DefaultRetryPolicy is three attempts starting at two seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

type retryClient struct {
	inner  Client
	policy RetryPolicy
}

// WithRetry wraps c so transient failures are retried with exponential
// backoff. Non-retryable provider statuses and context errors stop at once.
func WithRetry(c Client, policy RetryPolicy) Client {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &retryClient{inner: c, policy: policy}
}

func (r *retryClient) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.BaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = r.policy.BaseDelay << uint(r.policy.MaxAttempts)
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.policy.MaxAttempts-1)), ctx)
}

func (r *retryClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var out string
	attempt := 0
	op := func() error {
		attempt++
		text, err := r.inner.CompleteWithSystem(ctx, systemPrompt, userPrompt)
		if err != nil {
			if !retryable(ctx, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = text
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logging.LLMWarn("attempt %d/%d failed: %v (retrying in %v)", attempt, r.policy.MaxAttempts, err, wait)
	}

	if err := backoff.RetryNotify(op, r.newBackOff(ctx), notify); err != nil {
		logging.LLMError("giving up after %d attempt(s): %v", attempt, err)
		return "", err
	}
	return out, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
