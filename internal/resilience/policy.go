package resilience

import (
	"context"
	"time"
)

// Policy pairs a retry schedule with a circuit breaker.
type Policy struct {
	Backoff Backoff
	Breaker *Breaker
}

// NewPolicy builds a Policy from plain config values. Zero values take defaults.
func NewPolicy(name string, maxAttempts, initialBackoffMs, maxBackoffMs, failureThreshold, resetTimeoutSecs int) *Policy {
	return &Policy{
		Backoff: Backoff{
			Attempts: maxAttempts,
			Initial:  time.Duration(initialBackoffMs) * time.Millisecond,
			Max:      time.Duration(maxBackoffMs) * time.Millisecond,
			Jitter:   DefaultBackoff().Jitter,
		},
		Breaker: NewBreaker(name, failureThreshold, time.Duration(resetTimeoutSecs)*time.Second),
	}
}

// Call retries fn under p's backoff, routing every attempt through the
// breaker. Once the breaker opens, ErrOpen ends the retry loop.
func Call[T any](ctx context.Context, p *Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}
	return Retry(ctx, p.Backoff, op, func(ctx context.Context) (T, error) {
		if p.Breaker == nil {
			return fn(ctx)
		}
		return Guard(ctx, p.Breaker, fn)
	})
}
