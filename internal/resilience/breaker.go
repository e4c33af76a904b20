// Package resilience keeps flaky upstream calls from stalling a search:
// bounded retries for transient failures and a circuit breaker that fails
// fast while the upstream is down.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrOpen is returned without calling upstream while the breaker is open.
var ErrOpen = eris.New("resilience: circuit open")

// Breaker opens after a run of consecutive transient failures and lets a
// single trial call through once the cooldown has elapsed.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	failures int
	open     bool
	openedAt time.Time
	trialing bool
}

// NewBreaker returns a closed breaker. Non-positive arguments default to 5
// failures and 30 seconds.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{name: name, threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Open reports whether calls are currently being rejected.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && b.now().Sub(b.openedAt) < b.cooldown
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil
	}
	if b.trialing || b.now().Sub(b.openedAt) < b.cooldown {
		return ErrOpen
	}
	b.trialing = true
	return nil
}

// record counts only transient failures; a caller error such as a bad
// request says nothing about upstream health.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasTrial := b.trialing
	b.trialing = false

	if !IsTransient(err) {
		if b.open {
			zap.L().Info("resilience: circuit closed", zap.String("breaker", b.name))
		}
		b.open = false
		b.failures = 0
		return
	}

	b.failures++
	if wasTrial || b.failures >= b.threshold {
		if !b.open || wasTrial {
			zap.L().Warn("resilience: circuit opened",
				zap.String("breaker", b.name),
				zap.Int("failures", b.failures),
			)
		}
		b.open = true
		b.openedAt = b.now()
	}
}

// Guard runs fn through the breaker.
func Guard[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.allow(); err != nil {
		return zero, err
	}
	v, err := fn(ctx)
	b.record(err)
	return v, err
}
