package rate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter gates outbound API calls so we stay inside Gmail quota limits.
// Gmail charges each method a fixed number of quota units; callers pass the
// cost of the call they are about to make.
type Limiter interface {
	Wait(ctx context.Context, units int) error
}

// TokenBucket is a weighted token bucket. Capacity equals the per-second
// unit budget and tokens refill continuously at the same rate, so a burst of
// cheap calls and a single expensive one draw from the same budget.
type TokenBucket struct {
	rate float64

	mu     sync.Mutex
	tokens float64
	last   time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTokenBucket returns a limiter with a budget of unitsPerSecond. The
// bucket starts full so the first calls proceed immediately.
func NewTokenBucket(unitsPerSecond int) *TokenBucket {
	if unitsPerSecond <= 0 {
		unitsPerSecond = 1
	}
	return &TokenBucket{
		rate:   float64(unitsPerSecond),
		tokens: float64(unitsPerSecond),
		last:   time.Now(),
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Wait draws units tokens, blocking until the bucket refills enough or the
// context is canceled. Requests larger than the bucket capacity can never be
// satisfied and are an error.
func (t *TokenBucket) Wait(ctx context.Context, units int) error {
	if units <= 0 {
		return nil
	}
	if float64(units) > t.rate {
		return fmt.Errorf("rate: request of %d units exceeds bucket capacity %d", units, int(t.rate))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refill()
	for float64(units) > t.tokens {
		deficit := float64(units) - t.tokens
		d := time.Duration(deficit / t.rate * float64(time.Second))
		if err := t.sleep(ctx, d); err != nil {
			return fmt.Errorf("rate wait canceled: %w", err)
		}
		t.refill()
	}
	t.tokens -= float64(units)
	return nil
}

func (t *TokenBucket) refill() {
	now := t.now()
	t.tokens = min(t.tokens+now.Sub(t.last).Seconds()*t.rate, t.rate)
	t.last = now
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ Limiter = (*TokenBucket)(nil)
