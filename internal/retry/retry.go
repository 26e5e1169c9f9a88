// Package retry bounds how labelmend reacts to transient Gmail failures.
package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

// Policy bounds the exponential backoff applied to transient failures.
type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
}

// DefaultPolicy matches Gmail's guidance: a handful of attempts, starting
// at one second and doubling.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 5, InitialInterval: time.Second}
}

// Transient reports whether err is worth retrying: rate limiting, a
// transient server-side failure, or a network timeout.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return true
		case http.StatusForbidden:
			// Gmail reports per-user quota exhaustion as 403 with a
			// rate-limit reason, not as 429.
			for _, item := range apiErr.Errors {
				if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
					return true
				}
			}
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Do runs op, retrying transient failures with exponential backoff until the
// attempt budget is spent or the context is canceled. Non-transient errors
// return immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	wrapped := func() error {
		err := op()
		if err == nil || Transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}
