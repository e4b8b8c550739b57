package huumapi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy wraps a remote call with bounded exponential-backoff retry.
// Only transient failures (transport errors, decode errors) are retried;
// semantic failures surface immediately. The zero value is unusable, use
// DefaultRetryPolicy.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy matches the vendor recommendation: three total attempts
// with delays of 2s and 4s, capped at 10s.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:     3,
	InitialInterval: 2 * time.Second,
	MaxInterval:     10 * time.Second,
}

// Do invokes op until it succeeds, fails terminally, or the attempt budget is
// spent. A transient failure that survives every attempt is reclassified as
// an APIError.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	attempts := uint64(p.MaxAttempts)
	if attempts == 0 {
		attempts = 1
	}

	err := backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx))
	if err == nil {
		return nil
	}
	if retryable(err) {
		return &APIError{Message: "request failed after retries", Cause: err}
	}
	return err
}
