// Package utils holds small helpers shared across the application.
package utils

import (
	"context"
	"time"
)

// Backoff describes an exponential retry schedule. A nil Retryable
// predicate retries every error.
type Backoff struct {
	Attempts  int
	Initial   time.Duration
	Max       time.Duration
	Factor    float64
	Retryable func(error) bool
}

// DefaultBackoff suits short interactive API calls: three attempts
// within a few seconds.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: 3,
		Initial:  500 * time.Millisecond,
		Max:      5 * time.Second,
		Factor:   2.0,
	}
}

// RetryWithResult runs fn until it succeeds, an error is ruled out by the
// predicate, the schedule is exhausted or the context ends. The last
// error comes back unwrapped so callers can classify it.
func RetryWithResult[T any](ctx context.Context, b Backoff, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := b.Initial

	for attempt := 0; attempt < b.Attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if b.Retryable != nil && !b.Retryable(err) {
			return zero, err
		}
		if attempt == b.Attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * b.Factor)
		if delay > b.Max {
			delay = b.Max
		}
	}

	return zero, lastErr
}
