// Package retry runs an operation with a fixed number of attempts and
// exponential backoff (base, 2*base, 4*base, ...). There is no jitter.
package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

// Do calls fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error from fn is returned.
func Do(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	return do(ctx, attempts, base, fn, func(error) bool { return true })
}

// DoRetryable is Do but gives up immediately on errors that are not
// network failures.
func DoRetryable(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	return do(ctx, attempts, base, fn, Retryable)
}

// DoIf is Do but only retries errors accepted by retryable.
func DoIf(ctx context.Context, attempts int, base time.Duration, retryable func(error) bool, fn func(ctx context.Context) error) error {
	return do(ctx, attempts, base, fn, retryable)
}

func Retryable(err error) bool {
	return apperr.Classify(err) == apperr.KindNetwork
}

// Backoff returns the wait before attempt n+1, n starting at 1.
func Backoff(base time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	return base << (n - 1)
}

func do(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error, retryable func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for n := 1; n <= attempts; n++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if n == attempts || !retryable(err) {
			break
		}
		wait := Backoff(base, n)
		log.Debug().Err(err).Int("attempt", n).Dur("wait", wait).Msg("[retry] attempt failed")
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
	return err
}
