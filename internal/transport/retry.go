// Package transport holds the low-level HTTP retry machinery shared by the SDK
// requestor. The policy is a plain value so backoff behaviour can be unit tested
// without a network.
package transport

import (
	"context"
	"errors"
	"net"
	"net/url"
	"time"
)

const (
	// DefaultMaxAttempts bounds how many times a request is tried in total.
	DefaultMaxAttempts = 5
	// DefaultInitialDelay is the backoff before the second attempt.
	DefaultInitialDelay = 1 * time.Second
	// DefaultMaxDelay caps the exponential backoff.
	DefaultMaxDelay = 10 * time.Second
)

// RetryPolicy retries an operation on transient failures with exponential
// backoff. Only errors accepted by Retryable are retried; everything else
// returns immediately. The zero value is not usable, construct via
// DefaultRetryPolicy and override fields as needed.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts int
	// InitialDelay is the backoff after the first failed attempt. It doubles
	// on each subsequent failure up to MaxDelay.
	InitialDelay time.Duration
	// MaxDelay caps the backoff.
	MaxDelay time.Duration
	// Retryable decides whether an error is transient. Defaults to
	// IsTransportError.
	Retryable func(error) bool
	// Sleep waits between attempts. Injectable for tests; defaults to a
	// context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the policy used by the SDK: five attempts with
// 1s/2s/4s/8s backoff, retrying transport-level failures only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Retryable:    IsTransportError,
		Sleep:        SleepContext,
	}
}

// Do runs op until it succeeds, returns a non-retryable error, or the attempt
// budget is exhausted. The last error is returned as-is so callers can classify
// it afterwards.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransportError
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == attempts {
			break
		}
		if sleepErr := sleep(ctx, p.DelayFor(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
	return lastErr
}

// DelayFor returns the backoff applied after the given failed attempt
// (1-based): InitialDelay doubled attempt-1 times, capped at MaxDelay.
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// SleepContext blocks for d or until ctx is done, whichever comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsTransportError reports whether err is a connection-level failure or
// timeout, the only failures worth retrying. HTTP status codes never take this
// path: the requestor treats any received response as deterministic.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	// Caller cancellation is not transient.
	if errors.Is(err, context.Canceled) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return !errors.Is(urlErr.Err, context.Canceled)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsTimeout reports whether err is a timeout, as opposed to some other
// transport failure. Used to pick the error code after retry exhaustion.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
