package client

import (
	"context"
	"fmt"
	"time"

	"github.com/vlm-run/vlmrun-go/internal/transport"
)

// WaitOptions tunes a polling wait. The zero value uses the resource's
// defaults.
type WaitOptions struct {
	// Timeout is the wall-clock budget for the whole wait, inclusive of fetch
	// latencies and sleeps.
	Timeout time.Duration
	// Interval is the fixed sleep between polls. The final sleep is clipped so
	// the last fetch happens at or before the deadline.
	Interval time.Duration
}

// withDefaults fills unset options.
func (o WaitOptions) withDefaults(timeout, interval time.Duration) WaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = timeout
	}
	if o.Interval <= 0 {
		o.Interval = interval
	}
	return o
}

// poller drives a wait loop. The clock and sleep are injectable so timing
// behaviour is testable without real delays.
type poller struct {
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	// growth multiplies the interval after each poll; 1 keeps it fixed. The
	// streaming completion path uses 1.2 capped at maxInterval to back off on
	// long-running jobs.
	growth      float64
	maxInterval time.Duration
}

func newPoller() poller {
	return poller{
		now:    time.Now,
		sleep:  transport.SleepContext,
		growth: 1,
	}
}

// waitFor polls fetch until the reported status is terminal or the deadline
// passes. Terminal resources are returned as-is, including failed ones: the
// caller distinguishes success from failure by inspecting the status, while a
// timeout is always an ErrCodeTimeout error carrying the last observed status.
//
// Fetches are strictly sequential. Transport failures are not retried here (the
// requestor already did); they end the wait.
func waitFor[T any](
	ctx context.Context,
	p poller,
	kind, id string,
	opts WaitOptions,
	fetch func(context.Context) (T, JobStatus, error),
) (T, error) {
	var zero T
	start := p.now()
	interval := opts.Interval
	lastStatus := JobStatus("")

	for {
		resource, status, err := fetch(ctx)
		if err != nil {
			return zero, err
		}
		lastStatus = status
		if status.IsTerminal() {
			return resource, nil
		}

		elapsed := p.now().Sub(start)
		if elapsed >= opts.Timeout {
			return zero, &APIError{
				Code: ErrCodeTimeout,
				Message: fmt.Sprintf("%s %s did not complete within %s (last status: %s)",
					kind, id, opts.Timeout, lastStatus),
				Suggestion: "Increase the wait timeout or poll the resource later",
			}
		}

		// Clip the sleep so the next fetch happens at or before the deadline.
		d := min(interval, opts.Timeout-elapsed)
		if err := p.sleep(ctx, d); err != nil {
			return zero, err
		}

		if p.growth > 1 {
			interval = time.Duration(float64(interval) * p.growth)
			if p.maxInterval > 0 && interval > p.maxInterval {
				interval = p.maxInterval
			}
		}
	}
}
