package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Timer is the wait primitive between attempts.
type Timer = backoff.Timer

// NotifyFunc is called after each failed attempt, before waiting.
type NotifyFunc func(err error, attempt int, wait time.Duration)

// Retry runs an operation at a fixed interval until it succeeds.
type Retry struct {
	Interval time.Duration
	// Timer replaces the real wall-clock timer; used by tests.
	Timer  Timer
	Notify NotifyFunc
}

// Do calls op until it returns nil or ctx is done, in which case ctx.Err()
// is returned. There is no attempt limit.
func (r *Retry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	b := backoff.WithContext(backoff.NewConstantBackOff(r.Interval), ctx)

	wrappedOp := func() error {
		return op(ctx)
	}

	var attempt int
	notify := func(err error, wait time.Duration) {
		attempt++
		if r.Notify != nil {
			r.Notify(err, attempt, wait)
		}
	}

	return backoff.RetryNotifyWithTimer(wrappedOp, b, notify, r.Timer)
}
