package async

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight bounds how many detached handlers run at the same time.
const DefaultMaxInFlight = 32

// ErrDrainTimeout is returned by Drain when handlers are still running after the grace period.
var ErrDrainTimeout = goerr.New("detached handlers did not finish within grace period")

// Dispatcher runs fire-and-forget handlers on their own goroutines.
// Handlers are detached from the caller's cancellation, so a handler started
// during a call keeps running after the call ends. Drain lets the process wait
// for them at shutdown.
type Dispatcher struct {
	wg       sync.WaitGroup
	sem      *semaphore.Weighted
	inFlight atomic.Int64
}

type Option func(*Dispatcher)

// WithMaxInFlight sets the concurrency bound. Values below 1 are ignored.
func WithMaxInFlight(n int64) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.sem = semaphore.NewWeighted(n)
		}
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sem: semaphore.NewWeighted(DefaultMaxInFlight),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes handler asynchronously. The caller never waits for it.
// Errors and panics are logged with the caller's logger.
func (d *Dispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.WithoutCancel(ctx), logging.From(ctx))

	d.wg.Add(1)
	d.inFlight.Add(1)

	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := d.sem.Acquire(bgCtx, 1); err != nil {
			logging.From(bgCtx).Error("failed to acquire dispatcher slot", "error", err.Error())
			return
		}
		defer d.sem.Release(1)

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}

// InFlight returns the number of handlers that have not finished yet.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Drain waits until every dispatched handler has returned, the grace period
// expires, or ctx is cancelled, whichever comes first.
func (d *Dispatcher) Drain(ctx context.Context, grace time.Duration) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return goerr.Wrap(ErrDrainTimeout, "drain grace period expired",
			goerr.V("grace", grace.String()),
			goerr.V("in_flight", d.InFlight()),
		)
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "drain cancelled", goerr.V("in_flight", d.InFlight()))
	}
}
