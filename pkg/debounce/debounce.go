package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer delays a function until calls stop arriving for a fixed delay.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// New panics on a negative delay.
func New(delay time.Duration) *Debouncer {
	if delay < 0 {
		panic("debounce: negative delay")
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn after the delay, replacing any pending call and
// cancelling the context of one already running. fn does not run at all
// when ctx is done before the delay elapses.
func (d *Debouncer) Trigger(ctx context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if runCtx.Err() != nil {
			return
		}
		fn(runCtx)
	})
}

// Cancel drops a pending call and cancels a running one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
