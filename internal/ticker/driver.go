// Package ticker drives periodic game ticks.
// A Driver owns at most one running schedule; changing the interval means
// stopping the current schedule and starting a new one.
package ticker

import (
	"context"
	"sync"
	"time"
)

// Driver invokes a callback at a fixed interval until stopped.
// Callbacks never overlap, and once a schedule has been stopped or replaced
// none of its callbacks begins again. A callback already running when Stop
// returns is not waited for. The zero value is ready to use.
type Driver struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	interval time.Duration
	starts   uint64 // Also the id of the newest schedule

	fireMu sync.Mutex // Held for the whole of each callback
}

// New creates a stopped driver.
func New() *Driver {
	return &Driver{}
}

// Start begins calling fn every interval.
// Returns false without doing anything if a schedule is already active
// or the interval is not positive.
func (d *Driver) Start(interval time.Duration, fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil || interval <= 0 || fn == nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.interval = interval
	d.starts++

	go d.run(ctx, d.starts, interval, fn)
	return true
}

// Stop cancels the active schedule, if any.
// It does not wait for an in-flight callback, so it is safe to call from
// inside fn; no callback of the cancelled schedule starts after it returns.
// Safe to call multiple times.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel == nil {
		return
	}
	d.cancel()
	d.cancel = nil
	d.interval = 0
}

// Restart replaces the active schedule with a new one at interval.
func (d *Driver) Restart(interval time.Duration, fn func()) bool {
	d.Stop()
	return d.Start(interval, fn)
}

// Active reports whether a schedule is running.
func (d *Driver) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Interval returns the interval of the active schedule, or 0 when stopped.
func (d *Driver) Interval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.interval
}

// Starts returns how many schedules have been started over the driver's lifetime.
func (d *Driver) Starts() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts
}

// run is the body of schedule id. It owns the time.Ticker and releases it
// when the context is cancelled.
func (d *Driver) run(ctx context.Context, id uint64, interval time.Duration, fn func()) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// Both cases can be ready at once; cancellation wins.
			if ctx.Err() != nil {
				return
			}
			d.fire(id, fn)
		}
	}
}

// fire calls fn if schedule id is still the live one. The liveness check
// and the call happen under fireMu, so a replaced schedule that woke up
// late cannot run after, or alongside, its successor.
func (d *Driver) fire(id uint64, fn func()) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	if !d.live(id) {
		return
	}
	fn()
}

func (d *Driver) live(id uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil && d.starts == id
}
