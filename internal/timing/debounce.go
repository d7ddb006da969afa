package timing

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled function once no new schedule
// has arrived for the wait duration.
type Debouncer struct {
	wait time.Duration
	settings

	mu    sync.Mutex
	gen   uint64
	timer Timer
	fn    func()
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(wait time.Duration, opts ...Option) *Debouncer {
	return &Debouncer{wait: wait, settings: newSettings(opts)}
}

// Schedule replaces any pending function with fn and restarts the wait.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.fn = fn
	d.timer = d.clock.AfterFunc(d.wait, func() {
		d.dispatch(func() { d.run(gen) })
	})
}

// run executes the pending function if gen is still current. A cancel or a
// newer Schedule between firing and dispatch makes it a no-op.
func (d *Debouncer) run(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()
	fn()
}

// CancelPending drops the pending function. It reports whether one existed.
func (d *Debouncer) CancelPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.takeLocked() != nil
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Flush runs the pending function now on the calling goroutine.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.takeLocked()
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func (d *Debouncer) takeLocked() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.fn
	d.fn = nil
	return fn
}
