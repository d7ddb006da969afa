package timing

import (
	"sync"
	"time"
)

// Throttler runs a function at most once per interval. A call while the
// interval is open is remembered, replacing any earlier one, and runs when the
// interval closes, which opens a new interval.
type Throttler struct {
	interval time.Duration
	settings

	mu        sync.Mutex
	gen       uint64
	throttled bool
	timer     Timer
	saved     func()
}

// NewThrottler returns a Throttler with the given interval.
func NewThrottler(interval time.Duration, opts ...Option) *Throttler {
	return &Throttler{interval: interval, settings: newSettings(opts)}
}

// Schedule runs fn now when idle; otherwise it becomes the trailing call.
func (t *Throttler) Schedule(fn func()) {
	t.mu.Lock()
	if t.throttled {
		t.saved = fn
		t.mu.Unlock()
		return
	}
	t.throttled = true
	t.gen++
	gen := t.gen
	t.timer = t.clock.AfterFunc(t.interval, func() {
		t.dispatch(func() { t.release(gen) })
	})
	t.mu.Unlock()
	fn()
}

func (t *Throttler) release(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.throttled = false
	t.timer = nil
	fn := t.saved
	t.saved = nil
	t.mu.Unlock()
	if fn != nil {
		t.Schedule(fn)
	}
}

// CancelPending drops the trailing call and closes the interval. It reports
// whether a trailing call existed.
func (t *Throttler) CancelPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.throttled = false
	had := t.saved != nil
	t.saved = nil
	return had
}

// Pending reports whether a trailing call is waiting.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved != nil
}
