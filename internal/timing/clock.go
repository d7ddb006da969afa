// Package timing provides the debounce and throttle primitives the viewport
// uses to rate-limit scroll handling and defer pruning.
//
// Timers never touch caller state directly. A fired timer hands its work to a
// Dispatcher, which lets a host run the callback on its own event loop:
//
//	d := timing.NewDebouncer(100*time.Millisecond,
//		timing.WithDispatcher(func(fn func()) { program.Send(runMsg{fn}) }))
//	d.Schedule(func() { w.Prune(viewport.Top) })
package timing

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules with the runtime timer heap.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Dispatcher runs fn on the owner's event loop.
type Dispatcher func(fn func())

// Inline runs fn on the calling goroutine.
func Inline(fn func()) { fn() }

// Option configures a Debouncer or Throttler.
type Option func(*settings)

type settings struct {
	clock    Clock
	dispatch Dispatcher
}

func newSettings(opts []Option) settings {
	s := settings{clock: RealClock{}, dispatch: Inline}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDispatcher routes fired callbacks through d.
func WithDispatcher(d Dispatcher) Option {
	return func(s *settings) {
		if d != nil {
			s.dispatch = d
		}
	}
}
