// Package debounce provides a trailing-edge debouncer.
//
// A Debouncer collapses a burst of Trigger calls into a single invocation of
// its action, run once the delay has elapsed without a newer Trigger. At most
// one invocation is pending at any time; every Trigger cancels the pending
// one and reschedules with the newest value.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays and collapses calls to an action.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	action  func(T)
	timer   *time.Timer
	pending T
	gen     uint64
	armed   bool
	stopped bool
}

// New creates a Debouncer that runs action after delay of quiet.
func New[T any](delay time.Duration, action func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:  delay,
		action: action,
	}
}

// Delay returns the configured quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger schedules the action with v, cancelling any pending invocation.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = v
	d.armed = true

	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// fire runs the action if gen is still the latest scheduled invocation.
// A timer that fired while a newer Trigger held the lock is stale.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.action(v)
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Cancel drops the pending invocation. Returns true if one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.armed {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.armed = false
	d.gen++
	return true
}

// Take cancels the pending invocation and returns its value, so the caller
// can run it on its own goroutine.
func (d *Debouncer[T]) Take() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if !d.armed || d.stopped {
		return zero, false
	}
	d.timer.Stop()
	d.timer = nil
	d.armed = false
	d.gen++
	return d.pending, true
}

// Flush runs the pending invocation immediately, if any.
// Returns true if the action was run.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.armed = false
	d.gen++
	v := d.pending
	d.mu.Unlock()

	d.action(v)
	return true
}

// Stop cancels any pending invocation and ignores later Triggers.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
	d.stopped = true
}
