// Package debounce coalesces bursts of events into a single delayed signal.
package debounce

import (
	"sync"
	"time"
)

// Timer fires once on C after Delay has passed without another Trigger.
// The first Trigger arms it, each later Trigger pushes the deadline back, and
// at most one signal is ever buffered.
type Timer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	fired   chan struct{}
}

// New creates a disarmed timer
func New(delay time.Duration) *Timer {
	return &Timer{
		delay: delay,
		fired: make(chan struct{}, 1),
	}
}

// C receives one value per coalesced burst
func (t *Timer) C() <-chan struct{} {
	return t.fired
}

// Delay returns the quiet period
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Trigger arms the timer or pushes its deadline back
func (t *Timer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.pending = true
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// a Trigger or Cancel after this callback was scheduled wins
	if gen != t.gen {
		return
	}
	// signal before clearing pending so a waiter never sees neither
	select {
	case t.fired <- struct{}{}:
	default:
	}
	t.pending = false
	t.timer = nil
}

// Pending reports whether a fire is scheduled
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Cancel disarms the timer and drops a signal not yet received
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.pending = false
	select {
	case <-t.fired:
	default:
	}
}
