// Package testutil provides deterministic test doubles for guidesync:
// a manual scheduler standing in for timer-based deferred cleanup.
package testutil

import (
	"sync"
	"time"
)

// ManualScheduler collects deferred functions instead of running them on a
// timer. Tests (and the walkthrough harness) fire pending callbacks at a
// chosen point, making deferred-cleanup behavior fully deterministic.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	fn        func()
	cancelled bool
	fired     bool
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule matches the engine's Scheduler signature. The delay is ignored;
// the callback runs only when FirePending is called, unless cancelled
// first. Cancel is safe to call more than once and after firing.
func (m *ManualScheduler) Schedule(_ time.Duration, fn func()) (cancel func()) {
	s := &scheduled{fn: fn}
	m.mu.Lock()
	m.pending = append(m.pending, s)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		s.cancelled = true
	}
}

// FirePending runs every scheduled callback that has been neither
// cancelled nor fired, in scheduling order, and returns how many ran.
func (m *ManualScheduler) FirePending() int {
	m.mu.Lock()
	var run []*scheduled
	for _, s := range m.pending {
		if !s.cancelled && !s.fired {
			s.fired = true
			run = append(run, s)
		}
	}
	m.mu.Unlock()

	for _, s := range run {
		s.fn()
	}
	return len(run)
}

// PendingCount returns the number of callbacks still waiting to fire.
func (m *ManualScheduler) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.pending {
		if !s.cancelled && !s.fired {
			n++
		}
	}
	return n
}

// CancelledCount returns the number of callbacks cancelled before firing.
func (m *ManualScheduler) CancelledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.pending {
		if s.cancelled && !s.fired {
			n++
		}
	}
	return n
}
