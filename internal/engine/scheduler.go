package engine

import "time"

// Scheduler defers a function by the given delay and returns a cancel
// function. Cancel must be safe to call after the function has fired.
//
// Implemented by the time.AfterFunc-backed default (production) and
// testutil.ManualScheduler (tests, harness).
type Scheduler func(delay time.Duration, fn func()) (cancel func())

// defaultScheduler schedules through time.AfterFunc.
func defaultScheduler(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}
