package bridge

import (
	"context"
	"sync"
)

// Call records one bridge operation for later assertion.
type Call struct {
	Op  string `json:"op"`
	Arg string `json:"arg,omitempty"`
}

// Recorder is a Bridge that records every operation. Used by engine tests
// and the walkthrough harness to assert on side-effect activity.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(op, arg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, Arg: arg})
}

// Calls returns a copy of the recorded operations in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset clears the recorded operations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) EnsureOpen(_ context.Context, affordanceID string) error {
	r.record("ensure_open", affordanceID)
	return nil
}

func (r *Recorder) CloseAffordance(_ context.Context, affordanceID string) error {
	r.record("close_affordance", affordanceID)
	return nil
}

func (r *Recorder) ScrollIntoView(_ context.Context, target string) error {
	r.record("scroll_into_view", target)
	return nil
}

func (r *Recorder) Highlight(_ context.Context, target string) error {
	r.record("highlight", target)
	return nil
}

func (r *Recorder) ClearHighlight(context.Context) error {
	r.record("clear_highlight", "")
	return nil
}
