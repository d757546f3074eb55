package harness

import (
	"github.com/hb-platform/guidesync/internal/bridge"
	"github.com/hb-platform/guidesync/internal/engine"
)

// TraceEvent records one executed operation: its arguments, the engine state
// after it committed, and the bridge calls it triggered.
type TraceEvent struct {
	Op     string        `json:"op"`
	Tour   string        `json:"tour,omitempty"`
	Index  int           `json:"index,omitempty"`
	State  engine.State  `json:"state"`
	Bridge []bridge.Call `json:"bridge,omitempty"`
	Seq    int           `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion
	// matched.
	Pass bool `json:"pass"`

	// Trace contains one event per executed operation, in order.
	// Used for assertions and golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the engine state after the last operation.
	Final engine.State `json:"final"`

	// Available is the tour availability flag after the last operation.
	Available bool `json:"available"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// BridgeCalls flattens the bridge calls of every trace event, in order.
func (r *Result) BridgeCalls() []bridge.Call {
	var calls []bridge.Call
	for _, event := range r.Trace {
		calls = append(calls, event.Bridge...)
	}
	return calls
}
