package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hb-platform/guidesync/internal/bridge"
	"github.com/hb-platform/guidesync/internal/engine"
)

func tracedResult() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{Op: OpStart, Bridge: []bridge.Call{
			{Op: "scroll_into_view", Arg: "#grid"},
			{Op: "highlight", Arg: "#grid"},
		}},
		{Op: OpNext, Bridge: []bridge.Call{
			{Op: "ensure_open", Arg: "panel"},
			{Op: "scroll_into_view", Arg: "#row"},
		}},
		{Op: OpStop, Bridge: []bridge.Call{
			{Op: "close_affordance", Arg: "panel"},
			{Op: "clear_highlight"},
		}},
	}
	r.Final = engine.State{Active: false, StepIndex: 0}
	r.Available = true
	return r
}

func TestFormatCall(t *testing.T) {
	assert.Equal(t, "ensure_open panel", FormatCall(bridge.Call{Op: "ensure_open", Arg: "panel"}))
	assert.Equal(t, "clear_highlight", FormatCall(bridge.Call{Op: "clear_highlight"}))
}

func TestEvaluateBridgeContains(t *testing.T) {
	r := tracedResult()

	failures := EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeContains, Call: "ensure_open panel"},
	})
	assert.Empty(t, failures)

	failures = EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeContains, Call: "ensure_open other"},
	})
	assert.Len(t, failures, 1)
}

func TestEvaluateBridgeCount(t *testing.T) {
	r := tracedResult()

	failures := EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeCount, Call: "scroll_into_view #grid", Count: 1},
		{Type: AssertBridgeCount, Call: "scroll_into_view #missing", Count: 0},
	})
	assert.Empty(t, failures)

	failures = EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeCount, Call: "scroll_into_view #grid", Count: 2},
	})
	assert.Len(t, failures, 1)
	assert.Contains(t, failures[0], "appeared 1 times, expected 2")
}

func TestEvaluateBridgeOrder(t *testing.T) {
	r := tracedResult()

	failures := EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeOrder, Calls: []string{
			"ensure_open panel",
			"close_affordance panel",
			"clear_highlight",
		}},
	})
	assert.Empty(t, failures, "order check is a subsequence match")

	failures = EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeOrder, Calls: []string{
			"clear_highlight",
			"ensure_open panel",
		}},
	})
	assert.Len(t, failures, 1)
}

func TestEvaluateFinalState(t *testing.T) {
	r := tracedResult()
	active := false
	avail := true

	failures := EvaluateAssertions(r, []Assertion{
		{Type: AssertFinalState, Expect: &ExpectClause{Active: &active, Available: &avail}},
	})
	assert.Empty(t, failures)

	wrong := true
	failures = EvaluateAssertions(r, []Assertion{
		{Type: AssertFinalState, Expect: &ExpectClause{Active: &wrong}},
	})
	assert.Len(t, failures, 1)
}

func TestEvaluateCollectsAllFailures(t *testing.T) {
	r := tracedResult()

	failures := EvaluateAssertions(r, []Assertion{
		{Type: AssertBridgeContains, Call: "nope"},
		{Type: AssertBridgeCount, Call: "clear_highlight", Count: 5},
	})
	assert.Len(t, failures, 2)
}
