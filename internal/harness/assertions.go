package harness

import (
	"fmt"

	"github.com/hb-platform/guidesync/internal/bridge"
)

// Assertion validates the trace or final state after all ops have run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "bridge_contains": Check a bridge call appears in the trace
	// - "bridge_order": Check bridge calls appear in order
	// - "bridge_count": Check a bridge call appears exactly N times
	// - "final_state": Verify final engine state fields
	Type string `yaml:"type"`

	// Call is a bridge call as "op" or "op arg" (used by bridge_contains
	// and bridge_count), e.g. "ensure_open budget-panel".
	Call string `yaml:"call,omitempty"`

	// Calls is the expected call order (used by bridge_order). Matching is
	// a subsequence check: other calls may occur in between.
	Calls []string `yaml:"calls,omitempty"`

	// Count is the expected number of occurrences (used by bridge_count).
	Count int `yaml:"count,omitempty"`

	// Expect contains expected final state fields (used by final_state).
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertBridgeContains = "bridge_contains"
	AssertBridgeOrder    = "bridge_order"
	AssertBridgeCount    = "bridge_count"
	AssertFinalState     = "final_state"
)

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertBridgeContains:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for bridge_contains", index)
		}
	case AssertBridgeOrder:
		if len(a.Calls) == 0 {
			return fmt.Errorf("assertions[%d]: calls list is required for bridge_order", index)
		}
	case AssertBridgeCount:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for bridge_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for bridge_count", index)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// EvaluateAssertions checks every assertion against the result, returning
// one message per failure. Does not fail-fast.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	calls := result.BridgeCalls()

	for i, a := range assertions {
		switch a.Type {
		case AssertBridgeContains:
			if countCalls(calls, a.Call) == 0 {
				failures = append(failures, fmt.Sprintf("assertions[%d]: bridge call %q not found in trace", i, a.Call))
			}
		case AssertBridgeCount:
			if got := countCalls(calls, a.Call); got != a.Count {
				failures = append(failures, fmt.Sprintf("assertions[%d]: bridge call %q appeared %d times, expected %d", i, a.Call, got, a.Count))
			}
		case AssertBridgeOrder:
			if !callsInOrder(calls, a.Calls) {
				failures = append(failures, fmt.Sprintf("assertions[%d]: bridge calls %v did not appear in order", i, a.Calls))
			}
		case AssertFinalState:
			failures = append(failures, checkFinalState(i, a.Expect, result)...)
		}
	}
	return failures
}

// FormatCall renders a bridge call the way assertions reference it.
func FormatCall(c bridge.Call) string {
	if c.Arg == "" {
		return c.Op
	}
	return c.Op + " " + c.Arg
}

func countCalls(calls []bridge.Call, want string) int {
	n := 0
	for _, c := range calls {
		if FormatCall(c) == want {
			n++
		}
	}
	return n
}

// callsInOrder reports whether want appears as a subsequence of calls.
func callsInOrder(calls []bridge.Call, want []string) bool {
	next := 0
	for _, c := range calls {
		if next == len(want) {
			break
		}
		if FormatCall(c) == want[next] {
			next++
		}
	}
	return next == len(want)
}

func checkFinalState(i int, exp *ExpectClause, result *Result) []string {
	var failures []string
	if exp.Active != nil && result.Final.Active != *exp.Active {
		failures = append(failures, fmt.Sprintf("assertions[%d]: final active=%v, expected %v", i, result.Final.Active, *exp.Active))
	}
	if exp.Tour != "" && result.Final.TourID != exp.Tour {
		failures = append(failures, fmt.Sprintf("assertions[%d]: final tour=%q, expected %q", i, result.Final.TourID, exp.Tour))
	}
	if exp.Step != nil && result.Final.StepIndex != *exp.Step {
		failures = append(failures, fmt.Sprintf("assertions[%d]: final step=%d, expected %d", i, result.Final.StepIndex, *exp.Step))
	}
	if exp.Available != nil && result.Available != *exp.Available {
		failures = append(failures, fmt.Sprintf("assertions[%d]: final available=%v, expected %v", i, result.Available, *exp.Available))
	}
	return failures
}
