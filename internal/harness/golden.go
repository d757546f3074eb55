package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/hb-platform/guidesync/internal/tour"
)

// TraceSnapshot captures the complete trace of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization. Required because tour.MarshalCanonical only handles
// maps, slices, and primitives.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"op":  event.Op,
			"seq": event.Seq,
			"state": map[string]any{
				"active":     event.State.Active,
				"tour_id":    event.State.TourID,
				"step_index": event.State.StepIndex,
			},
		}
		if event.Tour != "" {
			eventMap["tour"] = event.Tour
		}
		if event.Index != 0 {
			eventMap["index"] = event.Index
		}
		if len(event.Bridge) > 0 {
			bridgeList := make([]any, len(event.Bridge))
			for j, call := range event.Bridge {
				callMap := map[string]any{"op": call.Op}
				if call.Arg != "" {
					callMap["arg"] = call.Arg
				}
				bridgeList[j] = callMap
			}
			eventMap["bridge"] = bridgeList
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails; trace mismatches fail the
// test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares a result's trace against a golden file. Useful when
// a scenario has already run and only the comparison is needed.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
	}

	traceJSON, err := tour.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
