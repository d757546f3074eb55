package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenariosGolden runs every scenario under testdata/scenarios and
// compares its trace against the golden file of the same name.
func TestScenariosGolden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed: %v", result.Errors)
		})
	}
}

func TestRunReportsExpectMismatch(t *testing.T) {
	active := true
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expect clause that cannot hold",
		Catalog:     "testdata/catalog",
		Ops: []OpStep{
			{Op: OpStart, Tour: "executive-overview"},
			{Op: OpStop, Expect: &ExpectClause{Active: &active}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected active=true")
}

func TestRunUnknownTourIsNoOp(t *testing.T) {
	scenario := &Scenario{
		Name:        "unknown-tour",
		Description: "starting a tour the catalog does not define",
		Catalog:     "testdata/catalog",
		Ops: []OpStep{
			{Op: OpStart, Tour: "does-not-exist"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.False(t, result.Final.Active)
	assert.Empty(t, result.Trace[0].Bridge)
}

func TestRunSeedsAvailability(t *testing.T) {
	off := false
	scenario := &Scenario{
		Name:        "disabled",
		Description: "auto-start is suppressed while tours are disabled",
		Catalog:     "testdata/catalog",
		Available:   &off,
		Ops: []OpStep{
			{Op: OpAutoStart, Tour: "executive-overview"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Final.Active)
	assert.False(t, result.Available)
}

func TestRunMissingCatalog(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad-catalog",
		Description: "catalog directory does not exist",
		Catalog:     "testdata/no-such-dir",
		Ops:         []OpStep{{Op: OpStop}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog")
}

func TestEffectsForCatalogConventions(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/executive-overview-walk.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	// open- and close- prefixed effects act on the affordance named by the
	// suffix, which is what the cleanup pairing relies on.
	calls := result.BridgeCalls()
	var opened, closed bool
	for _, c := range calls {
		if c.Op == "ensure_open" && c.Arg == "filter-panel" {
			opened = true
		}
		if c.Op == "close_affordance" && c.Arg == "filter-panel" {
			closed = true
		}
	}
	assert.True(t, opened)
	assert.True(t, closed)
}
