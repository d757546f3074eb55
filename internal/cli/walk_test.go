package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWalkScenario writes a scenario file pointing at the testdata catalog.
func writeWalkScenario(t *testing.T, body string) string {
	t.Helper()
	catalog, err := filepath.Abs(filepath.Join("testdata", "catalog"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(body, catalog)), 0644))
	return path
}

func TestWalkPassingScenario(t *testing.T) {
	path := writeWalkScenario(t, `name: dashboard-walk
description: Walk the dashboard intro end to end
catalog: %s
ops:
  - op: start
    tour: dashboard-intro
    expect:
      active: true
      tour: dashboard-intro
      step: 0
  - op: next
    expect:
      step: 1
  - op: next
    expect:
      active: false
`)

	buf := &bytes.Buffer{}
	cmd := NewWalkCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ dashboard-walk passed")
}

func TestWalkFailingScenario(t *testing.T) {
	path := writeWalkScenario(t, `name: dashboard-walk-bad
description: Expect clause that cannot hold
catalog: %s
ops:
  - op: start
    tour: dashboard-intro
    expect:
      step: 5
`)

	buf := &bytes.Buffer{}
	cmd := NewWalkCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ dashboard-walk-bad failed")
}

func TestWalkMissingScenarioFile(t *testing.T) {
	cmd := NewWalkCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
