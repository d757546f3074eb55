package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioValid(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/executive-overview-walk.yaml")
	require.NoError(t, err)

	assert.Equal(t, "executive-overview-walk", scenario.Name)
	assert.Equal(t, filepath.Join("testdata", "catalog"), scenario.Catalog,
		"relative catalog resolves against the scenario file")
	assert.Len(t, scenario.Ops, 5)
	assert.Len(t, scenario.Assertions, 3)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadScenarioUnknownField(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: has a misspelled key
catalog: .
opz:
  - op: stop
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioMissingOps(t *testing.T) {
	path := writeScenarioFile(t, `
name: empty
description: no ops at all
catalog: .
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ops list is required")
}

func TestLoadScenarioUnknownOp(t *testing.T) {
	path := writeScenarioFile(t, `
name: bad-op
description: op name the harness does not know
catalog: .
ops:
  - op: restart
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "restart"`)
}

func TestLoadScenarioStartRequiresTour(t *testing.T) {
	path := writeScenarioFile(t, `
name: no-tour
description: start without a tour id
catalog: .
ops:
  - op: start
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tour is required")
}

func TestLoadScenarioBadAssertion(t *testing.T) {
	path := writeScenarioFile(t, `
name: bad-assertion
description: assertion without a call
catalog: .
ops:
  - op: stop
assertions:
  - type: bridge_contains
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call is required")
}

func TestLoadScenarioMissingCatalogDir(t *testing.T) {
	path := writeScenarioFile(t, `
name: no-catalog
description: catalog path that does not exist
catalog: ./no-such-dir
ops:
  - op: stop
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog directory not found")
}
