package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a walkthrough test scenario.
// Scenarios drive the tour engine through an ordered list of operations and
// assert on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalog directory.
	// Relative paths resolve against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Role selects which tours are visible. Empty sees everything that has
	// no role restriction.
	Role string `yaml:"role,omitempty"`

	// Available pre-seeds the tour availability preference. Nil leaves the
	// default (true).
	Available *bool `yaml:"available,omitempty"`

	// SeenTours pre-seeds session markers, suppressing auto-start for the
	// listed tour ids.
	SeenTours []string `yaml:"seen_tours,omitempty"`

	// Ops contains the engine operations to execute in order.
	Ops []OpStep `yaml:"ops"`

	// Assertions validate the final trace and state.
	// Supported types: bridge_contains, bridge_order, bridge_count, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// OpStep represents a single engine operation.
// Each step can specify the expected engine state after the operation.
type OpStep struct {
	// Op is the operation name: start, auto_start, next, prev, skip, goto,
	// stop, toggle, reset, fire_cleanup.
	Op string `yaml:"op"`

	// Tour is the tour id (required for start and auto_start).
	Tour string `yaml:"tour,omitempty"`

	// Index is the target step index (required for goto).
	Index int `yaml:"index,omitempty"`

	// Expect specifies the expected engine state after the operation.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected engine state. Only set fields are checked.
type ExpectClause struct {
	Active    *bool  `yaml:"active,omitempty"`
	Tour      string `yaml:"tour,omitempty"`
	Step      *int   `yaml:"step,omitempty"`
	Available *bool  `yaml:"available,omitempty"`
}

// Operation name constants.
const (
	OpStart       = "start"
	OpAutoStart   = "auto_start"
	OpNext        = "next"
	OpPrev        = "prev"
	OpSkip        = "skip"
	OpGoTo        = "goto"
	OpStop        = "stop"
	OpToggle      = "toggle"
	OpReset       = "reset"
	OpFireCleanup = "fire_cleanup"
)

var knownOps = map[string]bool{
	OpStart:       true,
	OpAutoStart:   true,
	OpNext:        true,
	OpPrev:        true,
	OpSkip:        true,
	OpGoTo:        true,
	OpStop:        true,
	OpToggle:      true,
	OpReset:       true,
	OpFireCleanup: true,
}

// LoadScenario reads and parses a scenario YAML file. Relative catalog paths
// are resolved against the scenario file's directory. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog directory not found: %s", s.Catalog)
	}
	if len(s.Ops) == 0 {
		return fmt.Errorf("ops list is required and must be non-empty")
	}

	for i, op := range s.Ops {
		if op.Op == "" {
			return fmt.Errorf("ops[%d]: op is required", i)
		}
		if !knownOps[op.Op] {
			return fmt.Errorf("ops[%d]: unknown op %q", i, op.Op)
		}
		if (op.Op == OpStart || op.Op == OpAutoStart) && op.Tour == "" {
			return fmt.Errorf("ops[%d]: tour is required for %s", i, op.Op)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}
