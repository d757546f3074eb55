package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/harness"
)

// WalkResult is the walk command payload.
type WalkResult struct {
	Scenario string               `json:"scenario"`
	Pass     bool                 `json:"pass"`
	Trace    []harness.TraceEvent `json:"trace"`
	Errors   []string             `json:"errors,omitempty"`
}

// NewWalkCommand creates the walk command.
func NewWalkCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk <scenario.yaml>",
		Short: "Run a walkthrough scenario",
		Long: `Execute a YAML walkthrough scenario against a fresh engine and print
its trace. Expect clauses and assertions in the scenario decide pass/fail.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runWalk(opts *RootOptions, scenarioPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading scenario", err)
	}

	formatter.VerboseLog("Running scenario %q (%d op(s))", scenario.Name, len(scenario.Ops))

	result, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "running scenario", err)
	}

	payload := WalkResult{
		Scenario: scenario.Name,
		Pass:     result.Pass,
		Trace:    result.Trace,
		Errors:   result.Errors,
	}

	if formatter.Format == "json" {
		if err := formatter.SuccessJSONIndent(payload); err != nil {
			return err
		}
	} else {
		printWalkText(formatter, payload)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %q failed with %d error(s)", scenario.Name, len(result.Errors)))
	}
	return nil
}

func printWalkText(formatter *OutputFormatter, result WalkResult) {
	for _, event := range result.Trace {
		line := fmt.Sprintf("%2d  %-12s", event.Seq, event.Op)
		if event.Tour != "" {
			line += " " + event.Tour
		}
		line += fmt.Sprintf("  -> active=%v step=%d", event.State.Active, event.State.StepIndex)
		fmt.Fprintln(formatter.Writer, line)
		for _, call := range event.Bridge {
			fmt.Fprintf(formatter.Writer, "      %s\n", harness.FormatCall(call))
		}
	}
	fmt.Fprintln(formatter.Writer)

	if result.Pass {
		fmt.Fprintf(formatter.Writer, "✓ %s passed\n", result.Scenario)
		return
	}
	fmt.Fprintf(formatter.Writer, "✗ %s failed\n", result.Scenario)
	for _, msg := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", msg)
	}
}
