package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/compiler"
	"github.com/hb-platform/guidesync/internal/tour"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Tours       int      `json:"tours"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <tours-dir>",
		Short: "Validate a tour catalog",
		Long: `Validate the CUE tour catalog in the given directory.

Checks syntax, required fields, unique tour and step ids, placements, and
non-empty targets. Reports every error found rather than stopping at the
first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, toursDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := compiler.LoadCatalogDir(toursDir, compiler.LoadModeCollectAll, nil)

	// Load-level failures (directory not found, CUE build error) are
	// command errors; catalog validation failures come back with a result.
	if loadResult == nil || loadResult.Defs == nil {
		var loadErr *compiler.LoadError
		if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		_ = formatter.Error(compiler.ErrCodeGeneric, "loading catalog failed", nil)
		return NewExitError(ExitCommandError, "loading catalog failed")
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, toursDir)

	if len(loadErrors) > 0 {
		msgs := make([]string, len(loadErrors))
		for i, err := range loadErrors {
			msgs[i] = err.Error()
		}
		return outputValidationErrors(formatter, len(loadResult.Defs), msgs)
	}

	fingerprint, err := tour.Fingerprint(loadResult.Defs)
	if err != nil {
		return WrapExitError(ExitCommandError, "computing catalog fingerprint", err)
	}
	return outputValidateSuccess(formatter, len(loadResult.Defs), fingerprint)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, tours int, fingerprint string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Tours: tours, Fingerprint: fingerprint})
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid (%d tour(s), fingerprint %s)\n", tours, fingerprint)
	return nil
}

// outputValidationErrors outputs validation errors and fails the command.
func outputValidationErrors(formatter *OutputFormatter, tours int, msgs []string) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Tours: tours, Errors: msgs},
			Error: &CLIError{
				Code:    compiler.ErrCodeValidation,
				Message: msgs[0],
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(msgs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, msg := range msgs {
		fmt.Fprintf(formatter.Writer, "  %s\n", msg)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(msgs)))
}
