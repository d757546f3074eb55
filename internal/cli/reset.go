package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/engine"
	"github.com/hb-platform/guidesync/internal/store"
	"github.com/hb-platform/guidesync/internal/tour"
)

// ResetResult is the machine-readable payload for the reset command.
type ResetResult struct {
	StateDB string `json:"state_db"`
	Reset   bool   `json:"reset"`
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear persisted tour preferences",
		Long: `Remove every persisted tour preference from the state database:
seen-tour markers, per-tour availability, and session suppression marks.
Tours become eligible to auto-start again afterwards.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, cmd)
		},
	}

	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	st, err := store.Open(cfg.StateDB)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening state database", err)
	}
	defer st.Close()

	reg, err := tour.NewRegistry(nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "building registry", err)
	}

	eng := engine.New(cmd.Context(), reg, st, store.NewSessionStore(),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err := eng.ResetAll(cmd.Context()); err != nil {
		return WrapExitError(ExitFailure, "resetting tour state", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ResetResult{StateDB: cfg.StateDB, Reset: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ Tour state reset (%s)\n", cfg.StateDB)
	return nil
}
