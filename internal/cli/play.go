package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/bridge"
	"github.com/hb-platform/guidesync/internal/compiler"
	"github.com/hb-platform/guidesync/internal/engine"
	"github.com/hb-platform/guidesync/internal/harness"
	"github.com/hb-platform/guidesync/internal/store"
	"github.com/hb-platform/guidesync/internal/tour"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	var ops string

	cmd := &cobra.Command{
		Use:   "play <tours-dir> <tour-id>",
		Short: "Drive a tour from the terminal",
		Long: `Start the named tour and apply a comma-separated list of navigation
operations (next, prev, skip, stop, or a step index for a jump). Bridge
operations are logged to the terminal, and preferences persist in the
state database between runs.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, args[0], args[1], ops, cmd)
		},
	}

	cmd.Flags().StringVar(&ops, "ops", "", "comma-separated operations to apply after start, e.g. next,next,prev,skip")
	return cmd
}

func runPlay(opts *RootOptions, toursDir, tourID, ops string, cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	loadResult, loadErrors := compiler.LoadCatalogDir(toursDir, compiler.LoadModeFailFast, nil)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, "loading catalog", loadErrors[0])
	}

	reg, err := tour.NewRegistry(loadResult.Defs)
	if err != nil {
		return WrapExitError(ExitCommandError, "building registry", err)
	}
	if _, ok := reg.Get(tourID); !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown tour %q", tourID))
	}

	fx, err := harness.EffectsForCatalog(loadResult.Defs)
	if err != nil {
		return WrapExitError(ExitCommandError, "building effects", err)
	}

	st, err := store.Open(cfg.StateDB)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening state database", err)
	}
	defer st.Close()

	logger := slog.Default()
	eng := engine.New(cmd.Context(), reg, st, store.NewSessionStore(),
		engine.WithBridge(bridge.Console{Logger: logger}),
		engine.WithEffects(fx),
		engine.WithLogger(logger),
	)

	ctx := cmd.Context()
	state := eng.Start(ctx, tourID, false)
	printPlayState(cmd, "start", state)

	for _, op := range splitOps(ops) {
		switch op {
		case "next":
			state = eng.Next(ctx)
		case "prev":
			state = eng.Prev(ctx)
		case "skip":
			state = eng.Skip(ctx)
		case "stop":
			state = eng.Stop(ctx)
		default:
			var index int
			if _, err := fmt.Sscanf(op, "%d", &index); err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown operation %q", op))
			}
			state = eng.GoTo(ctx, index)
		}
		printPlayState(cmd, op, state)
	}

	return nil
}

func splitOps(ops string) []string {
	if strings.TrimSpace(ops) == "" {
		return nil
	}
	parts := strings.Split(ops, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printPlayState(cmd *cobra.Command, op string, state engine.State) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-6s -> active=%v tour=%s step=%d\n", op, state.Active, state.TourID, state.StepIndex)
}
