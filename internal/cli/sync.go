package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/syncer"
)

// SyncResult is the machine-readable payload for the sync command.
type SyncResult struct {
	Resource  string `json:"resource"`
	ProjectID string `json:"project_id,omitempty"`
	Synced    bool   `json:"synced"`
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "sync <resource>",
		Short: "Trigger a backend sync job and invalidate affected caches",
		Long: `Request a backend sync for the named resource (projects,
projectCommitments, or projectBudget) and invalidate the cached reads the
sync affects. Project-scoped resources take --project.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, args[0], projectID, cmd)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "project ID for project-scoped resources")
	return cmd
}

func runSync(opts *RootOptions, resource, projectID string, cmd *cobra.Command) error {
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

	client, st, err := newSyncClient(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	formatter.VerboseLog("requesting sync for %s", resource)

	if err := client.SyncResource(cmd.Context(), resource, projectID); err != nil {
		if errors.Is(err, syncer.ErrUnknownResource) {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown sync resource %q", resource))
		}
		var statusErr *syncer.StatusError
		if errors.As(err, &statusErr) {
			_ = formatter.Error("SYNC_FAILED", statusErr.Error(), nil)
			return NewExitError(ExitFailure, "sync failed")
		}
		return WrapExitError(ExitFailure, "sync failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SyncResult{
			Resource:  resource,
			ProjectID: projectID,
			Synced:    true,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Synced %s\n", resource)
	return nil
}
