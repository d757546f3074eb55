package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		projectID    string
		commitmentID string
		rowID        string
	)

	cmd := &cobra.Command{
		Use:   "fetch <resource>",
		Short: "Fetch a resource through the caching client",
		Long: `Read a resource through the sync client and print it as JSON. Repeat
fetches within a process serve from cache; a sync against the resource
invalidates the cached copy.

Resources: projects, commitments, buyout, budget-details, budget-row,
budget-line-items.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(rootOpts, args[0], projectID, commitmentID, rowID, cmd)
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "project ID for project-scoped resources")
	cmd.Flags().StringVar(&commitmentID, "commitment", "", "commitment ID for buyout reads")
	cmd.Flags().StringVar(&rowID, "row", "", "budget row ID for budget-row reads")
	return cmd
}

func runFetch(opts *RootOptions, resource, projectID, commitmentID, rowID string, cmd *cobra.Command) error {
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

	ctx := cmd.Context()

	requireProject := func() error {
		if projectID == "" {
			return NewExitError(ExitCommandError, fmt.Sprintf("resource %q requires --project", resource))
		}
		return nil
	}

	var payload any
	switch resource {
	case "projects":
		payload, err = client.Projects(ctx)
	case "commitments":
		if err = requireProject(); err != nil {
			return err
		}
		payload, err = client.Commitments(ctx, projectID)
	case "buyout":
		if err = requireProject(); err != nil {
			return err
		}
		if commitmentID == "" {
			return NewExitError(ExitCommandError, `resource "buyout" requires --commitment`)
		}
		payload, err = client.BuyoutData(ctx, projectID, commitmentID)
	case "budget-details":
		if err = requireProject(); err != nil {
			return err
		}
		payload, err = client.BudgetDetailsByProject(ctx, projectID)
	case "budget-row":
		if rowID == "" {
			return NewExitError(ExitCommandError, `resource "budget-row" requires --row`)
		}
		payload, err = client.BudgetDetailByRow(ctx, rowID)
	case "budget-line-items":
		if err = requireProject(); err != nil {
			return err
		}
		payload, err = client.BudgetLineItems(ctx, projectID)
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown fetch resource %q", resource))
	}
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("fetching %s", resource), err)
	}

	formatter.VerboseLog("cache entries after fetch: %d", client.CachedEntries())
	return formatter.SuccessJSONIndent(payload)
}
