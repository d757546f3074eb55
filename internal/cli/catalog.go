package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hb-platform/guidesync/internal/compiler"
	"github.com/hb-platform/guidesync/internal/tour"
)

// CatalogEntry is one tour row in the catalog listing.
type CatalogEntry struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Page  string   `json:"page,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Steps int      `json:"steps"`
}

// CatalogResult is the catalog command payload.
type CatalogResult struct {
	Fingerprint string         `json:"fingerprint"`
	Tours       []CatalogEntry `json:"tours"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "catalog <tours-dir>",
		Short: "List the tours in a catalog",
		Long: `Load a CUE tour catalog and list its tours with the catalog fingerprint.

With --role, only tours visible to that role are listed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, args[0], role, cmd)
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "filter tours to those visible to this role")
	return cmd
}

func runCatalog(opts *RootOptions, toursDir, role string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := compiler.LoadCatalogDir(toursDir, compiler.LoadModeFailFast, nil)
	if len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}
		return WrapExitError(ExitCommandError, "loading catalog", loadErrors[0])
	}

	reg, err := tour.NewRegistry(loadResult.Defs)
	if err != nil {
		return WrapExitError(ExitCommandError, "building registry", err)
	}

	defs := reg.All()
	if cmd.Flags().Changed("role") {
		defs = reg.ForRole(role)
	}

	fingerprint, err := tour.Fingerprint(loadResult.Defs)
	if err != nil {
		return WrapExitError(ExitCommandError, "computing catalog fingerprint", err)
	}

	entries := make([]CatalogEntry, len(defs))
	for i, def := range defs {
		entries[i] = CatalogEntry{
			ID:    def.ID,
			Name:  def.Name,
			Page:  def.Page,
			Roles: def.UserRoles,
			Steps: len(def.Steps),
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(CatalogResult{Fingerprint: fingerprint, Tours: entries})
	}

	fmt.Fprintf(formatter.Writer, "Catalog %s (%d tour(s))\n\n", fingerprint, len(entries))
	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPAGE\tSTEPS\tROLES")
	for _, e := range entries {
		roles := "everyone"
		if len(e.Roles) > 0 {
			roles = fmt.Sprintf("%v", e.Roles)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Name, e.Page, e.Steps, roles)
	}
	return w.Flush()
}
