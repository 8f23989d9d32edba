package cli

import (
	"github.com/spf13/cobra"

	treecrdtsqlite "github.com/roach88/treecrdt-sqlite"
	"github.com/roach88/treecrdt-sqlite/internal/hostcheck"
)

// NewCheckCommand probes a session for the treecrdt capability surface.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Open a session and verify the installed capabilities",
		Long: "Opens one session through the auto-registered driver and probes every\n" +
			"read-only treecrdt function. Exit code 1 means at least one capability\n" +
			"is missing, which usually means the bridge never registered.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := treecrdtsqlite.Open(opts.DB)
			if err != nil {
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer db.Close()

			report := hostcheck.Run(cmd.Context(), db, treecrdtsqlite.DriverName)
			if err := renderReport(cmd.OutOrStdout(), opts.Format, report); err != nil {
				return err
			}
			if !report.OK() {
				return NewExitError(ExitFailure, "capability check failed")
			}
			return nil
		},
	}
}
