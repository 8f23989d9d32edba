package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	treecrdtsqlite "github.com/roach88/treecrdt-sqlite"
	"github.com/roach88/treecrdt-sqlite/internal/hostcheck"
)

// Expectations is the YAML shape for the expect command:
//
//	capabilities:
//	  - treecrdt_version
//	  - treecrdt_site_id
type Expectations struct {
	Capabilities []string `yaml:"capabilities"`
}

// LoadExpectations reads and validates an expectation file.
func LoadExpectations(path string) (*Expectations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read expectations: %w", err)
	}
	var exp Expectations
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("parse expectations: %w", err)
	}
	if len(exp.Capabilities) == 0 {
		return nil, fmt.Errorf("expectations file %s lists no capabilities", path)
	}
	return &exp, nil
}

// NewExpectCommand compares installed capabilities against a YAML file.
func NewExpectCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expect FILE",
		Short: "Verify a session against an expectation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := LoadExpectations(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load expectations", err)
			}

			db, err := treecrdtsqlite.Open(opts.DB)
			if err != nil {
				return WrapExitError(ExitCommandError, "open database", err)
			}
			defer db.Close()

			report := hostcheck.Run(cmd.Context(), db, treecrdtsqlite.DriverName)
			installed := map[string]bool{}
			for _, c := range report.Capabilities {
				installed[c.Name] = c.OK
			}

			// Capabilities beyond the expected set are fine; missing or
			// failing expected ones are not.
			var missing []string
			for _, name := range exp.Capabilities {
				if !installed[name] {
					missing = append(missing, name)
				}
			}

			out := cmd.OutOrStdout()
			if len(missing) > 0 {
				for _, name := range missing {
					fmt.Fprintf(out, "missing: %s\n", name)
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d expected capabilities missing", len(missing)))
			}
			fmt.Fprintf(out, "all %d expected capabilities installed\n", len(exp.Capabilities))
			return nil
		},
	}
}
