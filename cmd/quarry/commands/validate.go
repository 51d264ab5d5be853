package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/config"
	"github.com/quarrybuild/quarry/pkg/diag"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate quarry configuration",
		Long: `Validate the configuration file and its check project.

This command checks:
  - config file evaluation (plain or typed dialect)
  - schema conformance of the merged configuration
  - the check-project file, its extends chain and file set`,
		Example: `  # Validate the config file next to the working directory
  quarry validate quarry.config.star

  # Validate a typed-dialect config
  quarry validate quarry.config.cue`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			init := loadInit()
			if len(args) > 0 {
				init.Path = args[0]
			}

			result := config.Load(cmd.Context(), init)

			failed := false
			for _, d := range result.Diagnostics {
				if d.Severity == diag.SeverityError {
					failed = true
				}
				if d.File != "" {
					fmt.Printf("%s: %s (%s)\n", d.Severity, d.Message, d.File)
				} else {
					fmt.Printf("%s: %s\n", d.Severity, d.Message)
				}
			}

			if failed {
				return fmt.Errorf("configuration is invalid")
			}
			fmt.Println("configuration is valid")
			return nil
		},
	}

	return cmd
}
