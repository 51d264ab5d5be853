package commands

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/config"
)

func newShowCommand() *cobra.Command {
	var showProject bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Print the merged configuration",
		Long: `Load configuration and print the merged, validated result as JSON.

Runtime handles (system abstraction, logger) are omitted from the output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			init := loadInit()
			if len(args) > 0 {
				init.Path = args[0]
			}

			result := config.Load(cmd.Context(), init)
			if result.Config == nil {
				for _, d := range result.Diagnostics {
					fmt.Printf("%s: %s\n", d.Severity, d.Message)
				}
				return fmt.Errorf("configuration could not be loaded")
			}

			printable := maps.Clone(result.Config)
			delete(printable, "sys")
			delete(printable, "logger")

			out, err := json.MarshalIndent(printable, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if showProject {
				proj, err := json.MarshalIndent(result.Project, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(proj))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showProject, "project", false, "also print the project summary")

	return cmd
}
