package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarrybuild/quarry/pkg/config"
)

var (
	// Global flags
	configPath string
	verbose    bool
	debug      bool
	logLevel   string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry - build tool configuration front end",
		Long: `Quarry loads, merges and validates build configuration.

Configuration comes from an inline object, a plain-dialect script
(quarry.config.star) or a typed-dialect source (quarry.config.cue),
plus an optional check-project file (quarry.project.json).`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newShowCommand())

	return rootCmd
}

// flagConfig translates the CLI flags into the inline config the loader
// consumes; flag-driven levels live under the reserved "flags" key.
func flagConfig() config.Config {
	return config.Config{
		"flags": map[string]any{
			"debug":    debug,
			"verbose":  verbose,
			"logLevel": logLevel,
		},
	}
}

func loadInit() config.LoadInit {
	return config.LoadInit{
		Path:   configPath,
		Config: flagConfig(),
	}
}
