// Package cli implements the simpleorm command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/simpleorm/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "simpleorm",
	Short: "Generate entity implementations from Go interfaces",
	Long: `simpleorm scans Go packages for interfaces marked with //simpleorm:entity
and generates their implementations, fluent builders, field constants and
database factories.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Invalid declarations (schema or synthesis error)
  12 - Generated files could not be written`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return err
		}
		return logger.Init(debug)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (or set $"+logger.EnvDebug+")")
}
