package cli

import (
	"github.com/spf13/cobra"

	"github.com/syssam/simpleorm/compiler"
	"github.com/syssam/simpleorm/compiler/gen"
)

var describeCmd = &cobra.Command{
	Use:   "describe [patterns...]",
	Short: "Print the analyzed schema of the given packages",
	Long: `Describe analyzes the entities of the packages matching the patterns and
prints their schema as YAML, without generating any code.

Example:
  simpleorm describe ./model --package example.com/app/orm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addConfigFlags(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	g, err := compiler.LoadGraph(args, cfg, compiler.BuildFlags(generateFlags.buildFlags...))
	if err != nil {
		return err
	}
	out, err := gen.Snapshot(g)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
