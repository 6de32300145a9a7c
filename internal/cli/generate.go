package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/syssam/simpleorm/compiler"
	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/internal/logger"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvConfig  = "SIMPLEORM_CONFIG"
	EnvTarget  = "SIMPLEORM_TARGET"
	EnvPackage = "SIMPLEORM_PACKAGE"
	EnvDialect = "SIMPLEORM_DIALECT"
)

// defaultConfigFile is loaded when it exists and no file is given.
const defaultConfigFile = "simpleorm.yaml"

var generateCmd = &cobra.Command{
	Use:   "generate [patterns...]",
	Short: "Generate code for the entities of the given packages",
	Long: `Generate scans the packages matching the patterns and writes the generated
code into the target directory. Nothing is written when any declaration is
invalid.

Settings are resolved in this order: flags, environment variables (also
read from .env), then the configuration file.

Examples:
  # Generate from the model package
  simpleorm generate ./model --target ./orm --package example.com/app/orm

  # Use a configuration file and regenerate on change
  simpleorm generate ./model/... --config simpleorm.yaml --watch

  # Emit PostgreSQL DDL
  simpleorm generate ./model --dialect postgres --feature sql/migrate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

type generateFlagValues struct {
	target, pkg, config, dialect, header string
	features, buildFlags                 []string
	workers                              int
	watch                                bool
}

var generateFlags generateFlagValues

func init() {
	rootCmd.AddCommand(generateCmd)
	addConfigFlags(generateCmd)
	generateCmd.Flags().BoolVarP(&generateFlags.watch, "watch", "w", false,
		"Regenerate whenever a Go file of the scanned packages changes")
}

// addConfigFlags registers the flags shared by the commands that build a
// configuration.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&generateFlags.target, "target", "t", "",
		"Directory of the generated code (default: $"+EnvTarget+" or the config file)")
	cmd.Flags().StringVarP(&generateFlags.pkg, "package", "p", "",
		"Import path of the generated package (default: $"+EnvPackage+" or the config file)")
	cmd.Flags().StringVarP(&generateFlags.config, "config", "c", "",
		"Configuration file (default: $"+EnvConfig+" or "+defaultConfigFile+" when present)")
	cmd.Flags().StringVar(&generateFlags.dialect, "dialect", "",
		"SQL dialect of the migrate feature: sqlite|mysql|postgres (default: $"+EnvDialect+" or sqlite)")
	cmd.Flags().StringVar(&generateFlags.header, "header", "",
		"Header comment of the generated files")
	cmd.Flags().StringSliceVarP(&generateFlags.features, "feature", "f", nil,
		"Enable an optional feature (can be specified multiple times)\n"+
			"Available: sql/migrate, schema/snapshot")
	cmd.Flags().IntVar(&generateFlags.workers, "workers", 0,
		"Number of units synthesized in parallel (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&generateFlags.buildFlags, "build-flag", nil,
		"Flag forwarded to the build system when loading packages, e.g. -tags=dev")
}

func resetGenerateFlags() {
	generateFlags = generateFlagValues{}
}

// buildConfig merges the configuration file, the environment and the
// flags into a generator configuration.
func buildConfig(cmd *cobra.Command) (*gen.Config, error) {
	_ = godotenv.Load()

	var opts []gen.Option
	name, required := firstNonEmpty(generateFlags.config, os.Getenv(EnvConfig)), true
	if name == "" {
		name, required = defaultConfigFile, false
	}
	fc, err := gen.LoadConfigFile(name)
	switch {
	case err == nil:
		fileOpts, err := fc.Options()
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
		logger.Debugw("configuration file loaded", "file", name)
	case required || !errors.Is(statErr(name), fs.ErrNotExist):
		return nil, err
	}

	if v := firstNonEmpty(generateFlags.target, os.Getenv(EnvTarget)); v != "" {
		opts = append(opts, gen.WithTarget(v))
	}
	if v := firstNonEmpty(generateFlags.pkg, os.Getenv(EnvPackage)); v != "" {
		opts = append(opts, gen.WithPackage(v))
	}
	if v := firstNonEmpty(generateFlags.dialect, os.Getenv(EnvDialect)); v != "" {
		opts = append(opts, gen.WithDialect(v))
	}
	if generateFlags.header != "" {
		opts = append(opts, gen.WithHeader(generateFlags.header))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, gen.WithWorkers(generateFlags.workers))
	}
	if len(generateFlags.features) > 0 {
		features, err := gen.FeaturesByName(generateFlags.features...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithFeatures(features...))
	}
	return gen.NewConfig(opts...)
}

func statErr(name string) error {
	_, err := os.Stat(name)
	return err
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory; use --target or $"+EnvTarget)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := func(ctx context.Context) error {
		return compiler.Generate(ctx, args, cfg, compiler.BuildFlags(generateFlags.buildFlags...))
	}
	if !generateFlags.watch {
		return run(ctx)
	}
	if err := run(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "simpleorm: %v\n", err)
	}
	dirs, err := watchDirs(args, cfg.Target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d directories for changes. Press Ctrl+C to stop.\n", len(dirs))
	return watch(ctx, dirs, func(ctx context.Context) {
		if err := run(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "simpleorm: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Regenerated", cfg.Target)
	})
}
