// Package compiler wires the declaration scanner, the schema analyzer and
// the code generator together.
//
//	cfg, err := gen.NewConfig(
//		gen.WithTarget("./orm"),
//		gen.WithPackage("example.com/app/orm"),
//	)
//	if err != nil {
//		return err
//	}
//	err = compiler.Generate(ctx, []string{"./model"}, cfg)
package compiler

import (
	"context"
	"fmt"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/compiler/gen/sql"
	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/internal/logger"
)

// LoadOption configures the declaration scanner.
type LoadOption func(*load.Config)

// Dir sets the directory package patterns are resolved against.
func Dir(dir string) LoadOption {
	return func(c *load.Config) { c.Dir = dir }
}

// BuildFlags forwards flags to the build system when loading packages.
func BuildFlags(flags ...string) LoadOption {
	return func(c *load.Config) { c.BuildFlags = append(c.BuildFlags, flags...) }
}

// LoadGraph scans the packages matching the patterns and analyzes their
// declarations. Analysis stops at the first structural error.
func LoadGraph(patterns []string, cfg *gen.Config, opts ...LoadOption) (*gen.Graph, error) {
	lc := &load.Config{Patterns: patterns}
	for _, opt := range opts {
		opt(lc)
	}
	decls, err := lc.Load()
	if err != nil {
		return nil, fmt.Errorf("simpleorm/compiler: %w", err)
	}
	return gen.NewGraph(cfg, decls)
}

// Generate loads the graph of the given patterns and emits its units into
// the configured target directory.
func Generate(ctx context.Context, patterns []string, cfg *gen.Config, opts ...LoadOption) error {
	if cfg.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory")
	}
	return GenerateTo(ctx, patterns, cfg, gen.NewFileSink(cfg.Target), opts...)
}

// GenerateTo is like Generate, but emits into the given sink. Nothing is
// emitted when any unit fails to synthesize.
func GenerateTo(ctx context.Context, patterns []string, cfg *gen.Config, sink gen.Sink, opts ...LoadOption) error {
	g, err := LoadGraph(patterns, cfg, opts...)
	if err != nil {
		return err
	}
	if err := sql.GenerateTo(ctx, g, sink); err != nil {
		return err
	}
	logger.Infow("generation finished", "entities", len(g.Nodes), "collections", len(g.Collections), "target", cfg.Target)
	return nil
}
