// Package sql provides SQL dialect code generation for the Jennifer generator.
//
// This package implements the gen.DialectGenerator interface. The generated
// implementations are storage agnostic. The dialect only matters for the
// DDL rendered by the migrate feature, which supports SQLite, MySQL and
// PostgreSQL.
//
// Usage:
//
//	import (
//	    "github.com/syssam/simpleorm/compiler/gen"
//	    "github.com/syssam/simpleorm/compiler/gen/sql"
//	)
//
//	generator := gen.NewGenerator(graph)
//	generator.WithDialect(sql.NewDialect(generator))
//	generator.Generate(ctx, gen.NewFileSink(target))
//
// Generated code structure:
//
//	{output}/
//	├── {entity}.go              # Implementation, Equal, Hash, table descriptor
//	├── {entity}_builder.go      # Fluent builder and identifier sequence
//	├── simpleorm_fields.go      # Table and column name constants
//	├── {database}_database.go   # Database descriptor and factory
//	├── migrate/
//	│   └── {database}.sql       # CREATE TABLE statements (sql/migrate)
//	└── internal/
//	    └── schema.yaml          # Schema snapshot (schema/snapshot)
package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/simpleorm/compiler/gen"
)

// Generate is a convenience function to generate SQL-dialect code into the
// target directory of the graph configuration.
//
// Example:
//
//	import "github.com/syssam/simpleorm/compiler/gen/sql"
//	err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) error {
	if g.Config == nil || g.Config.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	return GenerateTo(ctx, g, gen.NewFileSink(g.Config.Target))
}

// GenerateTo generates SQL-dialect code into the given sink.
func GenerateTo(ctx context.Context, g *gen.Graph, sink gen.Sink) error {
	generator := gen.NewGenerator(g)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate(ctx, sink)
}

// Dialect implements gen.DialectGenerator for SQL databases.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
// The helper parameter should be a *gen.Generator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sql"
}

// GenEntity generates the implementation file ({entity}.go).
// Includes: struct, constructor, accessors, Equal, Hash, table descriptor.
func (d *Dialect) GenEntity(s *gen.EntitySchema) *jen.File {
	return genEntity(d.helper, s)
}

// GenBuilder generates the fluent builder file ({entity}_builder.go).
func (d *Dialect) GenBuilder(s *gen.EntitySchema) *jen.File {
	return genBuilder(d.helper, s)
}

// GenFieldConstants generates the name constants (simpleorm_fields.go).
func (d *Dialect) GenFieldConstants() (*jen.File, error) {
	return genFieldConstants(d.helper)
}

// GenFactory generates the factory of a collection ({database}_database.go).
func (d *Dialect) GenFactory(c *gen.CollectionSchema) (*jen.File, error) {
	return genFactory(d.helper, c)
}

// GenMigrate renders the DDL of a collection in the configured dialect.
func (d *Dialect) GenMigrate(c *gen.CollectionSchema) ([]byte, error) {
	return genMigrate(d.helper, d.helper.Graph().StorageDriver(), c)
}

// Verify Dialect implements gen.DialectGenerator at compile time.
var _ gen.DialectGenerator = (*Dialect)(nil)
