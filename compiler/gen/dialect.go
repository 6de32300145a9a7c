package gen

import "github.com/dave/jennifer/jen"

// EntityGenerator generates per-entity code.
// Each method is called once per entity schema.
type EntityGenerator interface {
	// GenEntity generates the implementation ({entity}.go)
	GenEntity(s *EntitySchema) *jen.File
	// GenBuilder generates the fluent builder ({entity}_builder.go)
	GenBuilder(s *EntitySchema) *jen.File
}

// GraphGenerator generates graph-level code.
// Each method is called once per generation run, or once per collection.
type GraphGenerator interface {
	// GenFieldConstants generates the column name constants (simpleorm_fields.go)
	GenFieldConstants() (*jen.File, error)
	// GenFactory generates the factory of a collection ({collection}_database.go)
	GenFactory(c *CollectionSchema) (*jen.File, error)
}

// MigrateGenerator renders the DDL of a collection.
// This is optional - dialects that support it render migrate/{collection}.sql
// when the migrate feature is enabled.
type MigrateGenerator interface {
	// GenMigrate returns the statements creating the tables of c.
	GenMigrate(c *CollectionSchema) ([]byte, error)
}

// MinimalDialect requires only entity and graph generation.
// This is the minimum interface a dialect must implement.
type MinimalDialect interface {
	// Name returns the dialect name (e.g., "sql")
	Name() string
	EntityGenerator
	GraphGenerator
}

// DialectGenerator defines the full interface of a dialect.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Generator                            │
//	│  (Orchestration: parallel synthesis, buffered emission)     │
//	└─────────────────────────┬───────────────────────────────────┘
//	                          │ uses
//	                          ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                   DialectGenerator                          │
//	│  (Interface: defines what each dialect must implement)      │
//	└─────────────────────────────────────────────────────────────┘
//
// Methods return *jen.File containing the generated code. The generator
// collects every unit before any of them is handed to the sink.
type DialectGenerator interface {
	MinimalDialect
	MigrateGenerator
}

// GeneratorHelper provides helper methods for dialect implementations.
// Generator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile() *jen.File

	// GoType returns the Jennifer code for a column's Go type.
	GoType(c *Column) jen.Code

	// ElemType returns the Jennifer code for the element type of a column.
	ElemType(c *Column) jen.Code

	// EntityType returns the Jennifer code for the entity interface.
	EntityType(s *EntitySchema) jen.Code

	// RuntimePkg returns the import path for the simpleorm runtime package.
	RuntimePkg() string

	// FieldPkg returns the import path for the schema field package.
	FieldPkg() string

	// SchemaPkg returns the import path for the schema package.
	SchemaPkg() string

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string

	// FeatureEnabled reports if the given feature name is enabled.
	FeatureEnabled(name string) bool
}
