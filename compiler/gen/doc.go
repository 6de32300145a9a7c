// Package gen analyzes entity declarations and generates their
// implementations.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Entity interfaces (//simpleorm:entity)
//	        ↓
//	   load.Declarations (compiler/load)
//	        ↓
//	   Graph: accessor pairing, type resolution, sealed EntitySchemas
//	        ↓
//	   Generator + DialectGenerator (compiler/gen/sql)
//	        ↓
//	   Units, buffered until all are synthesized
//	        ↓
//	   Sink (FileSink, MemorySink)
//
// # Key Types
//
//   - Graph: owns the analysis cache of one run. Schemas are allocated in
//     an arena before their analysis starts, and entities refer to each
//     other through Handles, so reference cycles are analyzed once.
//   - EntitySchema: the sealed schema of one entity, with its table,
//     identifier column and columns in pairing order.
//   - Column: one paired property with its resolved storage type.
//   - Resolver: an ordered chain of Adapters. The first adapter claiming a
//     logical type wins. Config.Adapters are consulted ahead of the
//     built-ins.
//   - CollectionSchema: the entities grouped under a declared database.
//
// # Interface Hierarchy
//
//	MinimalDialect
//	├── Name() string
//	├── EntityGenerator
//	│   └── GenEntity, GenBuilder
//	└── GraphGenerator
//	    └── GenFieldConstants, GenFactory
//
//	DialectGenerator (extends MinimalDialect)
//	└── MigrateGenerator
//	    └── GenMigrate
//
// # Error Handling
//
// Errors in the declarations are reported as *SchemaError (analysis) or
// *SynthesisError (code synthesis). Both carry the declaration site and
// match their ErrorKind sentinel:
//
//	graph, err := gen.NewGraph(config, decls)
//	if errors.Is(err, gen.ErrInconsistentGetterSetterType) {
//	    var serr *gen.SchemaError
//	    errors.As(err, &serr)
//	    fmt.Println(serr.Pos, serr.Expected, serr.Found)
//	}
//
// Faults of the generator itself are *InternalError, configuration
// problems *ConfigError and sink failures *EmitError.
//
// # Configuration
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./orm"),
//	    gen.WithPackage("github.com/org/project/orm"),
//	    gen.WithFeatures(gen.FeatureMigrate),
//	    gen.WithDialect(gen.Postgres),
//	)
//
// The same settings can be read from a YAML file with LoadConfigFile.
//
// # Features
//
//   - builder, fields, factory: enabled by default
//   - sql/migrate: CREATE TABLE statements per database
//   - schema/snapshot: YAML snapshot of the analyzed schema
package gen
