package gen

import (
	"context"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/simpleorm/internal/logger"
	"github.com/syssam/simpleorm/schema/field"
)

// Import paths used by generated code.
const (
	runtimePkg = "github.com/syssam/simpleorm"
	schemaPkg  = "github.com/syssam/simpleorm/schema"
	fieldPkg   = "github.com/syssam/simpleorm/schema/field"
)

// Generator synthesizes the units of a Graph with a dialect and hands
// them to a Sink. Units are synthesized in parallel and buffered: the sink
// receives nothing unless every unit was synthesized successfully.
type Generator struct {
	graph   *Graph
	workers int
	pkg     string

	// Dialect generator for database-specific code
	dialect MinimalDialect
	// Optional capability detected at runtime
	migrateGen MigrateGenerator
}

// NewGenerator creates a new generator for the given graph.
// You must call WithDialect() to set a dialect before calling Generate().
//
// Example:
//
//	import "github.com/syssam/simpleorm/compiler/gen/sql"
//
//	gen := gen.NewGenerator(graph)
//	gen.WithDialect(sql.NewDialect(gen))
//	gen.Generate(ctx, gen.NewFileSink(target))
func NewGenerator(g *Graph) *Generator {
	return &Generator{
		graph:   g,
		workers: g.Config.workers(),
		pkg:     g.Config.PackageName(),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithDialect sets the dialect generator.
// Additional capabilities are detected via MigrateGenerator.
func (g *Generator) WithDialect(d MinimalDialect) *Generator {
	if d != nil {
		g.dialect = d
		if mg, ok := d.(MigrateGenerator); ok {
			g.migrateGen = mg
		}
	}
	return g
}

// task synthesizes one unit.
type task struct {
	namespace, name string
	gen             func() (Renderer, error)
}

// tasks lists the units of the graph in a stable order.
func (g *Generator) tasks() []task {
	var tasks []task
	for _, s := range g.graph.Nodes {
		tasks = append(tasks, task{name: s.FileName() + ".go", gen: func() (Renderer, error) {
			return g.dialect.GenEntity(s), nil
		}})
		if g.FeatureEnabled(FeatureBuilder.Name) {
			tasks = append(tasks, task{name: s.FileName() + "_builder.go", gen: func() (Renderer, error) {
				return g.dialect.GenBuilder(s), nil
			}})
		}
	}
	if g.FeatureEnabled(FeatureFields.Name) && len(g.graph.Nodes) > 0 {
		tasks = append(tasks, task{name: "simpleorm_fields.go", gen: func() (Renderer, error) {
			return nonNil(g.dialect.GenFieldConstants())
		}})
	}
	for _, c := range g.graph.Collections {
		if g.FeatureEnabled(FeatureFactory.Name) {
			tasks = append(tasks, task{name: c.FileName() + ".go", gen: func() (Renderer, error) {
				return nonNil(g.dialect.GenFactory(c))
			}})
		}
		if g.migrateGen != nil && g.FeatureEnabled(FeatureMigrate.Name) {
			tasks = append(tasks, task{namespace: "migrate", name: snake(c.Name) + ".sql", gen: func() (Renderer, error) {
				b, err := g.migrateGen.GenMigrate(c)
				return Bytes(b), err
			}})
		}
	}
	if g.FeatureEnabled(FeatureSnapshot.Name) {
		tasks = append(tasks, task{namespace: "internal", name: snapshotFile, gen: func() (Renderer, error) {
			b, err := Snapshot(g.graph)
			return Bytes(b), err
		}})
	}
	return tasks
}

// nonNil turns a nil file without error into an internal fault.
func nonNil(f *jen.File, err error) (Renderer, error) {
	switch {
	case err != nil:
		return nil, err
	case f == nil:
		return nil, NewInternalError("synthesize", "dialect returned no file", nil)
	}
	return f, nil
}

// Units synthesizes all units of the graph. It returns the first error in
// unit order, and no units, if any synthesizer fails.
func (g *Generator) Units(ctx context.Context) ([]*Unit, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Generate()")
	}
	tasks := g.tasks()
	var (
		units = make([]*Unit, len(tasks))
		errs  = make([]error, len(tasks))
		paths = make(map[string]bool, len(tasks))
	)
	for i, t := range tasks {
		u := &Unit{Namespace: t.namespace, Name: t.name}
		if paths[u.Path()] {
			return nil, NewInternalError("synthesize", "two units share the path "+u.Path(), nil)
		}
		paths[u.Path()] = true
		units[i] = u
	}
	var errg errgroup.Group
	errg.SetLimit(g.workers)
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		errg.Go(func() error {
			units[i].Source, errs[i] = t.gen()
			return nil
		})
	}
	_ = errg.Wait()
	if err := firstError(errs); err != nil {
		return nil, err
	}
	logger.Debugw("units synthesized", "units", len(units))
	return units, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Generate synthesizes all units and emits them through the sink.
// Emission starts only once every unit was synthesized. When the sink is
// a FileSink, artifacts of disabled features are removed afterwards.
func (g *Generator) Generate(ctx context.Context, sink Sink) error {
	units, err := g.Units(ctx)
	if err != nil {
		return err
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, u := range units {
		errg.Go(func() error {
			return sink.Emit(ctx, u)
		})
	}
	if err := errg.Wait(); err != nil {
		return err
	}
	if fs, ok := sink.(*FileSink); ok && fs.Root == g.graph.Config.Target {
		if err := g.graph.Config.cleanup(); err != nil {
			return &EmitError{Path: fs.Root, Cause: err}
		}
	}
	logger.Infow("units emitted", "units", len(units))
	return nil
}

// NewFile creates a new Jennifer file with the header comment.
func (g *Generator) NewFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(g.graph.Config.HeaderComment())
	return f
}

// GoType returns the Jennifer code for a column's Go type, as declared in
// the accessor signature.
func (g *Generator) GoType(c *Column) jen.Code {
	if c.Logical.Shape == field.List {
		return jen.Index().Add(g.ElemType(c))
	}
	return g.ElemType(c)
}

// ElemType returns the Jennifer code for the element type of a column.
func (g *Generator) ElemType(c *Column) jen.Code {
	t := c.Logical
	switch {
	case t.Name == "[]byte" && t.PkgPath == "":
		return jen.Index().Byte()
	case t.PkgPath == "":
		return jen.Id(t.Name)
	default:
		return jen.Qual(t.PkgPath, t.Name)
	}
}

// EntityType returns the Jennifer code for the entity interface.
func (g *Generator) EntityType(s *EntitySchema) jen.Code {
	return jen.Qual(s.PkgPath, s.Name)
}

// RuntimePkg returns the import path for the simpleorm runtime package.
func (g *Generator) RuntimePkg() string { return runtimePkg }

// FieldPkg returns the import path for the schema field package.
func (g *Generator) FieldPkg() string { return fieldPkg }

// SchemaPkg returns the import path for the schema package.
func (g *Generator) SchemaPkg() string { return schemaPkg }

// Graph returns the schema graph.
func (g *Generator) Graph() *Graph { return g.graph }

// Pkg returns the output package name.
func (g *Generator) Pkg() string { return g.pkg }

// FeatureEnabled reports if the given feature name is enabled.
func (g *Generator) FeatureEnabled(name string) bool {
	enabled, _ := g.graph.Config.FeatureEnabled(name)
	return enabled
}

// Verify Generator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*Generator)(nil)
