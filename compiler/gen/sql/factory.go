package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/simpleorm/compiler/gen"
)

// genFactory generates the factory file of a collection
// ({collection}_database.go).
func genFactory(h gen.GeneratorHelper, c *gen.CollectionSchema) (*jen.File, error) {
	if len(c.Entities) == 0 {
		return nil, &gen.SynthesisError{
			Kind:    gen.KindEmptyCollection,
			Unit:    c.FileName() + ".go",
			Pos:     c.Pos,
			Message: "database " + c.Name + " declares no entities",
		}
	}
	f := h.NewFile()
	name := c.DatabaseName()

	f.Commentf("%s describes the %q database.", c.DatabaseVar(), c.Name)
	f.Var().Id(c.DatabaseVar()).Op("=").Op("&").Qual(h.RuntimePkg(), "Database").Values(jen.Dict{
		jen.Id("Name"):    jen.Lit(c.Name),
		jen.Id("Version"): jen.Lit(c.Version),
		jen.Id("Tables"): jen.Index().Op("*").Qual(h.RuntimePkg(), "Table").ValuesFunc(func(tables *jen.Group) {
			for _, s := range c.Entities {
				tables.Id(s.DescriptorVar())
			}
		}),
	})

	f.Commentf("%s creates the entities of the %q database.", name, c.Name)
	f.Type().Id(name).Struct()

	f.Commentf("New%s returns the factory of the %q database.", name, c.Name)
	f.Func().Id("New" + name).Params().Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values()),
	)

	f.Comment("Database returns the descriptor of the database.")
	f.Func().Params(jen.Op("*").Id(name)).Id("Database").Params().Op("*").Qual(h.RuntimePkg(), "Database").Block(
		jen.Return(jen.Id(c.DatabaseVar())),
	)

	for _, s := range c.Entities {
		f.Commentf("%s returns a builder of %s values.", s.Name, s.Name)
		f.Func().Params(jen.Op("*").Id(name)).Id(s.Name).Params().Op("*").Id(s.BuilderName()).Block(
			jen.Return(jen.Id("New" + s.BuilderName()).Call()),
		)
	}
	return f, nil
}
