package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/simpleorm/compiler/gen"
)

// genBuilder generates the fluent builder file ({entity}_builder.go).
// Entities with an identifier column get a package-level sequence that
// assigns identifiers the caller did not supply.
func genBuilder(h gen.GeneratorHelper, s *gen.EntitySchema) *jen.File {
	f := h.NewFile()
	name := s.BuilderName()
	if s.HasID() {
		f.Commentf("%s hands out the identifiers of %s values built without one.", s.SequenceVar(), s.Name)
		f.Var().Id(s.SequenceVar()).Op("=").Qual(h.RuntimePkg(), "NewSequence").Call()
	}

	f.Commentf("%s builds %s values.", name, s.Name)
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		group.Id("values").Id(s.Name)
		if s.HasID() {
			group.Id("idSet").Bool()
		}
	})

	f.Commentf("New%s returns an empty %s builder.", name, s.Name)
	f.Func().Id("New" + name).Params().Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values()),
	)

	for _, c := range s.Columns {
		f.Commentf("Set%s sets the %q column.", c.Key, c.Name)
		f.Func().Params(jen.Id("b").Op("*").Id(name)).Id("Set"+c.Key).Params(jen.Id("v").Add(h.GoType(c))).Op("*").Id(name).BlockFunc(func(grp *jen.Group) {
			grp.Id("b").Dot("values").Dot(c.Field()).Op("=").Id("v")
			if c.ID {
				grp.Id("b").Dot("idSet").Op("=").True()
			}
			grp.Return(jen.Id("b"))
		})
	}

	f.Commentf("Build returns a new %s holding the values set on the builder.", s.Name)
	if s.HasID() {
		f.Comment("Without an explicit identifier, the next value of the sequence is assigned.")
	}
	f.Func().Params(jen.Id("b").Op("*").Id(name)).Id("Build").Params().Op("*").Id(s.Name).BlockFunc(func(grp *jen.Group) {
		if id := s.ID; id != nil {
			field := jen.Id("b").Dot("values").Dot(id.Field())
			grp.If(jen.Id("b").Dot("idSet")).Block(
				jen.Id(s.SequenceVar()).Dot("Observe").Call(jen.Int64().Call(field.Clone())),
			).Else().Block(
				field.Clone().Op("=").Add(h.GoType(id)).Call(jen.Id(s.SequenceVar()).Dot("Next").Call()),
				jen.Id("b").Dot("idSet").Op("=").True(),
			)
		}
		grp.Return(jen.Id("New" + s.Name).CallFunc(func(args *jen.Group) {
			for _, c := range s.Columns {
				args.Id("b").Dot("values").Dot(c.Field())
			}
		}))
	})
	return f
}
