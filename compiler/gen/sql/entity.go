package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/simpleorm/compiler/gen"
)

// genEntity generates the implementation file ({entity}.go).
func genEntity(h gen.GeneratorHelper, s *gen.EntitySchema) *jen.File {
	f := h.NewFile()
	genEntityStruct(h, f, s)
	genConstructor(h, f, s)
	genAccessors(h, f, s)
	genEqual(h, f, s)
	genHash(h, f, s)
	genTable(h, f, s)
	return f
}

// genEntityStruct generates the implementation struct, one field per
// column in schema order.
func genEntityStruct(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	f.Commentf("%s implements %s.%s.", s.Name, s.PkgName, s.Name)
	f.Type().Id(s.Name).StructFunc(func(group *jen.Group) {
		for _, c := range s.Columns {
			group.Id(c.Field()).Add(h.GoType(c))
		}
	})
	f.Var().Id("_").Add(h.EntityType(s)).Op("=").Parens(jen.Op("*").Id(s.Name)).Parens(jen.Nil())
}

// genConstructor generates New{Entity}. Fields are assigned in parameter
// order.
func genConstructor(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	f.Commentf("New%s returns a %s holding the given column values.", s.Name, s.Name)
	f.Func().Id("New"+s.Name).ParamsFunc(func(params *jen.Group) {
		for _, c := range s.Columns {
			params.Id(c.Field()).Add(h.GoType(c))
		}
	}).Op("*").Id(s.Name).Block(
		jen.Return(jen.Op("&").Id(s.Name).ValuesFunc(func(vals *jen.Group) {
			for _, c := range s.Columns {
				vals.Line().Id(c.Field()).Op(":").Id(c.Field())
			}
			if len(s.Columns) > 0 {
				vals.Line()
			}
		})),
	)
}

// genAccessors generates the accessors the entity interface declares.
func genAccessors(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	rv := s.Receiver()
	for _, c := range s.Columns {
		if c.Getter != nil {
			f.Commentf("%s returns the value of the %q column.", c.Getter.Name, c.Name)
			f.Func().Params(jen.Id(rv).Op("*").Id(s.Name)).Id(c.Getter.Name).Params().Add(h.GoType(c)).Block(
				jen.Return(jen.Id(rv).Dot(c.Field())),
			)
		}
		if c.Setter != nil {
			f.Commentf("%s sets the value of the %q column.", c.Setter.Name, c.Name)
			f.Func().Params(jen.Id(rv).Op("*").Id(s.Name)).Id(c.Setter.Name).Params(jen.Id("v").Add(h.GoType(c))).Block(
				jen.Id(rv).Dot(c.Field()).Op("=").Id("v"),
			)
		}
	}
}

// genEqual generates the structural equality. Entity references are
// compared through the identifier of their target, so cyclic graphs never
// recurse.
func genEqual(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	rv := s.Receiver()
	f.Commentf("Equal reports if both values hold equal column values.")
	f.Func().Params(jen.Id(rv).Op("*").Id(s.Name)).Id("Equal").Params(jen.Id("other").Op("*").Id(s.Name)).Bool().BlockFunc(func(grp *jen.Group) {
		grp.Switch().Block(
			jen.Case(jen.Id(rv).Op("==").Id("other")).Block(jen.Return(jen.True())),
			jen.Case(jen.Id(rv).Op("==").Nil().Op("||").Id("other").Op("==").Nil()).Block(jen.Return(jen.False())),
		)
		if len(s.Columns) == 0 {
			grp.Return(jen.True())
			return
		}
		var cond *jen.Statement
		for i, c := range s.Columns {
			expr := equalExpr(h, s, c, jen.Id(rv).Dot(c.Field()), jen.Id("other").Dot(c.Field()))
			if i == 0 {
				cond = jen.Add(expr)
				continue
			}
			cond.Op("&&").Line().Add(expr)
		}
		grp.Return(cond)
	})
}

// genHash generates the hash, combining the fields in the order Equal
// compares them.
func genHash(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	rv := s.Receiver()
	f.Commentf("Hash returns a hash of the column values, consistent with Equal.")
	f.Func().Params(jen.Id(rv).Op("*").Id(s.Name)).Id("Hash").Params().Uint64().BlockFunc(func(grp *jen.Group) {
		grp.If(jen.Id(rv).Op("==").Nil()).Block(jen.Return(jen.Lit(0)))
		grp.Id("h").Op(":=").Qual(h.RuntimePkg(), "NewHasher").Call()
		for _, c := range s.Columns {
			hashStmts(grp, h, s, c, "h", jen.Id(rv).Dot(c.Field()))
		}
		grp.Return(jen.Id("h").Dot("Sum64").Call())
	})
}

// genTable generates the table descriptor of the entity.
func genTable(h gen.GeneratorHelper, f *jen.File, s *gen.EntitySchema) {
	f.Commentf("%s describes the %q table.", s.DescriptorVar(), s.Table)
	f.Var().Id(s.DescriptorVar()).Op("=").Op("&").Qual(h.RuntimePkg(), "Table").Values(jen.Dict{
		jen.Id("Name"):   jen.Lit(s.Table),
		jen.Id("Entity"): jen.Lit(s.Ident),
		jen.Id("Columns"): jen.Index().Qual(h.RuntimePkg(), "Column").ValuesFunc(func(cols *jen.Group) {
			for _, c := range s.Columns {
				cols.Line().Add(tableColumn(h, s, c))
			}
			if len(s.Columns) > 0 {
				cols.Line()
			}
		}),
		jen.Id("Version"): version(h, s),
	})
}
