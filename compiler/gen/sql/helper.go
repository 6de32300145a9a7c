package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

// Element categories of column values. They decide how generated code
// compares and hashes a value.
type category uint8

const (
	catOpaque category = iota
	catInt
	catFloat
	catString
	catBool
	catBytes
	catTime
	catUUID
	catEntity
)

// categoryOf returns the element category of a column.
func categoryOf(c *gen.Column) category {
	if c.IsEntity() {
		return catEntity
	}
	switch c.Logical.Elem().Qualified() {
	case "int", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32":
		return catInt
	case "float32", "float64":
		return catFloat
	case "string":
		return catString
	case "bool":
		return catBool
	case "[]byte":
		return catBytes
	case "time.Time":
		return catTime
	case "github.com/google/uuid.UUID":
		return catUUID
	default:
		return catOpaque
	}
}

// comparable reports if values of the category support ==.
func (k category) comparable() bool {
	switch k {
	case catInt, catFloat, catString, catBool, catUUID:
		return true
	}
	return false
}

// idFunc returns the function extracting the identifier of the entity
// referenced by c, or nil if the target has no identifier.
func idFunc(h gen.GeneratorHelper, s *gen.EntitySchema, c *gen.Column) jen.Code {
	target := s.RefSchema(c)
	if target == nil || target.ID == nil {
		return jen.Nil()
	}
	return jen.Func().Params(jen.Id("v").Add(h.ElemType(c))).Int64().Block(
		jen.Return(jen.Int64().Call(jen.Id("v").Dot(target.ID.Getter.Name).Call())),
	)
}

// equalExpr returns the expression comparing the values a and b of c.
func equalExpr(h gen.GeneratorHelper, s *gen.EntitySchema, c *gen.Column, a, b jen.Code) jen.Code {
	k := categoryOf(c)
	if c.Type.IsList() {
		switch {
		case k == catEntity:
			return jen.Qual(h.RuntimePkg(), "RefsEqual").Call(a, b, idFunc(h, s, c))
		case k.comparable():
			return jen.Qual("slices", "Equal").Call(a, b)
		case k == catBytes:
			return jen.Qual("slices", "EqualFunc").Call(a, b, jen.Qual("bytes", "Equal"))
		case k == catTime:
			return jen.Qual("slices", "EqualFunc").Call(a, b, jen.Qual("time", "Time").Dot("Equal"))
		default:
			return jen.Qual("reflect", "DeepEqual").Call(a, b)
		}
	}
	switch {
	case k == catEntity:
		return jen.Qual(h.RuntimePkg(), "RefEqual").Call(a, b, idFunc(h, s, c))
	case k.comparable():
		return jen.Add(a).Op("==").Add(b)
	case k == catBytes:
		return jen.Qual("bytes", "Equal").Call(a, b)
	case k == catTime:
		return jen.Add(a).Dot("Equal").Call(b)
	default:
		return jen.Qual("reflect", "DeepEqual").Call(a, b)
	}
}

// hashElem returns the statement adding the element v of c to the
// hasher, or nil for opaque values.
func hashElem(k category, hasher string, v jen.Code) jen.Code {
	switch k {
	case catInt:
		return jen.Id(hasher).Dot("Int64").Call(jen.Int64().Call(v))
	case catFloat:
		return jen.Id(hasher).Dot("Float64").Call(jen.Float64().Call(v))
	case catString:
		return jen.Id(hasher).Dot("String").Call(v)
	case catBool:
		return jen.Id(hasher).Dot("Bool").Call(v)
	case catBytes:
		return jen.Id(hasher).Dot("Bytes").Call(v)
	case catTime:
		return jen.Id(hasher).Dot("Time").Call(v)
	case catUUID:
		return jen.Id(hasher).Dot("UUID").Call(v)
	default:
		return nil
	}
}

// hashStmts appends the statements hashing the value v of c.
func hashStmts(grp *jen.Group, h gen.GeneratorHelper, s *gen.EntitySchema, c *gen.Column, hasher string, v jen.Code) {
	k := categoryOf(c)
	switch {
	case k == catEntity && c.Type.IsList():
		grp.Qual(h.RuntimePkg(), "Refs").Call(jen.Id(hasher), v, idFunc(h, s, c))
	case k == catEntity:
		grp.Qual(h.RuntimePkg(), "Ref").Call(jen.Id(hasher), v, idFunc(h, s, c))
	case c.Type.IsList():
		grp.Id(hasher).Dot("Len").Call(jen.Len(v))
		if stmt := hashElem(k, hasher, jen.Id("e")); stmt != nil {
			grp.For(jen.List(jen.Id("_"), jen.Id("e")).Op(":=").Range().Add(v)).Block(stmt)
		}
	default:
		if stmt := hashElem(k, hasher, v); stmt != nil {
			grp.Add(stmt)
		} else {
			grp.Commentf("%s holds an opaque value and is compared with reflect.DeepEqual only.", c.Field())
		}
	}
}

// tableColumn returns the runtime descriptor of c.
func tableColumn(h gen.GeneratorHelper, s *gen.EntitySchema, c *gen.Column) jen.Code {
	return jen.ValuesFunc(func(d *jen.Group) {
		d.Id("Name").Op(":").Lit(c.Name)
		d.Id("Kind").Op(":").Qual(h.FieldPkg(), kindConst(c))
		if c.Type.IsList() {
			d.Id("List").Op(":").True()
		}
		if c.ID {
			d.Id("ID").Op(":").True()
		}
		if target := s.RefSchema(c); target != nil {
			d.Id("Ref").Op(":").Lit(target.Table)
		}
		if len(c.Type.Adapters) > 0 {
			d.Id("Adapters").Op(":").Index().String().ValuesFunc(func(l *jen.Group) {
				for _, a := range c.Type.Adapters {
					l.Lit(a)
				}
			})
		}
	})
}

// kindConst returns the name of the field.Kind constant of c.
func kindConst(c *gen.Column) string {
	switch c.Type.Kind {
	case field.Integer64:
		return "Integer64"
	case field.Text:
		return "Text"
	case field.Boolean:
		return "Boolean"
	case field.Real:
		return "Real"
	case field.Blob:
		return "Blob"
	default:
		return "Entity"
	}
}

// version returns the runtime version descriptor.
func version(h gen.GeneratorHelper, s *gen.EntitySchema) jen.Code {
	return jen.Qual(h.SchemaPkg(), "Version").Values(jen.Dict{
		jen.Id("Added"):   versionLit(h, s.Version.Added),
		jen.Id("Removed"): versionLit(h, s.Version.Removed),
	})
}

func versionLit(h gen.GeneratorHelper, v int) jen.Code {
	if v == schema.NoVersion {
		return jen.Qual(h.SchemaPkg(), "NoVersion")
	}
	return jen.Lit(v)
}
