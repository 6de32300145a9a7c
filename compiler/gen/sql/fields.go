package sql

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/m4gshm/gollections/collection"
	"github.com/m4gshm/gollections/collection/mutable"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/compiler/load"
)

// fieldConst is a generated name constant with its declaration site.
type fieldConst struct {
	value string
	owner string
	pos   load.Pos
}

// fieldConstants collects the constants of all tables in schema order. A
// table shared by several entities contributes its name once. A column
// name constant declared twice, or a constant clashing with a name another
// unit declares, is an error. So is a name the other units declare twice.
func fieldConstants(g *gen.Graph) (collection.Map[string, fieldConst], error) {
	taken, err := declared(g)
	if err != nil {
		return nil, err
	}
	consts := mutable.NewMapOrdered[string, fieldConst]()
	add := func(name string, c fieldConst) error {
		if prev, ok := taken[name]; ok {
			return duplicateConstant(name, c.owner, c.pos, prev)
		}
		consts.Set(name, c)
		return nil
	}
	for _, s := range g.Nodes {
		name := gen.TableConstant(s.Table)
		if prev, ok := consts.Get(name); ok && prev.value != s.Table {
			return nil, duplicateConstant(name, s.Name, s.Pos, prev)
		} else if !ok {
			if err := add(name, fieldConst{value: s.Table, owner: s.Name, pos: s.Pos}); err != nil {
				return nil, err
			}
		}
		for _, c := range s.Columns {
			name := gen.Constant(s.Table, c)
			site := c.Site()
			if prev, ok := consts.Get(name); ok {
				return nil, duplicateConstant(name, s.Name+"."+site.Name, site.Pos, prev)
			}
			if err := add(name, fieldConst{value: c.Name, owner: s.Name + "." + site.Name, pos: site.Pos}); err != nil {
				return nil, err
			}
		}
	}
	return consts, nil
}

// declared returns the package-level names declared by the implementation,
// builder and factory units of g. A name declared by two of them is an
// error.
func declared(g *gen.Graph) (map[string]fieldConst, error) {
	names := make(map[string]fieldConst)
	add := func(site fieldConst, decls ...string) error {
		for _, name := range decls {
			if prev, ok := names[name]; ok {
				return duplicateConstant(name, site.owner, site.pos, prev)
			}
			names[name] = site
		}
		return nil
	}
	for _, s := range g.Nodes {
		site := fieldConst{owner: s.Name, pos: s.Pos}
		if err := add(site, s.Name, "New"+s.Name, s.DescriptorVar(), s.BuilderName(), "New"+s.BuilderName()); err != nil {
			return nil, err
		}
	}
	for _, c := range g.Collections {
		site := fieldConst{owner: "database " + c.Name, pos: c.Pos}
		if err := add(site, c.DatabaseName(), "New"+c.DatabaseName(), c.DatabaseVar()); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func duplicateConstant(name, owner string, pos load.Pos, prev fieldConst) *gen.SynthesisError {
	return &gen.SynthesisError{
		Kind:    gen.KindDuplicateFieldConstant,
		Unit:    fieldsUnit,
		Pos:     pos,
		Other:   prev.pos,
		Message: fmt.Sprintf("name %s of %s is already declared by %s", name, owner, prev.owner),
	}
}

// fieldsUnit is the name of the field constants unit.
const fieldsUnit = "simpleorm_fields.go"

// genFieldConstants generates the table and column name constants of all
// entities.
func genFieldConstants(h gen.GeneratorHelper) (*jen.File, error) {
	consts, err := fieldConstants(h.Graph())
	if err != nil {
		return nil, err
	}
	f := h.NewFile()
	f.Comment("Table and column names of the generated entities.")
	f.Const().DefsFunc(func(defs *jen.Group) {
		for name, c := range consts.All {
			defs.Id(name).Op("=").Lit(c.value)
		}
	})
	return f, nil
}
