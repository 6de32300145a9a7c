// Package load scans Go packages for entity and collection declarations.
package load

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/syssam/simpleorm/internal/logger"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// Config holds the configuration for loading declarations.
type Config struct {
	// Patterns are the package patterns to scan, e.g. "./model/...".
	Patterns []string
	// Dir is the directory patterns are resolved against.
	Dir string
	// BuildFlags are forwarded to the build system, e.g. "-tags=dev".
	BuildFlags []string
}

// Load scans the configured packages and returns their declarations.
func (c *Config) Load() (*Declarations, error) {
	if len(c.Patterns) == 0 {
		return nil, errors.New("simpleorm: load: no package patterns")
	}
	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Dir:        c.Dir,
		Fset:       fset,
		Mode:       loadMode,
		BuildFlags: c.BuildFlags,
		Logf:       func(format string, args ...any) { logger.Debugf("packages.Load: "+format, args...) },
	}, c.Patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "simpleorm: load packages %v", c.Patterns)
	}
	s := &scanner{fset: fset, ifaces: make(map[*types.TypeName]iface)}
	seen := mutable.NewSet[string]()
	var unique []*packages.Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Wrapf(pkg.Errors[0], "simpleorm: load package %s", pkg.PkgPath)
		}
		if seen.AddNew(pkg.PkgPath) {
			unique = append(unique, pkg)
			s.index(pkg)
		}
	}
	decls := &Declarations{}
	for _, pkg := range unique {
		if err := s.scan(pkg, decls); err != nil {
			return nil, err
		}
	}
	logger.Debugw("declarations loaded", "packages", len(unique), "entities", len(decls.Entities), "collections", len(decls.Collections))
	return decls, nil
}

type scanner struct {
	fset *token.FileSet
	// ifaces maps interface type names to their syntax, used to expand
	// embedded interfaces in declaration order.
	ifaces map[*types.TypeName]iface
}

type iface struct {
	syntax *ast.InterfaceType
	info   *types.Info
}

func (s *scanner) pos(n ast.Node) Pos {
	p := s.fset.Position(n.Pos())
	return Pos{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

// index records the syntax of every interface type of the package.
func (s *scanner) index(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				it, ok := ts.Type.(*ast.InterfaceType)
				if !ok {
					continue
				}
				if obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName); ok {
					s.ifaces[obj] = iface{syntax: it, info: pkg.TypesInfo}
				}
			}
		}
	}
}

func (s *scanner) scan(pkg *packages.Package, decls *Declarations) error {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				ds, err := directives(doc, s.pos)
				if err != nil {
					return err
				}
				if err := s.typeSpec(pkg, ts, ds, decls); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *scanner) typeSpec(pkg *packages.Package, ts *ast.TypeSpec, ds []*directive, decls *Declarations) error {
	ent, err := find(ds, DirectiveEntity)
	if err != nil {
		return err
	}
	db, err := find(ds, DirectiveDatabase)
	if err != nil {
		return err
	}
	if ent != nil {
		e, err := s.entity(pkg, ts, ent)
		if err != nil {
			return err
		}
		decls.Entities = append(decls.Entities, e)
	}
	if db != nil {
		c, err := s.collection(pkg, ts, db)
		if err != nil {
			return err
		}
		decls.Collections = append(decls.Collections, c)
	}
	for _, d := range ds {
		if d.name == DirectiveID {
			return Errorf(d.pos, "directive %q is only allowed on interface methods", d.name)
		}
	}
	return nil
}

func (s *scanner) entity(pkg *packages.Package, ts *ast.TypeSpec, d *directive) (*Entity, error) {
	it, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		return nil, Errorf(s.pos(ts), "entity %s must be an interface type", ts.Name.Name)
	}
	e := &Entity{
		Name:    ts.Name.Name,
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
		Table:   d.args["table"],
		Pos:     s.pos(ts),
		Version: schema.Unversioned(),
	}
	var err error
	if e.Version.Added, err = d.version("added"); err != nil {
		return nil, err
	}
	if e.Version.Removed, err = d.version("removed"); err != nil {
		return nil, err
	}
	if e.Methods, err = s.methods(pkg.TypesInfo, it, make(map[*ast.InterfaceType]bool)); err != nil {
		return nil, errors.Wrapf(err, "entity %s", e.Name)
	}
	logger.Debugw("entity found", "entity", e.Ident(), "methods", len(e.Methods))
	return e, nil
}

// methods lists the methods of an interface in source order, expanding
// embedded interfaces in place.
func (s *scanner) methods(info *types.Info, it *ast.InterfaceType, visiting map[*ast.InterfaceType]bool) ([]*Method, error) {
	visiting[it] = true
	defer delete(visiting, it)
	var ms []*Method
	for _, f := range it.Methods.List {
		if len(f.Names) == 0 {
			embedded, err := s.embedded(info, f, visiting)
			if err != nil {
				return nil, err
			}
			ms = append(ms, embedded...)
			continue
		}
		for _, name := range f.Names {
			fn, ok := info.Defs[name].(*types.Func)
			if !ok {
				return nil, Errorf(s.pos(name), "method %s has no type information", name.Name)
			}
			sig := fn.Type().(*types.Signature)
			m := &Method{
				Name:    name.Name,
				Params:  tupleRefs(sig.Params()),
				Results: tupleRefs(sig.Results()),
				Pos:     s.pos(name),
			}
			ds, err := directives(f.Doc, s.pos)
			if err != nil {
				return nil, err
			}
			for _, d := range ds {
				if d.name != DirectiveID {
					return nil, Errorf(d.pos, "directive %q is not allowed on methods", d.name)
				}
				if m.Tags == nil {
					m.Tags = make(map[string]string)
				}
				m.Tags[d.name] = ""
			}
			ms = append(ms, m)
		}
	}
	return ms, nil
}

func (s *scanner) embedded(info *types.Info, f *ast.Field, visiting map[*ast.InterfaceType]bool) ([]*Method, error) {
	named, ok := types.Unalias(info.TypeOf(f.Type)).(*types.Named)
	if !ok {
		return nil, Errorf(s.pos(f), "embedded element %s is not a named interface", types.ExprString(f.Type))
	}
	decl, ok := s.ifaces[named.Obj()]
	if !ok {
		return nil, Errorf(s.pos(f), "embedded interface %s is not part of the scanned packages", named.Obj().Name())
	}
	if visiting[decl.syntax] {
		return nil, Errorf(s.pos(f), "embedded interface %s embeds itself", named.Obj().Name())
	}
	return s.methods(decl.info, decl.syntax, visiting)
}

func (s *scanner) collection(pkg *packages.Package, ts *ast.TypeSpec, d *directive) (*Collection, error) {
	c := &Collection{
		Name:     d.args["name"],
		TypeName: ts.Name.Name,
		PkgPath:  pkg.PkgPath,
		Entities: d.list("entities"),
		Pos:      s.pos(ts),
		Version:  1,
	}
	if c.Name == "" {
		c.Name = ts.Name.Name
	}
	if v, ok := d.args["version"]; ok {
		n, err := d.version("version")
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, Errorf(d.pos, "invalid database version %q", v)
		}
		c.Version = n
	}
	return c, nil
}

func tupleRefs(t *types.Tuple) []TypeRef {
	refs := make([]TypeRef, t.Len())
	for i := range refs {
		refs[i] = typeRef(t.At(i).Type())
	}
	return refs
}

// typeRef converts a Go type to its logical type. []T is a list of T,
// except []byte which is a nominal scalar.
func typeRef(t types.Type) TypeRef {
	t = types.Unalias(t)
	if sl, ok := t.(*types.Slice); ok {
		if isByte(sl.Elem()) {
			return TypeRef{Name: "[]byte"}
		}
		ref := nominal(sl.Elem())
		ref.Shape = field.List
		return ref
	}
	return nominal(t)
}

func nominal(t types.Type) TypeRef {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		obj := t.Obj()
		ref := TypeRef{Name: obj.Name()}
		if obj.Pkg() != nil {
			ref.PkgPath = obj.Pkg().Path()
		}
		return ref
	case *types.Basic:
		return TypeRef{Name: types.Typ[t.Kind()].Name()}
	case *types.Slice:
		if isByte(t.Elem()) {
			return TypeRef{Name: "[]byte"}
		}
	}
	return TypeRef{Name: types.TypeString(t, (*types.Package).Path)}
}

func isByte(t types.Type) bool {
	b, ok := types.Unalias(t).(*types.Basic)
	return ok && b.Kind() == types.Uint8
}
