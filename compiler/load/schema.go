package load

import (
	"fmt"

	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

// Declarations holds everything the scanner found, in package, file and
// declaration order.
type Declarations struct {
	Entities    []*Entity     `json:"entities,omitempty"`
	Collections []*Collection `json:"collections,omitempty"`
}

// Entity represents an interface marked with the entity directive.
type Entity struct {
	Name    string         `json:"name,omitempty"`
	PkgPath string         `json:"pkg_path,omitempty"`
	PkgName string         `json:"pkg_name,omitempty"`
	Table   string         `json:"table,omitempty"`
	Version schema.Version `json:"version"`
	Methods []*Method      `json:"methods,omitempty"`
	Pos     Pos            `json:"pos"`
}

// Ident returns the identity of the entity: its package-qualified name.
func (e *Entity) Ident() string {
	return Ident(e.PkgPath, e.Name)
}

// Method represents one method of an entity interface.
type Method struct {
	Name    string            `json:"name,omitempty"`
	Params  []TypeRef         `json:"params,omitempty"`
	Results []TypeRef         `json:"results,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Pos     Pos               `json:"pos"`
}

// HasTag reports if the method carries the given directive.
func (m *Method) HasTag(name string) bool {
	_, ok := m.Tags[name]
	return ok
}

// Collection represents a type marked with the database directive.
type Collection struct {
	Name     string   `json:"name,omitempty"`
	TypeName string   `json:"type_name,omitempty"`
	PkgPath  string   `json:"pkg_path,omitempty"`
	Version  int      `json:"version,omitempty"`
	Entities []string `json:"entities,omitempty"`
	Pos      Pos      `json:"pos"`
}

// Ident returns the identity of the collection.
func (c *Collection) Ident() string {
	return Ident(c.PkgPath, c.TypeName)
}

// TypeRef is a logical type as it appears in an accessor signature: a
// nominal type plus a single level of container shape.
type TypeRef struct {
	Name    string      `json:"name"`
	PkgPath string      `json:"pkg_path,omitempty"`
	Shape   field.Shape `json:"shape"`
}

// Qualified returns the package-qualified nominal type, without shape.
func (t TypeRef) Qualified() string {
	return Ident(t.PkgPath, t.Name)
}

// Elem returns the element type of t as a scalar.
func (t TypeRef) Elem() TypeRef {
	t.Shape = field.Scalar
	return t
}

// String implements fmt.Stringer.
func (t TypeRef) String() string {
	if t.Shape == field.List {
		return "[]" + t.Qualified()
	}
	return t.Qualified()
}

// Ident joins a package path and a name.
func Ident(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

// Pos describes a declaration site.
type Pos struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// IsValid reports if the position holds a location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String implements fmt.Stringer.
func (p Pos) String() string {
	switch {
	case !p.IsValid():
		return p.Filename
	case p.Filename == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
}
