package gen

import (
	"slices"

	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

// Handle is an opaque reference to an entity schema in the arena of a
// Graph. Handles are allocated when analysis of an entity starts, before
// its schema is sealed, so entities may reference each other cyclically.
type Handle int

// NoHandle is the Ref of columns that do not reference an entity.
const NoHandle Handle = -1

// The following types and their exported methods are used by the
// synthesizers to generate the units. They are read-only once sealed.
type (
	// EntitySchema is the validated schema of one entity declaration.
	EntitySchema struct {
		graph *Graph
		// Handle is the arena index of this schema.
		Handle Handle
		// Name holds the name of the entity interface.
		Name string
		// Ident holds the package-qualified name of the interface.
		Ident string
		// PkgPath and PkgName of the declaring package.
		PkgPath, PkgName string
		// Table holds the table name.
		Table string
		// ID holds the identifier column, if any. It is also part of Columns.
		ID *Column
		// Columns holds the columns in accessor pairing order.
		Columns []*Column
		// Version holds the version tags of the entity.
		Version schema.Version
		// Pos is the declaration site.
		Pos load.Pos
	}

	// Column holds one paired property of an entity.
	Column struct {
		// Key is the property key, the accessor name without its prefix.
		Key string
		// Name is the storage name of the column.
		Name string
		// Type is the resolved storage type.
		Type ResolvedType
		// Logical is the Go type as declared in the accessor signature.
		Logical load.TypeRef
		// Getter and Setter hold the accessor declarations. Either may be nil.
		Getter, Setter *load.Method
		// ID indicates that this is the identifier column.
		ID bool
		// Ref is the handle of the referenced entity for ENTITY columns,
		// or NoHandle.
		Ref Handle
	}

	// CollectionSchema holds the entities grouped under one declared
	// database.
	CollectionSchema struct {
		// Name holds the collection name.
		Name string
		// Ident holds the package-qualified name of the declaring type.
		Ident string
		// Version is the database version.
		Version int
		// Entities holds the member schemas in declaration order, without
		// duplicates.
		Entities []*EntitySchema
		// Pos is the declaration site.
		Pos load.Pos
	}
)

// HasID reports if the entity has an identifier column.
func (s *EntitySchema) HasID() bool { return s.ID != nil }

// Receiver returns the receiver name of the generated implementation.
func (s *EntitySchema) Receiver() string { return receiver(s.Name) }

// BuilderName returns the name of the generated fluent builder.
func (s *EntitySchema) BuilderName() string { return s.Name + "Builder" }

// DescriptorVar returns the name of the generated table descriptor.
func (s *EntitySchema) DescriptorVar() string { return s.Name + "Descriptor" }

// SequenceVar returns the name of the generated identifier sequence.
func (s *EntitySchema) SequenceVar() string { return camel(snake(s.Name)) + "Sequence" }

// FileName returns the base name of the generated implementation file.
func (s *EntitySchema) FileName() string { return snake(s.Name) }

// Column returns the column with the given key.
func (s *EntitySchema) Column(key string) (*Column, bool) {
	i := slices.IndexFunc(s.Columns, func(c *Column) bool { return c.Key == key })
	if i == -1 {
		return nil, false
	}
	return s.Columns[i], true
}

// RefSchema dereferences the entity referenced by c.
func (s *EntitySchema) RefSchema(c *Column) *EntitySchema {
	if c.Ref == NoHandle || s.graph == nil {
		return nil
	}
	return s.graph.Schema(c.Ref)
}

// Equal reports if both schemas describe the same declaration with the
// same structure. References are compared by identity of the target, not
// recursively.
func (s *EntitySchema) Equal(o *EntitySchema) bool {
	switch {
	case s == o:
		return true
	case s == nil || o == nil:
		return false
	case s.Ident != o.Ident || s.Table != o.Table || s.Version != o.Version || len(s.Columns) != len(o.Columns):
		return false
	}
	for i, c := range s.Columns {
		oc := o.Columns[i]
		if c.Key != oc.Key || c.Name != oc.Name || c.ID != oc.ID || !c.Type.Equal(oc.Type) ||
			(c.Getter == nil) != (oc.Getter == nil) || (c.Setter == nil) != (oc.Setter == nil) {
			return false
		}
	}
	return true
}

// Field returns the name of the struct field and constructor parameter
// generated for the column.
func (c *Column) Field() string {
	name := camel(snake(c.Key))
	if _, ok := goKeywords[name]; ok {
		name = "_" + name
	}
	return name
}

// Nullable reports if the column may hold no value: lists and entity
// references.
func (c *Column) Nullable() bool {
	return c.Type.IsList() || c.Type.IsEntity()
}

// IsEntity reports if the column references another entity.
func (c *Column) IsEntity() bool { return c.Type.Kind == field.Entity }

// Site returns the declaration site of the column: its first accessor.
func (c *Column) Site() *load.Method {
	switch {
	case c.Getter != nil && c.Setter != nil:
		if c.Setter.Pos.Line < c.Getter.Pos.Line {
			return c.Setter
		}
		return c.Getter
	case c.Getter != nil:
		return c.Getter
	default:
		return c.Setter
	}
}

// Constant returns the name of the field constant of the column for the
// given table.
func Constant(table string, c *Column) string {
	return pascal(table) + c.Key
}

// TableConstant returns the name of the table name constant.
func TableConstant(table string) string {
	return pascal(table) + "Table"
}

// DatabaseName returns the name of the generated factory type.
func (c *CollectionSchema) DatabaseName() string { return pascal(c.Name) }

// DatabaseVar returns the name of the generated database descriptor.
func (c *CollectionSchema) DatabaseVar() string { return pascal(c.Name) + "Database" }

// FileName returns the base name of the generated factory file.
func (c *CollectionSchema) FileName() string { return snake(pascal(c.Name)) + "_database" }
