package simpleorm

import (
	"slices"

	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

// Column describes one generated column.
type Column struct {
	// Name is the storage name of the column.
	Name string
	// Kind is the storage kind of the column.
	Kind field.Kind
	// List reports whether the column holds a list.
	List bool
	// ID reports whether the column is the identifier column.
	ID bool
	// Ref is the table name of the referenced entity, for ENTITY columns.
	Ref string
	// Adapters is the chain applied between the Go value and its storage
	// representation, in write order.
	Adapters []string
}

// Chain returns the adapter chain of the column.
func (c Column) Chain() (Chain, error) {
	return NewChain(c.Adapters...)
}

// Table describes the generated storage of one entity.
type Table struct {
	// Name is the table name.
	Name string
	// Entity is the name of the entity interface.
	Entity string
	// Columns holds the columns in declaration order.
	Columns []Column
	// Version holds the version tags of the entity.
	Version schema.Version
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (Column, error) {
	i := slices.IndexFunc(t.Columns, func(c Column) bool { return c.Name == name })
	if i == -1 {
		return Column{}, NewNotFoundError("column", t.Name+"."+name)
	}
	return t.Columns[i], nil
}

// ID returns the identifier column, if the table has one.
func (t *Table) ID() (Column, bool) {
	i := slices.IndexFunc(t.Columns, func(c Column) bool { return c.ID })
	if i == -1 {
		return Column{}, false
	}
	return t.Columns[i], true
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Database describes a collection of tables.
type Database struct {
	// Name is the collection name.
	Name string
	// Version is the schema version of the collection.
	Version int
	// Tables holds the member tables in declaration order.
	Tables []*Table
}

// Table returns the member table with the given name.
func (d *Database) Table(name string) (*Table, error) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, NewNotFoundError("table", name)
}

// LiveTables returns the tables that exist in the database version.
func (d *Database) LiveTables() []*Table {
	var live []*Table
	for _, t := range d.Tables {
		if t.Version.Live(d.Version) {
			live = append(live, t)
		}
	}
	return live
}
