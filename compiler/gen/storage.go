package gen

import (
	"fmt"

	"github.com/syssam/simpleorm/schema/field"
)

// Dialect names.
const (
	SQLite   = "sqlite"
	MySQL    = "mysql"
	Postgres = "postgres"
)

// Storage describes how a SQL dialect stores each storage kind.
type Storage struct {
	Name  string                // dialect name.
	Types map[field.Kind]string // column type per storage kind.
}

// drivers holds the supported dialects. The first one is the default.
var drivers = []*Storage{
	{
		Name: SQLite,
		Types: map[field.Kind]string{
			field.Integer64: "integer",
			field.Text:      "text",
			field.Boolean:   "bool",
			field.Real:      "real",
			field.Blob:      "blob",
		},
	},
	{
		Name: MySQL,
		Types: map[field.Kind]string{
			field.Integer64: "bigint",
			field.Text:      "longtext",
			field.Boolean:   "bool",
			field.Real:      "double",
			field.Blob:      "longblob",
		},
	},
	{
		Name: Postgres,
		Types: map[field.Kind]string{
			field.Integer64: "bigint",
			field.Text:      "text",
			field.Boolean:   "boolean",
			field.Real:      "double precision",
			field.Blob:      "bytea",
		},
	},
}

// NewStorage returns the storage of the given dialect name. It fails if
// the provided string is not a valid option.
func NewStorage(s string) (*Storage, error) {
	for _, d := range drivers {
		if s == d.Name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("simpleorm/gen: invalid dialect %q", s)
}

// String implements the fmt.Stringer interface.
func (s *Storage) String() string { return s.Name }

// ColumnType returns the column type of the given kind. Entity references
// are stored as the identifier of their target.
func (s *Storage) ColumnType(k field.Kind) (string, error) {
	if k == field.Entity {
		k = field.Integer64
	}
	t, ok := s.Types[k]
	if !ok {
		return "", fmt.Errorf("simpleorm/gen: dialect %s cannot store kind %s", s.Name, k)
	}
	return t, nil
}
