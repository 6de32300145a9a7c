package sql

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/schema/field"
)

// planners maps dialect names to their atlas planners.
var planners = map[string]migrate.PlanApplier{
	gen.SQLite:   sqlite.DefaultPlan,
	gen.MySQL:    mysql.DefaultPlan,
	gen.Postgres: postgres.DefaultPlan,
}

// unqualified plans statements without a schema prefix.
func unqualified(o *migrate.PlanOptions) {
	o.SchemaQualifier = new(string)
}

// Tables returns the atlas tables of the entities of c that are live in
// its version, and the foreign keys between them. Lists of entities are
// not stored in a column. A reference to an entity with an identifier is
// stored as "<column>_id".
func Tables(c *gen.CollectionSchema, storage *gen.Storage) ([]*schema.Table, []*schema.ForeignKey, error) {
	var (
		tables = make(map[string]*schema.Table)
		fks    []*schema.ForeignKey
		order  []*schema.Table
	)
	live := make([]*gen.EntitySchema, 0, len(c.Entities))
	for _, s := range c.Entities {
		if !s.Version.Live(c.Version) {
			continue
		}
		if _, ok := tables[s.Table]; ok {
			return nil, nil, fmt.Errorf("table %q is shared by several entities of database %s", s.Table, c.Name)
		}
		t := schema.NewTable(s.Table)
		for _, col := range s.Columns {
			name, kind := col.Name, col.Type.Kind
			switch {
			case col.Type.IsList():
				kind = field.Blob
				if col.IsEntity() {
					continue
				}
			case col.IsEntity():
				target := s.RefSchema(col)
				if target == nil || target.ID == nil {
					continue
				}
				name += "_id"
			}
			typ, err := columnType(storage, kind)
			if err != nil {
				return nil, nil, err
			}
			sc := &schema.Column{Name: name, Type: &schema.ColumnType{Type: typ, Null: col.Nullable()}}
			t.AddColumns(sc)
			if col.ID {
				t.SetPrimaryKey(schema.NewPrimaryKey(sc))
			}
		}
		tables[s.Table] = t
		order = append(order, t)
		live = append(live, s)
	}
	for _, s := range live {
		t := tables[s.Table]
		for _, col := range s.Columns {
			target := s.RefSchema(col)
			if col.Type.IsList() || target == nil || target.ID == nil {
				continue
			}
			ref, ok := tables[target.Table]
			if !ok {
				continue
			}
			sc, _ := t.Column(col.Name + "_id")
			rc, _ := ref.Column(target.ID.Name)
			fks = append(fks, &schema.ForeignKey{
				Symbol:     fmt.Sprintf("%s_%s_id_fkey", s.Table, col.Name),
				Table:      t,
				Columns:    []*schema.Column{sc},
				RefTable:   ref,
				RefColumns: []*schema.Column{rc},
				OnDelete:   schema.SetNull,
			})
		}
	}
	return order, fks, nil
}

func columnType(storage *gen.Storage, k field.Kind) (schema.Type, error) {
	t, err := storage.ColumnType(k)
	if err != nil {
		return nil, err
	}
	switch k {
	case field.Integer64, field.Entity:
		return &schema.IntegerType{T: t}, nil
	case field.Text:
		return &schema.StringType{T: t}, nil
	case field.Boolean:
		return &schema.BoolType{T: t}, nil
	case field.Real:
		return &schema.FloatType{T: t}, nil
	default:
		return &schema.BinaryType{T: t}, nil
	}
}

// genMigrate renders the statements creating the live tables of c. SQLite
// declares foreign keys inline, other dialects add them once all tables
// exist, which allows references in both directions.
func genMigrate(h gen.GeneratorHelper, storage *gen.Storage, c *gen.CollectionSchema) ([]byte, error) {
	tables, fks, err := Tables(c, storage)
	if err != nil {
		return nil, gen.NewInternalError("migrate", "build tables of "+c.Name, err)
	}
	var changes, alters []schema.Change
	for _, t := range tables {
		changes = append(changes, &schema.AddTable{T: t})
	}
	for _, fk := range fks {
		if storage.Name == gen.SQLite {
			fk.Table.AddForeignKeys(fk)
			continue
		}
		alters = append(alters, &schema.ModifyTable{T: fk.Table, Changes: []schema.Change{&schema.AddForeignKey{F: fk}}})
	}
	planner, ok := planners[storage.Name]
	if !ok {
		return nil, gen.NewConfigError("Dialect", storage.Name, "no migration planner")
	}
	plan, err := planner.PlanChanges(context.Background(), c.Name, append(changes, alters...), unqualified)
	if err != nil {
		return nil, gen.NewInternalError("migrate", "plan "+c.Name, err)
	}
	var b bytes.Buffer
	for _, line := range strings.Split(h.Graph().Config.HeaderComment(), "\n") {
		fmt.Fprintf(&b, "-- %s\n", strings.TrimSpace(strings.TrimPrefix(line, "//")))
	}
	fmt.Fprintf(&b, "-- Database %q version %d, dialect %s.\n", c.Name, c.Version, storage.Name)
	for _, ch := range plan.Changes {
		if ch.Comment != "" {
			fmt.Fprintf(&b, "\n-- %s\n", ch.Comment)
		}
		fmt.Fprintf(&b, "%s;\n", ch.Cmd)
	}
	return b.Bytes(), nil
}
