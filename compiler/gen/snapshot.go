package gen

import (
	"gopkg.in/yaml.v3"

	"github.com/syssam/simpleorm/schema"
)

// snapshotFile is the name of the snapshot unit.
const snapshotFile = "schema.yaml"

type (
	// SchemaSnapshot is the serialized form of an analyzed graph.
	SchemaSnapshot struct {
		Entities  []EntitySnapshot   `yaml:"entities"`
		Databases []DatabaseSnapshot `yaml:"databases,omitempty"`
	}

	// EntitySnapshot is the serialized form of an entity schema.
	EntitySnapshot struct {
		Name    string           `yaml:"name"`
		Ident   string           `yaml:"ident"`
		Table   string           `yaml:"table"`
		ID      string           `yaml:"id,omitempty"`
		Version schema.Version   `yaml:"version"`
		Columns []ColumnSnapshot `yaml:"columns"`
	}

	// ColumnSnapshot is the serialized form of a column.
	ColumnSnapshot struct {
		Key    string       `yaml:"key"`
		Name   string       `yaml:"name"`
		Type   ResolvedType `yaml:"type"`
		Getter string       `yaml:"getter,omitempty"`
		Setter string       `yaml:"setter,omitempty"`
		ID     bool         `yaml:"id,omitempty"`
	}

	// DatabaseSnapshot is the serialized form of a collection.
	DatabaseSnapshot struct {
		Name     string   `yaml:"name"`
		Ident    string   `yaml:"ident"`
		Version  int      `yaml:"version"`
		Entities []string `yaml:"entities"`
	}
)

// NewSnapshot returns the snapshot of g.
func NewSnapshot(g *Graph) *SchemaSnapshot {
	snap := &SchemaSnapshot{Entities: make([]EntitySnapshot, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		es := EntitySnapshot{
			Name:    n.Name,
			Ident:   n.Ident,
			Table:   n.Table,
			Version: n.Version,
			Columns: make([]ColumnSnapshot, 0, len(n.Columns)),
		}
		if n.ID != nil {
			es.ID = n.ID.Name
		}
		for _, c := range n.Columns {
			cs := ColumnSnapshot{Key: c.Key, Name: c.Name, Type: c.Type, ID: c.ID}
			if c.Getter != nil {
				cs.Getter = c.Getter.Name
			}
			if c.Setter != nil {
				cs.Setter = c.Setter.Name
			}
			es.Columns = append(es.Columns, cs)
		}
		snap.Entities = append(snap.Entities, es)
	}
	for _, c := range g.Collections {
		ds := DatabaseSnapshot{Name: c.Name, Ident: c.Ident, Version: c.Version}
		for _, e := range c.Entities {
			ds.Entities = append(ds.Entities, e.Ident)
		}
		snap.Databases = append(snap.Databases, ds)
	}
	return snap
}

// Snapshot renders the YAML snapshot of g.
func Snapshot(g *Graph) ([]byte, error) {
	b, err := yaml.Marshal(NewSnapshot(g))
	if err != nil {
		return nil, NewInternalError("snapshot", "encode schema", err)
	}
	return b, nil
}

// ReadSnapshot decodes a snapshot rendered by Snapshot.
func ReadSnapshot(b []byte) (*SchemaSnapshot, error) {
	snap := &SchemaSnapshot{}
	if err := yaml.Unmarshal(b, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
