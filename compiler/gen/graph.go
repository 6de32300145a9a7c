package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/internal/logger"
	"github.com/syssam/simpleorm/schema/field"
)

// state is the analysis state of an entity.
type state uint8

const (
	unseen state = iota
	inProgress
	sealed
)

// Graph holds the schemas of one generation run. It owns the analysis
// cache, an arena of entity schemas indexed by Handle, so independent
// graphs never share state.
type Graph struct {
	*Config
	// Nodes are the sealed entity schemas in declaration order.
	Nodes []*EntitySchema
	// Collections are the declared databases in declaration order.
	Collections []*CollectionSchema

	resolver *Resolver
	decls    map[string]*load.Entity
	cache    map[string]Handle
	arena    []*EntitySchema
	states   []state
}

// NewGraph creates a new Graph for the code generation from the given
// declarations. Entities are analyzed in declaration order and the first
// error aborts the whole run.
func NewGraph(c *Config, decls *load.Declarations) (g *Graph, err error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "missing config")
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	if decls == nil {
		decls = &load.Declarations{}
	}
	g = &Graph{
		Config: c,
		decls:  make(map[string]*load.Entity, len(decls.Entities)),
		cache:  make(map[string]Handle, len(decls.Entities)),
	}
	idents := make([]string, 0, len(decls.Entities))
	for _, e := range decls.Entities {
		if e.PkgPath != "" && e.PkgPath == c.Package {
			return nil, NewConfigError("Package", c.Package, fmt.Sprintf("generated package must differ from the package declaring entity %s", e.Name))
		}
		if _, ok := g.decls[e.Ident()]; ok {
			return nil, NewInternalError("graph", "entity "+e.Ident()+" declared twice", nil)
		}
		g.decls[e.Ident()] = e
		idents = append(idents, e.Ident())
	}
	g.resolver = NewDefaultResolver(idents...)
	g.resolver.Prepend(c.Adapters...)
	logger.Debugw("resolver ready", "adapters", g.resolver.Adapters())
	for _, e := range decls.Entities {
		h, err := g.Analyze(e.Ident())
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, g.arena[h])
	}
	for _, c := range decls.Collections {
		cs, err := g.collection(c)
		if err != nil {
			return nil, err
		}
		g.Collections = append(g.Collections, cs)
	}
	logger.Infow("schema analyzed", "entities", len(g.Nodes), "collections", len(g.Collections))
	return g, nil
}

// Resolver returns the type resolver of the run.
func (g *Graph) Resolver() *Resolver { return g.resolver }

// Schema dereferences a handle. Handles returned for an entity whose
// analysis is still in progress resolve to its schema once sealed.
func (g *Graph) Schema(h Handle) *EntitySchema {
	if h < 0 || int(h) >= len(g.arena) {
		return nil
	}
	return g.arena[h]
}

// Sealed reports if the schema behind h finished analysis.
func (g *Graph) Sealed(h Handle) bool {
	return h >= 0 && int(h) < len(g.states) && g.states[h] == sealed
}

// Lookup returns the schema of the entity with the given name or identity.
func (g *Graph) Lookup(name string) (*EntitySchema, bool) {
	for _, n := range g.Nodes {
		if n.Name == name || n.Ident == name {
			return n, true
		}
	}
	return nil, false
}

// Analyze returns the handle of the schema of the given entity, analyzing
// it on first request. A request for an entity whose analysis is in
// progress returns its placeholder handle, which breaks reference cycles.
func (g *Graph) Analyze(ident string) (Handle, error) {
	if h, ok := g.cache[ident]; ok {
		return h, nil
	}
	e, ok := g.decls[ident]
	if !ok {
		return NoHandle, &SchemaError{Kind: KindUnknownEntity, Entity: ident, Message: "no entity declaration"}
	}
	h := Handle(len(g.arena))
	s := &EntitySchema{
		graph:   g,
		Handle:  h,
		Name:    e.Name,
		Ident:   ident,
		PkgPath: e.PkgPath,
		PkgName: e.PkgName,
		Pos:     e.Pos,
	}
	g.arena = append(g.arena, s)
	g.states = append(g.states, inProgress)
	g.cache[ident] = h
	logger.Debugw("analyzing entity", "entity", ident, "handle", h)
	if err := g.analyze(s, e); err != nil {
		return NoHandle, err
	}
	g.states[h] = sealed
	logger.Debugw("entity sealed", "entity", ident, "table", s.Table, "columns", len(s.Columns))
	return h, nil
}

// analyze fills the placeholder s in place.
func (g *Graph) analyze(s *EntitySchema, e *load.Entity) error {
	pairs, err := pair(e)
	if err != nil {
		return err
	}
	columns := make([]*Column, 0, len(pairs))
	var id *Column
	for _, p := range pairs {
		c, err := g.column(e, p)
		if err != nil {
			return err
		}
		if c.ID {
			if id != nil {
				site := c.Site()
				return NewSchemaError(KindMultipleIDColumns, e.Name, site.Name, site.Pos,
					"id already declared on "+id.Site().Name+" ("+id.Site().Pos.String()+")")
			}
			id = c
		}
		columns = append(columns, c)
	}
	if id != nil {
		if err := checkID(e, id); err != nil {
			return err
		}
	}
	if err := e.Version.Validate(); err != nil {
		return NewSchemaError(KindInconsistentVersion, e.Name, "", e.Pos, err.Error())
	}
	s.Table = e.Table
	if s.Table == "" {
		s.Table = snake(plural(e.Name))
	}
	s.ID, s.Columns, s.Version = id, columns, e.Version
	return nil
}

// column resolves the types of an accessor pair.
func (g *Graph) column(e *load.Entity, p *accessors) (*Column, error) {
	c := &Column{
		Key:    p.Key,
		Name:   snake(p.Key),
		Getter: p.Getter,
		Setter: p.Setter,
		Ref:    NoHandle,
		ID:     p.Getter != nil && p.Getter.HasTag(load.DirectiveID) || p.Setter != nil && p.Setter.HasTag(load.DirectiveID),
	}
	var getter, setter *ResolvedType
	if p.Getter != nil {
		c.Logical = p.Getter.Results[0]
		rt, err := g.resolve(e, p.Getter, c.Logical)
		if err != nil {
			return nil, err
		}
		getter = &rt
	}
	if p.Setter != nil {
		st := p.Setter.Params[0]
		rt, err := g.resolve(e, p.Setter, st)
		if err != nil {
			return nil, err
		}
		if getter != nil && !getter.Equal(rt) {
			return nil, NewSchemaError(KindInconsistentGetterSetterType, e.Name, p.Setter.Name, p.Setter.Pos,
				"type of "+p.Setter.Name+" disagrees with "+p.Getter.Name).mismatch(getter.String(), rt.String())
		}
		if getter == nil {
			c.Logical = st
		}
		setter = &rt
	}
	if getter != nil {
		c.Type = *getter
	} else {
		c.Type = *setter
	}
	if c.Type.IsEntity() {
		h, err := g.Analyze(c.Type.Ref)
		if err != nil {
			return nil, err
		}
		c.Ref = h
	}
	return c, nil
}

// resolve resolves t and attaches the declaration site to input errors.
func (g *Graph) resolve(e *load.Entity, m *load.Method, t load.TypeRef) (ResolvedType, error) {
	rt, err := g.resolver.Resolve(t)
	var serr *SchemaError
	if errors.As(err, &serr) {
		serr.Entity, serr.Member, serr.Pos = e.Name, m.Name, m.Pos
	}
	return rt, err
}

func checkID(e *load.Entity, c *Column) error {
	site := c.Site()
	switch {
	case c.Type.Kind != field.Integer64 || c.Type.IsList() || len(c.Type.Adapters) > 0:
		return NewSchemaError(KindInvalidIDColumn, e.Name, site.Name, site.Pos,
			"id column "+c.Key+" must be a 64-bit integer").mismatch(field.Integer64.String(), c.Type.String())
	case c.Getter == nil:
		return NewSchemaError(KindMissingAccessor, e.Name, site.Name, site.Pos,
			"id column "+c.Key+" requires a getter").mismatch("Get"+c.Key, "none")
	case c.Setter == nil:
		return NewSchemaError(KindMissingAccessor, e.Name, site.Name, site.Pos,
			"id column "+c.Key+" requires a setter").mismatch("Set"+c.Key, "none")
	}
	return nil
}

// collection groups the analyzed members of a declared database.
// Entity names are relative to the package of the declaration unless
// qualified.
func (g *Graph) collection(c *load.Collection) (*CollectionSchema, error) {
	cs := &CollectionSchema{
		Name:    c.Name,
		Ident:   c.Ident(),
		Version: c.Version,
		Pos:     c.Pos,
	}
	seen := make(map[Handle]bool, len(c.Entities))
	for _, name := range c.Entities {
		ident := name
		if !strings.Contains(name, ".") {
			ident = load.Ident(c.PkgPath, name)
		}
		h, ok := g.cache[ident]
		if !ok {
			return nil, NewSchemaError(KindUnknownEntity, c.TypeName, name, c.Pos,
				"database "+c.Name+" references an undeclared entity")
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		cs.Entities = append(cs.Entities, g.arena[h])
	}
	return cs, nil
}
