package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/schema/field"
)

// ResolvedType is the storage view of a logical type.
type ResolvedType struct {
	// Kind is the storage kind.
	Kind field.Kind `json:"kind" yaml:"kind"`
	// Elem is the canonical element type, e.g. "int64" or "time.Time".
	Elem string `json:"elem" yaml:"elem"`
	// Shape is the container shape.
	Shape field.Shape `json:"shape" yaml:"shape"`
	// Adapters is the transformation chain, in write order.
	Adapters []string `json:"adapters,omitempty" yaml:"adapters,omitempty"`
	// Ref is the identity of the referenced entity, for ENTITY columns.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Equal reports if both resolved types are identical.
func (t ResolvedType) Equal(o ResolvedType) bool {
	return t.Kind == o.Kind &&
		t.Elem == o.Elem &&
		t.Shape == o.Shape &&
		t.Ref == o.Ref &&
		slices.Equal(t.Adapters, o.Adapters)
}

// IsList reports if the type holds a list.
func (t ResolvedType) IsList() bool { return t.Shape == field.List }

// IsEntity reports if the type references another entity.
func (t ResolvedType) IsEntity() bool { return t.Kind == field.Entity }

// String implements fmt.Stringer.
func (t ResolvedType) String() string {
	s := t.Kind.String() + "(" + t.Elem + ")"
	if t.IsList() {
		s = "LIST<" + s + ">"
	}
	for _, a := range t.Adapters {
		s += "|" + a
	}
	return s
}

// An Adapter maps logical types to resolved types. TryResolve must be a
// pure function of its input: it either claims the type or declines it.
type Adapter interface {
	// Name identifies the adapter.
	Name() string
	// TryResolve claims t by returning true, or declines it.
	TryResolve(t load.TypeRef) (ResolvedType, bool)
}

// Resolver holds an ordered registry of adapters. The first adapter that
// claims a type wins, so specific adapters must be registered ahead of
// generic ones.
type Resolver struct {
	adapters []Adapter
}

// NewResolver returns a resolver consulting the adapters in the given order.
func NewResolver(adapters ...Adapter) *Resolver {
	return &Resolver{adapters: slices.Clone(adapters)}
}

// Register appends an adapter with the lowest priority.
func (r *Resolver) Register(a Adapter) {
	r.adapters = append(r.adapters, a)
}

// Prepend inserts adapters ahead of all registered ones, keeping their
// relative order.
func (r *Resolver) Prepend(a ...Adapter) {
	r.adapters = append(slices.Clone(a), r.adapters...)
}

// Adapters returns the adapter names in consultation order.
func (r *Resolver) Adapters() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.Name()
	}
	return names
}

// Resolve returns the resolved type of t. A type no adapter claims is a
// KindUnsupportedType schema error without a site; the analyzer attaches
// the declaration site.
func (r *Resolver) Resolve(t load.TypeRef) (ResolvedType, error) {
	for _, a := range r.adapters {
		rt, ok := a.TryResolve(t)
		if !ok {
			continue
		}
		if !rt.Kind.Valid() || !rt.Shape.Valid() || rt.Shape != t.Shape {
			return ResolvedType{}, NewInternalError("resolve", fmt.Sprintf("adapter %q resolved %s to malformed type %s", a.Name(), t, rt), nil)
		}
		return rt, nil
	}
	return ResolvedType{}, &SchemaError{Kind: KindUnsupportedType, Message: "no adapter claims type " + t.String()}
}

// AdapterFunc is a named function adapter.
type AdapterFunc struct {
	name string
	fn   func(load.TypeRef) (ResolvedType, bool)
}

// NewAdapterFunc returns an Adapter calling fn.
func NewAdapterFunc(name string, fn func(load.TypeRef) (ResolvedType, bool)) *AdapterFunc {
	return &AdapterFunc{name: name, fn: fn}
}

// Name implements Adapter.
func (a *AdapterFunc) Name() string { return a.name }

// TryResolve implements Adapter.
func (a *AdapterFunc) TryResolve(t load.TypeRef) (ResolvedType, bool) { return a.fn(t) }

// scalar returns an adapter claiming scalar types by their qualified name.
func scalar(name string, kind field.Kind, chain []string, types ...string) Adapter {
	return NewAdapterFunc(name, func(t load.TypeRef) (ResolvedType, bool) {
		if t.Shape != field.Scalar || !slices.Contains(types, t.Qualified()) {
			return ResolvedType{}, false
		}
		return ResolvedType{Kind: kind, Elem: t.Qualified(), Shape: field.Scalar, Adapters: slices.Clone(chain)}, true
	})
}

// EntityAdapter claims references to known entities, scalar or list.
type EntityAdapter struct {
	entities map[string]bool
}

// NewEntityAdapter returns an adapter for the given entity identities.
func NewEntityAdapter(idents ...string) *EntityAdapter {
	a := &EntityAdapter{entities: make(map[string]bool, len(idents))}
	for _, id := range idents {
		a.entities[id] = true
	}
	return a
}

// Name implements Adapter.
func (*EntityAdapter) Name() string { return "entity" }

// TryResolve implements Adapter.
func (a *EntityAdapter) TryResolve(t load.TypeRef) (ResolvedType, bool) {
	id := t.Qualified()
	if !a.entities[id] {
		return ResolvedType{}, false
	}
	return ResolvedType{Kind: field.Entity, Elem: id, Shape: t.Shape, Ref: id}, true
}

// ListAdapter is the generic fallback for lists of scalars. It resolves
// the element through its owning resolver and stores the list as a BLOB.
type ListAdapter struct {
	elem *Resolver
}

// NewListAdapter returns a list adapter resolving elements with elem.
// Usually elem is the resolver the adapter is registered with, so custom
// scalar adapters also apply to list elements.
func NewListAdapter(elem *Resolver) *ListAdapter {
	return &ListAdapter{elem: elem}
}

// Name implements Adapter.
func (*ListAdapter) Name() string { return "list" }

// TryResolve implements Adapter.
func (a *ListAdapter) TryResolve(t load.TypeRef) (ResolvedType, bool) {
	if t.Shape != field.List {
		return ResolvedType{}, false
	}
	et, err := a.elem.Resolve(t.Elem())
	if err != nil || et.IsEntity() {
		return ResolvedType{}, false
	}
	return ResolvedType{
		Kind:     field.Blob,
		Elem:     et.Elem,
		Shape:    field.List,
		Adapters: append(slices.Clone(et.Adapters), "list"),
	}, true
}

// ScalarAdapters returns the built-in scalar adapters in their documented
// order.
func ScalarAdapters() []Adapter {
	return []Adapter{
		scalar("int64", field.Integer64, nil,
			"int", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32"),
		scalar("text", field.Text, nil, "string"),
		scalar("bool", field.Boolean, nil, "bool"),
		scalar("real", field.Real, nil, "float32", "float64"),
		scalar("blob", field.Blob, nil, "[]byte"),
		scalar("time", field.Integer64, []string{"time"}, "time.Time"),
		scalar("uuid", field.Blob, []string{"uuid"}, "github.com/google/uuid.UUID"),
	}
}

// NewDefaultResolver returns a resolver holding the built-in chain:
// entity references first, then scalars, then the generic list fallback.
// Adapters prepended later take precedence over all of them.
func NewDefaultResolver(entities ...string) *Resolver {
	r := NewResolver(NewEntityAdapter(entities...))
	for _, a := range ScalarAdapters() {
		r.Register(a)
	}
	r.Register(NewListAdapter(r))
	return r
}
