package gen

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/schema/field"
)

// TypeEnv is the environment of an ExprAdapter predicate.
type TypeEnv struct {
	Name    string // Nominal type name, e.g. "Amount"
	PkgPath string // Package path, empty for predeclared types
	List    bool   // Whether the type is a list
	Type    string // Printed type, e.g. "[]example.com/money.Amount"
}

// ExprAdapter claims the types matching a boolean expr-lang predicate,
// such as:
//
//	PkgPath == "example.com/money" && Name == "Amount" && !List
type ExprAdapter struct {
	name    string
	match   string
	program *vm.Program
	kind    field.Kind
	chain   []string
}

// NewExprAdapter compiles the predicate of a config-declared adapter.
func NewExprAdapter(name, match string, kind field.Kind, chain ...string) (*ExprAdapter, error) {
	if name == "" {
		return nil, NewConfigError("Adapters", nil, "adapter name cannot be empty")
	}
	if !kind.Valid() || kind == field.Entity {
		return nil, NewConfigError("Adapters", kind, fmt.Sprintf("adapter %q: unsupported storage kind", name))
	}
	program, err := expr.Compile(match, expr.Env(TypeEnv{}), expr.AsBool())
	if err != nil {
		return nil, NewConfigError("Adapters", match, fmt.Sprintf("adapter %q: %v", name, err))
	}
	return &ExprAdapter{
		name:    name,
		match:   match,
		program: program,
		kind:    kind,
		chain:   slices.Clone(chain),
	}, nil
}

// Name implements Adapter.
func (a *ExprAdapter) Name() string { return a.name }

// Match returns the source of the predicate.
func (a *ExprAdapter) Match() string { return a.match }

// TryResolve implements Adapter.
func (a *ExprAdapter) TryResolve(t load.TypeRef) (ResolvedType, bool) {
	out, err := expr.Run(a.program, TypeEnv{
		Name:    t.Name,
		PkgPath: t.PkgPath,
		List:    t.Shape == field.List,
		Type:    t.String(),
	})
	if err != nil {
		return ResolvedType{}, false
	}
	if ok, _ := out.(bool); !ok {
		return ResolvedType{}, false
	}
	return ResolvedType{
		Kind:     a.kind,
		Elem:     t.Qualified(),
		Shape:    t.Shape,
		Adapters: slices.Clone(a.chain),
	}, true
}

// NewExprAdapterSpec compiles an adapter declared in the configuration
// file.
func NewExprAdapterSpec(s AdapterSpec) (*ExprAdapter, error) {
	kind, err := field.ParseKind(s.Kind)
	if err != nil {
		return nil, NewConfigError("Adapters", s.Kind, fmt.Sprintf("adapter %q: %v", s.Name, err))
	}
	return NewExprAdapter(s.Name, s.Match, kind, s.Chain...)
}
