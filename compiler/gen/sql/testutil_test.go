package sql

import (
	"bytes"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

const modelPkg = "example.com/app/model"

var (
	tInt64  = load.TypeRef{Name: "int64"}
	tString = load.TypeRef{Name: "string"}
	tBool   = load.TypeRef{Name: "bool"}
	tBytes  = load.TypeRef{Name: "[]byte"}
	tTime   = load.TypeRef{Name: "Time", PkgPath: "time"}
	tUUID   = load.TypeRef{Name: "UUID", PkgPath: "github.com/google/uuid"}
	tAmount = load.TypeRef{Name: "Amount", PkgPath: "example.com/money"}
)

func list(t load.TypeRef) load.TypeRef {
	t.Shape = field.List
	return t
}

func ref(name string) load.TypeRef {
	return load.TypeRef{Name: name, PkgPath: modelPkg}
}

func get(name string, t load.TypeRef) *load.Method {
	return &load.Method{Name: name, Results: []load.TypeRef{t}}
}

func set(name string, t load.TypeRef) *load.Method {
	return &load.Method{Name: name, Params: []load.TypeRef{t}}
}

func idPair() []*load.Method {
	return []*load.Method{
		{Name: "GetID", Results: []load.TypeRef{tInt64}, Tags: map[string]string{load.DirectiveID: ""}},
		set("SetID", tInt64),
	}
}

func entity(name string, methods ...*load.Method) *load.Entity {
	e := &load.Entity{
		Name:    name,
		PkgPath: modelPkg,
		PkgName: "model",
		Version: schema.Unversioned(),
		Methods: methods,
		Pos:     load.Pos{Filename: "model.go", Line: 10},
	}
	for i, m := range methods {
		m.Pos = load.Pos{Filename: "model.go", Line: 11 + i, Column: 2}
	}
	return e
}

func database(name, typeName string, version int, entities ...string) *load.Collection {
	return &load.Collection{
		Name:     name,
		TypeName: typeName,
		PkgPath:  modelPkg,
		Version:  version,
		Entities: entities,
		Pos:      load.Pos{Filename: "model.go", Line: 1},
	}
}

// blog declares users and posts referencing each other, grouped in the
// blog database.
func blog() *load.Declarations {
	user := entity("User", append(idPair(),
		get("GetName", tString), set("SetName", tString),
		get("IsActive", tBool), set("SetActive", tBool),
		get("GetPosts", list(ref("Post"))), set("SetPosts", list(ref("Post"))),
		get("GetCreatedAt", tTime), set("SetCreatedAt", tTime),
	)...)
	user.Table = "users"
	user.Version = schema.Version{Added: 1, Removed: schema.NoVersion}
	post := entity("Post", append(idPair(),
		get("GetAuthor", ref("User")), set("SetAuthor", ref("User")),
		get("GetTags", list(tString)), set("SetTags", list(tString)),
		get("GetToken", tUUID), set("SetToken", tUUID),
		get("GetBody", tBytes), set("SetBody", tBytes),
	)...)
	return &load.Declarations{
		Entities:    []*load.Entity{user, post},
		Collections: []*load.Collection{database("blog", "Blog", 2, "User", "Post")},
	}
}

func newGraph(t testing.TB, decls *load.Declarations, opts ...gen.Option) *gen.Graph {
	t.Helper()
	cfg, err := gen.NewConfig(append([]gen.Option{gen.WithPackage("example.com/app/orm")}, opts...)...)
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, decls)
	require.NoError(t, err)
	return g
}

func node(t testing.TB, g *gen.Graph, name string) *gen.EntitySchema {
	t.Helper()
	s, ok := g.Lookup(modelPkg + "." + name)
	require.True(t, ok, "entity %s", name)
	return s
}

// render formats f the way the sinks write it.
func render(t testing.TB, f *jen.File) string {
	t.Helper()
	require.NotNil(t, f)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}
