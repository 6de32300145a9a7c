package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm/compiler/load"
	"github.com/syssam/simpleorm/schema"
	"github.com/syssam/simpleorm/schema/field"
)

const (
	modelPkg  = "example.com/app/model"
	targetPkg = "example.com/app/orm"
)

// Logical types used by the fixtures.
var (
	tInt64  = load.TypeRef{Name: "int64"}
	tInt    = load.TypeRef{Name: "int"}
	tString = load.TypeRef{Name: "string"}
	tBool   = load.TypeRef{Name: "bool"}
	tFloat  = load.TypeRef{Name: "float64"}
	tBytes  = load.TypeRef{Name: "[]byte"}
	tTime   = load.TypeRef{Name: "Time", PkgPath: "time"}
	tUUID   = load.TypeRef{Name: "UUID", PkgPath: "github.com/google/uuid"}
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

func id(m *load.Method) *load.Method {
	m.Tags = map[string]string{load.DirectiveID: ""}
	return m
}

// idPair returns an identifier getter and setter.
func idPair() []*load.Method {
	return []*load.Method{id(get("GetID", tInt64)), set("SetID", tInt64)}
}

// entity declares an entity of the model package. Methods are assigned
// consecutive lines after the declaration.
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

func collection(name string, version int, entities ...string) *load.Collection {
	return &load.Collection{
		Name:     name,
		TypeName: pascal(name),
		PkgPath:  modelPkg,
		Version:  version,
		Entities: entities,
		Pos:      load.Pos{Filename: "model.go", Line: 1},
	}
}

func testConfig(t testing.TB, opts ...Option) *Config {
	t.Helper()
	c, err := NewConfig(append([]Option{WithPackage(targetPkg)}, opts...)...)
	require.NoError(t, err)
	return c
}

// blog declares a user and post pair referencing each other, grouped in
// the blog database.
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
		Collections: []*load.Collection{collection("blog", 2, "User", "Post")},
	}
}

func newGraph(t testing.TB, decls *load.Declarations, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(testConfig(t, opts...), decls)
	require.NoError(t, err)
	return g
}
