package sql

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm/compiler/gen"
	"github.com/syssam/simpleorm/compiler/load"
)

func TestGenerateTo(t *testing.T) {
	g := newGraph(t, blog(), gen.WithFeatures(gen.FeatureMigrate, gen.FeatureSnapshot))
	sink := gen.NewMemorySink()
	require.NoError(t, GenerateTo(context.Background(), g, sink))

	assert.Equal(t, []string{
		"blog_database.go",
		"internal/schema.yaml",
		"migrate/blog.sql",
		"post.go",
		"post_builder.go",
		"simpleorm_fields.go",
		"user.go",
		"user_builder.go",
	}, sink.Paths())

	fset := token.NewFileSet()
	for _, path := range sink.Paths() {
		if !strings.HasSuffix(path, ".go") {
			continue
		}
		b, _ := sink.File(path)
		f, err := parser.ParseFile(fset, path, b, parser.ParseComments)
		require.NoError(t, err, path)
		assert.Equal(t, "orm", f.Name.Name, path)
		require.NotEmpty(t, f.Comments, path)
		assert.Equal(t, "// Code generated by simpleorm, DO NOT EDIT.", f.Comments[0].List[0].Text, path)
	}
}

func TestGenerateTo_Synthesis(t *testing.T) {
	decls := blog()
	decls.Collections = append(decls.Collections, database("empty", "Empty", 1))
	g := newGraph(t, decls)
	sink := gen.NewMemorySink()

	err := GenerateTo(context.Background(), g, sink)
	require.ErrorIs(t, err, gen.ErrEmptyCollection)
	assert.ErrorIs(t, err, gen.ErrSynthesis)
	assert.Empty(t, sink.Paths(), "nothing is emitted when a unit fails")
}

func TestGenerate(t *testing.T) {
	t.Run("MissingTarget", func(t *testing.T) {
		g := newGraph(t, blog())
		err := Generate(context.Background(), g)
		var cerr *gen.ConfigError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("Files", func(t *testing.T) {
		dir := t.TempDir()
		g := newGraph(t, blog(), gen.WithTarget(dir))
		require.NoError(t, Generate(context.Background(), g))
		for _, name := range []string{"user.go", "user_builder.go", "post.go", "post_builder.go", "simpleorm_fields.go", "blog_database.go"} {
			assert.FileExists(t, filepath.Join(dir, name))
		}
		assert.NoDirExists(t, filepath.Join(dir, "migrate"))

		b, err := os.ReadFile(filepath.Join(dir, "blog_database.go"))
		require.NoError(t, err)
		assert.Contains(t, string(b), `"github.com/syssam/simpleorm"`)
	})
}

func TestDialect(t *testing.T) {
	g := newGraph(t, &load.Declarations{Entities: []*load.Entity{entity("Tag", get("GetLabel", tString))}})
	d := NewDialect(gen.NewGenerator(g))
	assert.Equal(t, "sql", d.Name())

	f, err := d.GenFieldConstants()
	require.NoError(t, err)
	assert.Regexp(t, `TagsLabel\s+= "label"`, render(t, f))
	assert.Contains(t, render(t, d.GenEntity(g.Nodes[0])), "type Tag struct")
	assert.Contains(t, render(t, d.GenBuilder(g.Nodes[0])), "type TagBuilder struct")
}
