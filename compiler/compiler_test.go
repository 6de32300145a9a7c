package compiler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/simpleorm/compiler/gen"
)

const validPkg = "github.com/syssam/simpleorm/compiler/load/testdata/valid"

type countingSink struct {
	emitted atomic.Int32
}

func (s *countingSink) Emit(context.Context, *gen.Unit) error {
	s.emitted.Add(1)
	return nil
}

func newConfig(t *testing.T, opts ...gen.Option) *gen.Config {
	cfg, err := gen.NewConfig(append([]gen.Option{gen.WithPackage("example.com/blog/orm")}, opts...)...)
	require.NoError(t, err)
	return cfg
}

func TestLoadGraph(t *testing.T) {
	g, err := LoadGraph([]string{"./load/testdata/valid"}, newConfig(t))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "User", g.Nodes[0].Name)
	assert.Equal(t, "Post", g.Nodes[1].Name)
	require.Len(t, g.Collections, 1)
	assert.Equal(t, "blog", g.Collections[0].Name)

	author, ok := g.Nodes[1].Column("Author")
	require.True(t, ok)
	assert.Same(t, g.Nodes[0], g.Nodes[1].RefSchema(author))
}

func TestLoadGraph_BuildFlags(t *testing.T) {
	g, err := LoadGraph([]string{"."}, newConfig(t), Dir("./load/testdata/buildflags"))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)

	g, err = LoadGraph([]string{"."}, newConfig(t), Dir("./load/testdata/buildflags"), BuildFlags("-tags=withgroups"))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
}

func TestGenerateTo(t *testing.T) {
	sink := gen.NewMemorySink()
	cfg := newConfig(t, gen.WithFeatures(gen.FeatureMigrate, gen.FeatureSnapshot))
	require.NoError(t, GenerateTo(context.Background(), []string{"./load/testdata/valid"}, cfg, sink))
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
}

func TestGenerateTo_FailFast(t *testing.T) {
	sink := &countingSink{}
	err := GenerateTo(context.Background(), []string{"./testdata/invalid"}, newConfig(t), sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, gen.ErrGetterWithParameters)
	var serr *gen.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Order", serr.Entity)
	assert.Equal(t, "GetTotal", serr.Member)
	assert.Zero(t, sink.emitted.Load())
}

func TestGenerateTo_LoadError(t *testing.T) {
	sink := &countingSink{}
	err := GenerateTo(context.Background(), []string{"./load/testdata/failure"}, newConfig(t), sink)
	require.Error(t, err)
	assert.False(t, gen.IsSchemaError(err))
	assert.Zero(t, sink.emitted.Load())
}

func TestGenerate_MissingTarget(t *testing.T) {
	err := Generate(context.Background(), []string{validPkg}, newConfig(t))
	assert.True(t, gen.IsConfigError(err))
}
