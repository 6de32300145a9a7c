package compiler

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/syssam/simpleorm/compiler/gen"
)

// roundtripMod is the go.mod of the scratch module the generated package
// is built in. The runtime is replaced by this checkout.
const roundtripMod = `module example.com/roundtrip

require github.com/syssam/simpleorm v0.0.0

replace github.com/syssam/simpleorm => %s
`

// scratchModule copies testdata/roundtrip into a new module and returns its
// directory. Fixture files ending in ".txt" are copied without the suffix.
// Dependencies resolve from the module cache only.
func scratchModule(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs("..")
	require.NoError(t, err)
	dir := t.TempDir()
	err = filepath.WalkDir("testdata/roundtrip", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel("testdata/roundtrip", path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, strings.TrimSuffix(rel, ".txt"))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, b, 0o644)
	})
	require.NoError(t, err)
	if sum, err := os.ReadFile(filepath.Join(root, "go.sum")); err == nil {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.sum"), sum, 0o644))
	}
	mod := strings.Replace(roundtripMod, "%s", filepath.ToSlash(root), 1)
	b, err := os.ReadFile(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	for _, line := range strings.Split(string(b), "\n") {
		if strings.HasPrefix(line, "go ") {
			mod += "\n" + line + "\n"
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(mod), 0o644))
	return dir
}

// TestGenerate_Roundtrip generates a package, type-checks it and runs the
// tests of the fixture against it.
func TestGenerate_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a scratch module")
	}
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not found")
	}
	dir := scratchModule(t)
	t.Setenv("GOFLAGS", "-mod=mod")
	t.Setenv("GOPROXY", "off")
	t.Setenv("GOSUMDB", "off")
	t.Setenv("GOWORK", "off")

	cfg, err := gen.NewConfig(
		gen.WithTarget(filepath.Join(dir, "orm")),
		gen.WithPackage("example.com/roundtrip/orm"),
	)
	require.NoError(t, err)
	require.NoError(t, Generate(context.Background(), []string{"./model"}, cfg, Dir(dir)))
	assert.FileExists(t, filepath.Join(dir, "orm", "author.go"))

	pkgs, err := packages.Load(&packages.Config{
		Dir:   dir,
		Mode:  packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Tests: true,
	}, "./orm")
	require.NoError(t, err)
	require.NotEmpty(t, pkgs)
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			t.Errorf("%s: %v", pkg.ID, e)
		}
	}

	cmd := exec.Command(gobin, "test", "-count=1", "./orm")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
