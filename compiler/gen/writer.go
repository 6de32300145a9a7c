package gen

import (
	"bytes"
	"context"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/tools/imports"

	"github.com/syssam/simpleorm/internal/logger"
)

// Renderer renders the source of a unit. *jen.File implements it.
type Renderer interface {
	Render(io.Writer) error
}

// Bytes is a Renderer of raw content, such as DDL or YAML.
type Bytes []byte

// Render implements Renderer.
func (b Bytes) Render(w io.Writer) error {
	_, err := w.Write(b)
	return err
}

// Unit is a fully synthesized artifact, ready for emission.
type Unit struct {
	// Namespace is the directory of the unit relative to the target,
	// empty for the generated package itself.
	Namespace string
	// Name is the file name of the unit.
	Name string
	// Source renders the unit content.
	Source Renderer
}

// Path returns the slash-separated path of the unit relative to the
// target.
func (u *Unit) Path() string {
	if u.Namespace == "" {
		return u.Name
	}
	return u.Namespace + "/" + u.Name
}

// IsGo reports if the unit holds Go source.
func (u *Unit) IsGo() bool { return strings.HasSuffix(u.Name, ".go") }

// A Sink persists units. Emit may be called concurrently.
type Sink interface {
	Emit(ctx context.Context, u *Unit) error
}

// FileSink writes units below a root directory. Go sources are passed
// through goimports. Each file is written to a temporary file first and
// renamed into place, so readers never observe partial files.
type FileSink struct {
	Root string
}

// NewFileSink returns a sink writing below root.
func NewFileSink(root string) *FileSink {
	return &FileSink{Root: root}
}

// Emit implements Sink.
func (s *FileSink) Emit(ctx context.Context, u *Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Root, filepath.FromSlash(u.Path()))
	var buf bytes.Buffer
	if err := u.Source.Render(&buf); err != nil {
		return &EmitError{Path: path, Cause: err}
	}
	out := buf.Bytes()
	if u.IsGo() {
		formatted, err := imports.Process(path, out, nil)
		if err != nil {
			return &EmitError{Path: path, Cause: err}
		}
		out = formatted
	}
	if err := writeFile(path, out); err != nil {
		return &EmitError{Path: path, Cause: err}
	}
	logger.Debugw("unit written", "path", path, "bytes", len(out))
	return nil
}

// writeFile atomically replaces path with content.
func writeFile(path string, content []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// MemorySink keeps rendered units in memory. It is used by tests and the
// describe command.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink returns an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// Emit implements Sink.
func (s *MemorySink) Emit(ctx context.Context, u *Unit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := u.Source.Render(&buf); err != nil {
		return &EmitError{Path: u.Path(), Cause: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[u.Path()] = buf.Bytes()
	return nil
}

// Paths returns the paths of the emitted units in lexical order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.files))
}

// File returns the content of the unit at path.
func (s *MemorySink) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	return b, ok
}
