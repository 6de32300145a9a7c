package gen

import (
	"os"
	"path"
	"runtime"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config holds the global codegen configuration shared by all generated
// units.
type Config struct {
	// Target defines the filepath for the target directory that holds the
	// generated code.
	Target string

	// Package defines the Go package path of the target directory mentioned
	// above. For example, "github.com/org/project/model/orm". The generated
	// package must differ from every package declaring entities, since the
	// implementations reuse the entity names.
	Package string

	// Header allows users to provide an optional header signature for the
	// generated files. It defaults to the standard 'go generate' format:
	// '// Code generated by simpleorm, DO NOT EDIT.'.
	Header string

	// Features defines a list of additional features to add to the codegen
	// phase. For example, the migrate feature.
	Features []Feature

	// Storage configures the SQL dialect the migrate feature renders DDL
	// for. It defaults to SQLite.
	Storage *Storage

	// Workers bounds the number of units synthesized and emitted in
	// parallel. It defaults to GOMAXPROCS.
	Workers int

	// Adapters are consulted ahead of the built-in type adapters, in order.
	Adapters []Adapter
}

// defaultHeader is the header of generated files.
const defaultHeader = "// Code generated by simpleorm, DO NOT EDIT."

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	return path.Base(c.Package)
}

// HeaderComment returns the header of generated files.
func (c *Config) HeaderComment() string {
	if c.Header != "" {
		return c.Header
	}
	return defaultHeader
}

// FeatureEnabled reports if the given feature name is enabled. It returns
// an error for unknown feature names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	for _, f := range AllFeatures {
		if name == f.Name {
			return c.featureEnabled(f), nil
		}
	}
	return false, NewConfigError("Features", name, "unknown feature name")
}

func (c *Config) featureEnabled(f Feature) bool {
	return f.Default || slices.ContainsFunc(c.Features, func(e Feature) bool { return e.Name == f.Name })
}

// workers returns the configured parallelism.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// StorageDriver returns the configured storage, SQLite by default.
func (c *Config) StorageDriver() *Storage {
	if c.Storage != nil {
		return c.Storage
	}
	return drivers[0]
}

// check validates the settings every generation run needs.
func (c *Config) check() error {
	switch {
	case c.Package == "":
		return NewConfigError("Package", nil, "missing package path of the generated code")
	case c.Workers < 0:
		return NewConfigError("Workers", c.Workers, "workers must not be negative")
	}
	return nil
}

// FileConfig is the layout of the simpleorm.yaml configuration file.
type FileConfig struct {
	Target   string        `yaml:"target"`
	Package  string        `yaml:"package"`
	Header   string        `yaml:"header"`
	Dialect  string        `yaml:"dialect"`
	Features []string      `yaml:"features"`
	Workers  int           `yaml:"workers"`
	Adapters []AdapterSpec `yaml:"adapters"`
}

// AdapterSpec declares a type adapter in the configuration file. Match is
// an expression over the logical type, see TypeEnv.
type AdapterSpec struct {
	Name  string   `yaml:"name"`
	Match string   `yaml:"match"`
	Kind  string   `yaml:"kind"`
	Chain []string `yaml:"chain"`
}

// LoadConfigFile reads a configuration file.
func LoadConfigFile(name string) (*FileConfig, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, NewConfigError("File", name, err.Error())
	}
	fc := &FileConfig{}
	if err := yaml.Unmarshal(buf, fc); err != nil {
		return nil, NewConfigError("File", name, "invalid yaml: "+err.Error())
	}
	return fc, nil
}

// Options converts the non-zero settings of the file into options.
func (fc *FileConfig) Options() ([]Option, error) {
	var opts []Option
	if fc.Target != "" {
		opts = append(opts, WithTarget(fc.Target))
	}
	if fc.Package != "" {
		opts = append(opts, WithPackage(fc.Package))
	}
	if fc.Header != "" {
		opts = append(opts, WithHeader(fc.Header))
	}
	if fc.Dialect != "" {
		opts = append(opts, WithDialect(fc.Dialect))
	}
	if fc.Workers != 0 {
		opts = append(opts, WithWorkers(fc.Workers))
	}
	if len(fc.Features) > 0 {
		features, err := FeaturesByName(fc.Features...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFeatures(features...))
	}
	if len(fc.Adapters) > 0 {
		adapters := make([]Adapter, 0, len(fc.Adapters))
		for _, s := range fc.Adapters {
			a, err := NewExprAdapterSpec(s)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}
		opts = append(opts, WithAdapters(adapters...))
	}
	return opts, nil
}
