package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureBuilder generates a fluent builder per entity.
	FeatureBuilder = Feature{
		Name:        "builder",
		Stage:       Stable,
		Default:     true,
		Description: "Builder generates a fluent builder with an identifier sequence for every entity",
	}

	// FeatureFields generates the field-name constants of all tables.
	FeatureFields = Feature{
		Name:        "fields",
		Stage:       Stable,
		Default:     true,
		Description: "Fields generates one string constant per table column",
	}

	// FeatureFactory generates a factory per declared database.
	FeatureFactory = Feature{
		Name:        "factory",
		Stage:       Stable,
		Default:     true,
		Description: "Factory generates a database descriptor and builder factory per declared database",
	}

	// FeatureMigrate provides a feature-flag for the DDL of every declared
	// database.
	FeatureMigrate = Feature{
		Name:        "sql/migrate",
		Stage:       Beta,
		Default:     false,
		Description: "Migrate renders the CREATE TABLE statements of every database in the configured dialect",
		cleanup: func(c *Config) error {
			return os.RemoveAll(filepath.Join(c.Target, "migrate"))
		},
	}

	// FeatureSnapshot stores a snapshot of the analyzed schema.
	FeatureSnapshot = Feature{
		Name:        "schema/snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Schema snapshot stores a YAML snapshot of the analyzed entities and databases",
		cleanup: func(c *Config) error {
			return remove(filepath.Join(c.Target, "internal"), snapshotFile)
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureBuilder,
		FeatureFields,
		FeatureFactory,
		FeatureMigrate,
		FeatureSnapshot,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished,
	// but we expect breaking-changes to their output.
	Alpha

	// Beta features are Alpha features whose output is not expected to
	// change in breaking ways.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String implements fmt.Stringer.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the simpleorm codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// FeaturesByName returns the features with the given names.
func FeaturesByName(names ...string) ([]Feature, error) {
	features := make([]Feature, 0, len(names))
	for _, name := range names {
		found := false
		for _, f := range AllFeatures {
			if f.Name == name {
				features = append(features, f)
				found = true
				break
			}
		}
		if !found {
			return nil, NewConfigError("Features", name, "unknown feature name")
		}
	}
	return features, nil
}

// cleanup removes the artifacts of disabled features from previous runs.
func (c *Config) cleanup() error {
	for _, f := range AllFeatures {
		if f.cleanup == nil || c.featureEnabled(f) {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return err
		}
	}
	return nil
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
