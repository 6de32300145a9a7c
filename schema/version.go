package schema

import "fmt"

// NoVersion marks an absent version tag.
const NoVersion = -1

// Version holds the version tags of an entity.
type Version struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
}

// Unversioned returns a Version with both tags absent.
func Unversioned() Version {
	return Version{Added: NoVersion, Removed: NoVersion}
}

// HasAdded reports if the added tag is present.
func (v Version) HasAdded() bool { return v.Added != NoVersion }

// HasRemoved reports if the removed tag is present.
func (v Version) HasRemoved() bool { return v.Removed != NoVersion }

// Validate checks that an entity is not removed before it was added.
func (v Version) Validate() error {
	if v.Added < NoVersion || v.Removed < NoVersion {
		return fmt.Errorf("negative version (added=%d, removed=%d)", v.Added, v.Removed)
	}
	if v.HasAdded() && v.HasRemoved() && v.Added > v.Removed {
		return fmt.Errorf("added in version %d but removed in version %d", v.Added, v.Removed)
	}
	return nil
}

// Live reports if the entity exists in the given database version.
func (v Version) Live(version int) bool {
	if v.HasAdded() && version < v.Added {
		return false
	}
	return !v.HasRemoved() || version < v.Removed
}

// String implements fmt.Stringer.
func (v Version) String() string {
	format := func(n int) string {
		if n == NoVersion {
			return "none"
		}
		return fmt.Sprint(n)
	}
	return fmt.Sprintf("added=%s removed=%s", format(v.Added), format(v.Removed))
}
