package field

import "fmt"

// Kind is the storage representation of a column.
type Kind uint8

// List of storage kinds.
const (
	Invalid Kind = iota
	Integer64
	Text
	Boolean
	Real
	Blob
	Entity
	endKinds
)

var kindNames = [...]string{
	Invalid:   "INVALID",
	Integer64: "INTEGER64",
	Text:      "TEXT",
	Boolean:   "BOOLEAN",
	Real:      "REAL",
	Blob:      "BLOB",
	Entity:    "ENTITY",
}

// String returns the upper-case name of the kind.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports if the kind is one of the known storage kinds.
func (k Kind) Valid() bool { return k > Invalid && k < endKinds }

// ParseKind returns the kind for the given name. Names are the ones
// returned by String.
func ParseKind(s string) (Kind, error) {
	for k := Integer64; k < endKinds; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("field: unknown storage kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("field: cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Shape is the container shape of a logical type.
type Shape uint8

// Supported shapes. Only a single level of nesting is modeled.
const (
	Scalar Shape = iota
	List
)

// String returns the upper-case name of the shape.
func (s Shape) String() string {
	switch s {
	case Scalar:
		return "SCALAR"
	case List:
		return "LIST"
	default:
		return fmt.Sprintf("Shape(%d)", s)
	}
}

// Valid reports if s is a known shape.
func (s Shape) Valid() bool { return s == Scalar || s == List }

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("field: cannot marshal %s", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	switch string(text) {
	case "SCALAR", "":
		*s = Scalar
	case "LIST":
		*s = List
	default:
		return fmt.Errorf("field: unknown shape %q", text)
	}
	return nil
}
