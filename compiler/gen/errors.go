package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/simpleorm/compiler/load"
)

// Sentinel errors for the error categories.
var (
	// ErrInvalidSchema matches every structural error found during analysis.
	ErrInvalidSchema = errors.New("simpleorm: invalid schema")
	// ErrSynthesis matches every structural error found during synthesis.
	ErrSynthesis = errors.New("simpleorm: synthesis failed")
	// ErrInternal matches faults of the generator itself.
	ErrInternal = errors.New("simpleorm: internal error")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("simpleorm: missing configuration")
	// ErrEmit indicates that a unit could not be written.
	ErrEmit = errors.New("simpleorm: emit failed")
)

// ErrorKind classifies structural errors.
type ErrorKind int

// Structural error kinds.
const (
	KindInvalidMethodName ErrorKind = iota + 1
	KindGetterWithParameters
	KindSetterWithoutParameters
	KindReturnMismatch
	KindMultipleGetter
	KindMultipleSetter
	KindInconsistentGetterSetterType
	KindMultipleIDColumns
	KindInvalidIDColumn
	KindMissingAccessor
	KindUnsupportedType
	KindInconsistentVersion
	KindUnknownEntity
	KindDuplicateFieldConstant
	KindEmptyCollection
)

// Sentinels of the error kinds, for use with errors.Is.
var (
	ErrInvalidMethodName            = errors.New("invalid method name")
	ErrGetterWithParameters         = errors.New("getter with parameters")
	ErrSetterWithoutParameters      = errors.New("setter without parameters")
	ErrReturnMismatch               = errors.New("accessor return mismatch")
	ErrMultipleGetter               = errors.New("multiple getters")
	ErrMultipleSetter               = errors.New("multiple setters")
	ErrInconsistentGetterSetterType = errors.New("inconsistent getter/setter type")
	ErrMultipleIDColumns            = errors.New("multiple id columns")
	ErrInvalidIDColumn              = errors.New("invalid id column")
	ErrMissingAccessor              = errors.New("missing accessor")
	ErrUnsupportedType              = errors.New("unsupported type")
	ErrInconsistentVersion          = errors.New("inconsistent version")
	ErrUnknownEntity                = errors.New("unknown entity")
	ErrDuplicateFieldConstant       = errors.New("duplicate field constant")
	ErrEmptyCollection              = errors.New("empty collection")
)

var kindSentinels = [...]error{
	KindInvalidMethodName:            ErrInvalidMethodName,
	KindGetterWithParameters:         ErrGetterWithParameters,
	KindSetterWithoutParameters:      ErrSetterWithoutParameters,
	KindReturnMismatch:               ErrReturnMismatch,
	KindMultipleGetter:               ErrMultipleGetter,
	KindMultipleSetter:               ErrMultipleSetter,
	KindInconsistentGetterSetterType: ErrInconsistentGetterSetterType,
	KindMultipleIDColumns:            ErrMultipleIDColumns,
	KindInvalidIDColumn:              ErrInvalidIDColumn,
	KindMissingAccessor:              ErrMissingAccessor,
	KindUnsupportedType:              ErrUnsupportedType,
	KindInconsistentVersion:          ErrInconsistentVersion,
	KindUnknownEntity:                ErrUnknownEntity,
	KindDuplicateFieldConstant:       ErrDuplicateFieldConstant,
	KindEmptyCollection:              ErrEmptyCollection,
}

// Sentinel returns the sentinel error of the kind.
func (k ErrorKind) Sentinel() error {
	if k > 0 && int(k) < len(kindSentinels) {
		return kindSentinels[k]
	}
	return nil
}

// String returns the human readable name of the kind.
func (k ErrorKind) String() string {
	if err := k.Sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SchemaError is a structural error found while analyzing an entity. It
// points at the declaration that caused it.
type SchemaError struct {
	Kind     ErrorKind
	Entity   string   // Entity name
	Member   string   // Method name (if applicable)
	Pos      load.Pos // Declaration site
	Expected string
	Found    string
	Message  string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("simpleorm: ")
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Entity != "" {
		b.WriteString(": entity ")
		b.WriteString(e.Entity)
	}
	if e.Member != "" {
		b.WriteString(", member ")
		b.WriteString(e.Member)
	}
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, " (%s)", e.Pos)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&b, ": expected %s, found %s", e.Expected, e.Found)
	}
	return b.String()
}

// Is reports whether the target matches ErrInvalidSchema or the sentinel
// of the error kind.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema || target == e.Kind.Sentinel()
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(kind ErrorKind, entity, member string, pos load.Pos, message string) *SchemaError {
	return &SchemaError{
		Kind:    kind,
		Entity:  entity,
		Member:  member,
		Pos:     pos,
		Message: message,
	}
}

// mismatch sets the expected and found values of the error.
func (e *SchemaError) mismatch(expected, found string) *SchemaError {
	e.Expected, e.Found = expected, found
	return e
}

// IsSchemaError returns true if the error is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// SynthesisError is a structural error found while building units from
// sealed schemas.
type SynthesisError struct {
	Kind    ErrorKind
	Unit    string   // Unit being synthesized
	Pos     load.Pos // Declaration site
	Other   load.Pos // Conflicting declaration site (if applicable)
	Message string
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	var b strings.Builder
	b.WriteString("simpleorm: ")
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Unit != "" {
		b.WriteString(": unit ")
		b.WriteString(e.Unit)
	}
	if e.Pos.IsValid() {
		fmt.Fprintf(&b, " (%s)", e.Pos)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Other.IsValid() {
		fmt.Fprintf(&b, " (conflicts with %s)", e.Other)
	}
	return b.String()
}

// Is reports whether the target matches ErrSynthesis or the sentinel of
// the error kind.
func (e *SynthesisError) Is(target error) bool {
	return target == ErrSynthesis || target == e.Kind.Sentinel()
}

// NewSynthesisError creates a new SynthesisError.
func NewSynthesisError(kind ErrorKind, unit string, pos load.Pos, message string) *SynthesisError {
	return &SynthesisError{
		Kind:    kind,
		Unit:    unit,
		Pos:     pos,
		Message: message,
	}
}

// IsSynthesisError returns true if the error is a SynthesisError.
func IsSynthesisError(err error) bool {
	var e *SynthesisError
	return errors.As(err, &e)
}

// InternalError is a fault of the generator, as opposed to an error in the
// input declarations.
type InternalError struct {
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	var b strings.Builder
	b.WriteString("simpleorm: internal error")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInternal.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// NewInternalError creates a new InternalError.
func NewInternalError(op, message string, cause error) *InternalError {
	return &InternalError{Op: op, Message: message, Cause: cause}
}

// IsInternalError returns true if the error is an InternalError.
func IsInternalError(err error) bool {
	var e *InternalError
	return errors.As(err, &e)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("simpleorm: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("simpleorm: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// EmitError is returned when the sink fails to persist a unit.
type EmitError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *EmitError) Error() string {
	return fmt.Sprintf("simpleorm: emit %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *EmitError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrEmit.
func (e *EmitError) Is(target error) bool {
	return target == ErrEmit
}
