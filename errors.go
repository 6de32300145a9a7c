package simpleorm

import (
	"errors"
	"fmt"
)

// Standard sentinel errors of the runtime package.
var (
	// ErrNotFound is returned when a table or column lookup fails.
	ErrNotFound = errors.New("simpleorm: not found")

	// ErrUnknownAdapter is returned when an adapter chain names an adapter
	// that was never registered.
	ErrUnknownAdapter = errors.New("simpleorm: unknown adapter")

	// ErrStorageType is returned when an adapter receives a value of an
	// unexpected Go type.
	ErrStorageType = errors.New("simpleorm: unexpected value type")
)

// NotFoundError represents an error when a descriptor lookup fails.
type NotFoundError struct {
	label string
	name  string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("simpleorm: %s %q not found", e.label, e.name)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the kind of the descriptor that was searched for.
func (e *NotFoundError) Label() string {
	return e.label
}

// Name returns the name that was searched for.
func (e *NotFoundError) Name() string {
	return e.name
}

// NewNotFoundError returns a new NotFoundError for the given descriptor kind.
func NewNotFoundError(label, name string) *NotFoundError {
	return &NotFoundError{label: label, name: name}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// AdapterError wraps a failure of a storage adapter.
type AdapterError struct {
	Adapter string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *AdapterError) Error() string {
	return fmt.Sprintf("simpleorm: adapter %s: %s: %v", e.Adapter, e.Op, e.Err)
}

// Unwrap implements the errors.Wrapper interface.
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// IsAdapterError returns true if the error is an AdapterError.
func IsAdapterError(err error) bool {
	if err == nil {
		return false
	}
	var e *AdapterError
	return errors.As(err, &e)
}
