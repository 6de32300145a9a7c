package load

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a malformed declaration reported by the scanner.
type Error struct {
	Pos Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.Filename == "" && !e.Pos.IsValid() {
		return "simpleorm: load: " + e.Msg
	}
	return fmt.Sprintf("simpleorm: load: %s: %s", e.Pos, e.Msg)
}

// Errorf returns a new load error at the given position.
func Errorf(pos Pos, format string, args ...any) error {
	return errors.WithStack(&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// IsError reports if err is, or wraps, a load error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
