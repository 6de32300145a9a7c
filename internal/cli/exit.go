package cli

import (
	"errors"
	"strings"

	"github.com/syssam/simpleorm/compiler/gen"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitPanic        = 3
	ExitConfigError  = 10
	ExitSchemaError  = 11
	ExitEmitError    = 12
)

// usagePatterns are the prefixes of the errors cobra returns for bad
// arguments or flags.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the exit code of the process for err.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, gen.ErrMissingConfig):
		return ExitConfigError
	case errors.Is(err, gen.ErrInvalidSchema), errors.Is(err, gen.ErrSynthesis):
		return ExitSchemaError
	case errors.Is(err, gen.ErrEmit):
		return ExitEmitError
	case errors.Is(err, gen.ErrInternal):
		return ExitPanic
	}
	msg := err.Error()
	for _, p := range usagePatterns {
		if strings.HasPrefix(msg, p) {
			return ExitUsageError
		}
	}
	return ExitGeneralError
}
