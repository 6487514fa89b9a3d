package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies terminal escape codes so that error reporting does
// not depend on the ui package.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor maps an error to the process exit code without printing.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case IsValidationError(err):
		return ExitErrorConfig
	}
	var ce ConfigError
	if errors.As(err, &ce) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleEvaluationError prints a user-facing message for err and returns the
// matching exit code. A nil error returns ExitSuccess and prints nothing.
func HandleEvaluationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The time limit was exceeded after %s.%s\n",
			colors.Red(), duration, colors.Reset())
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled by user.%s\n", colors.Yellow(), colors.Reset())
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sStatus: Invalid input. %v%s\n", colors.Red(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. An unexpected error occurred: %v%s\n",
			colors.Red(), err, colors.Reset())
	}
	return code
}
