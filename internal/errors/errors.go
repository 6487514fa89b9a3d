package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a kernel/reference result mismatch.
	ExitErrorConfig   = 4   // Indicates a configuration or input error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// EvaluationError wraps a failure raised while evaluating a kernel request,
// keeping the operation name next to the original cause.
type EvaluationError struct {
	// Op is the host-facing operation name.
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns the cause message prefixed with the operation name.
func (e EvaluationError) Error() string {
	if e.Op == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the original cause.
func (e EvaluationError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation that exceeded its time budget.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure at a host boundary.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// LimitError reports an argument that is valid for a kernel but exceeds the
// resource guard configured by a host.
type LimitError struct {
	// Op is the operation whose guard was hit.
	Op string
	// Value is the rejected argument.
	Value uint64
	// Max is the configured ceiling.
	Max uint64
}

// Error returns a formatted message describing the exceeded limit.
func (e LimitError) Error() string {
	return fmt.Sprintf("%s: argument %d exceeds limit %d", e.Op, e.Value, e.Max)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsValidationError reports whether err carries a ValidationError or a
// LimitError anywhere in its chain.
func IsValidationError(err error) bool {
	var ve ValidationError
	var le LimitError
	return errors.As(err, &ve) || errors.As(err, &le)
}
