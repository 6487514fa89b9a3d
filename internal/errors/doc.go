// Package apperrors defines structured application error types, allowing for
// a clear distinction between error classes (configuration, validation at a
// host boundary, evaluation, timeouts) and for carrying the underlying cause.
//
// The kernels themselves never fail; every error in this package originates
// at a boundary (argument parsing, resource guards, cancellation).
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
