package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes returned to the operating system.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the run hit its deadline.
	ExitErrorMismatch = 3   // Indicates the algorithms produced different matrices.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as an invalid flag
// value. The application cannot proceed until the input is corrected.
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

// MultiplicationError wraps the failure of one multiplication algorithm
// while preserving the original cause.
type MultiplicationError struct {
	// Algorithm is the registry name of the algorithm that failed.
	Algorithm string
	// Cause is the underlying error.
	Cause error
}

// Error returns the algorithm name followed by the cause message.
func (e MultiplicationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Algorithm, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e MultiplicationError) Unwrap() error { return e.Cause }

// TimeoutError represents a run that exceeded its deadline.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was abandoned.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input rejected by an engine entry point,
// such as a matrix size that is not a power of two.
type ValidationError struct {
	// Field is the name of the rejected input.
	Field string
	// Message explains why it was rejected.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(field, format string, a ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// MemoryError reports that an allocation would exceed a memory budget, either
// the matrix pool limit or the memory available on the host.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes still available under the limit.
	Available uint64
	// Limit is the configured budget in bytes.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// MismatchError reports the first element where two product matrices differ.
type MismatchError struct {
	Row, Col    int
	Want, Got   int64
	Left, Right string
}

// Error returns a formatted message naming both algorithms and the element.
func (e MismatchError) Error() string {
	return fmt.Sprintf("%s and %s differ at (%d,%d): %d != %d", e.Left, e.Right, e.Row, e.Col, e.Want, e.Got)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil when err is nil.
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
