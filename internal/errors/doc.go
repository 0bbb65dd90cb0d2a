// Package apperrors defines the structured error types of matcalc, separating
// user configuration mistakes, rejected engine inputs, pool budget exhaustion
// and failed multiplications, while carrying the underlying cause.
//
// Error Wrapping Guidelines:
// Errors are wrapped with fmt.Errorf and %w. Every type that carries a cause
// implements Unwrap so errors.Is and errors.As see through it.
package apperrors
