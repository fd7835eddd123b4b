// Package apperrors defines structured application error types, allowing
// for a clear distinction between error classes (configuration, validation,
// job failure) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Error types carrying a cause implement Unwrap() so errors.Is() and errors.As() work.
package apperrors
