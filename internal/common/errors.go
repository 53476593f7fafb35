// Package common defines shared constants, sentinel errors and the
// validation error type used across the server layers. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Auth errors. Both collapse several causes into one outward signal:
	// unknown user and wrong password are ErrInvalidCredentials; missing,
	// malformed, expired and forged tokens are ErrUnauthenticated.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// FieldError describes one rejected field of a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a malformed payload. Unlike auth failures its
// details are safe to return to the client.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns an empty ValidationError; use Add to collect
// field problems and Err to obtain a nil error when nothing was added.
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Add records a problem with field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns e when at least one field was rejected, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}
