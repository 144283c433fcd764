package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrTokenExpired    = errors.New("verification token expired")
	ErrTokenInvalid    = errors.New("verification token invalid")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// NonFieldErrors is the key under which object-level messages are reported.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field and object-level validation messages.
type ValidationError struct {
	Fields   map[string][]string
	conflict bool
}

// NewValidationError creates an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// NewNonFieldError creates a ValidationError with a single object-level message.
func NewNonFieldError(msg string) *ValidationError {
	e := NewValidationError()
	e.Add(NonFieldErrors, msg)
	return e
}

// Add appends a message for the field.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// AddConflict appends a uniqueness message for the field.
func (e *ValidationError) AddConflict(field, msg string) {
	e.Add(field, msg)
	e.conflict = true
}

// Has reports whether any message was recorded for the field.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrAlreadyExists for uniqueness failures.
func (e *ValidationError) Unwrap() error {
	if e.conflict {
		return ErrAlreadyExists
	}
	return nil
}

// UniqueViolationError reports which unique column rejected a write.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return "duplicate value for " + e.Field
}

func (e *UniqueViolationError) Unwrap() error {
	return ErrAlreadyExists
}
