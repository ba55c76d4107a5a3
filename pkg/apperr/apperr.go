package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy. Services return these (wrapped
// with context via fmt.Errorf %w); handlers map them to HTTP status codes.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInvariant = errors.New("computation invariant violated")
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in one pass so the
// caller can surface all of them at once. Warnings do not block computation.
type ValidationError struct {
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NotFound wraps ErrNotFound with the entity name.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Conflict wraps ErrConflict with a reason.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// Invariant wraps ErrInvariant. These indicate defects (bad bracket
// configuration, negative taxable income after clamping), never user input.
func Invariant(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvariant)...)
}

// IsValidation reports whether err is (or wraps) a ValidationError and
// returns it when so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
