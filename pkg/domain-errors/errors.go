// Package domainerrors carries coded errors across service boundaries.
//
// Services translate sentinel infrastructure errors (pkg/platform/sentinel)
// and model invariant violations into coded errors here; the HTTP layer maps
// codes to status codes in one exhaustive switch. Codes are part of the API
// surface: handlers and clients branch on them, so add new ones sparingly.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an error for callers that need to branch on failure kind.
type Code string

const (
	// CodeValidation marks caller input that violates field-level rules.
	// Validation errors carry the complete violation list, never just the
	// first failing field.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks a single malformed value at a trust boundary
	// (unparseable id, unknown enum member).
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally broken request.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a referenced entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a concurrent-modification or state conflict.
	// Retryable by the caller.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks a request with no resolved actor.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks an actor that lacks the capability for the action.
	CodeForbidden Code = "forbidden"
	// CodeTimeout marks an operation that exceeded its processing budget.
	CodeTimeout Code = "timeout"
	// CodeUnavailable marks storage or transport being unreachable. Distinct
	// from CodeValidation so callers retry only these.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks unexpected failures; details are not exposed to
	// clients.
	CodeInternal Code = "internal_error"
	// CodeInvariantViolation marks a domain model invariant breach. Services
	// convert these to CodeValidation or CodeConflict before they reach the
	// transport layer.
	CodeInvariantViolation Code = "invariant_violation"
)

// FieldViolation names one violated field-level rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded error with optional wrapped cause and field violations.
type Error struct {
	code       Code
	message    string
	violations []FieldViolation
	cause      error
}

func (e *Error) Error() string {
	if len(e.violations) > 0 {
		parts := make([]string, 0, len(e.violations))
		for _, v := range e.violations {
			parts = append(parts, v.Field+": "+v.Message)
		}
		return fmt.Sprintf("%s (%s)", e.message, strings.Join(parts, "; "))
	}
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another coded error by code and message, so tests can assert
// with errors.Is against a freshly constructed equivalent.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.code == other.code && e.message == other.message
}

// Code returns the error's classification code.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the human-readable message without cause or violations.
func (e *Error) Message() string {
	return e.message
}

// Violations returns the field violation list; empty for non-validation
// errors.
func (e *Error) Violations() []FieldViolation {
	return e.violations
}

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the cause for
// errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: err}
}

// NewValidation creates a validation error carrying every violated field.
func NewValidation(message string, violations ...FieldViolation) error {
	return &Error{code: CodeValidation, message: message, violations: violations}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// ViolationsOf extracts field violations from err, nil when absent.
func ViolationsOf(err error) []FieldViolation {
	var e *Error
	if errors.As(err, &e) {
		return e.violations
	}
	return nil
}
