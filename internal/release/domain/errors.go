package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an engine failure in a machine-readable way.
// Callers branch on the code, never on concrete error types.
type ErrorCode string

const (
	// CodeValidation marks malformed version or build-number input.
	CodeValidation ErrorCode = "validation_failed"

	// CodeNotFound marks a missing application or live release.
	CodeNotFound ErrorCode = "not_found"

	// CodeDataInconsistency marks a backend invariant violation, such as a
	// live release with no attached build.
	CodeDataInconsistency ErrorCode = "data_inconsistency"

	// CodeNotIncrementable marks a candidate release whose lifecycle state
	// blocks attaching new builds.
	CodeNotIncrementable ErrorCode = "not_incrementable"
)

// Error is the engine's failure type. Reason is a stable machine-readable
// token; Message is the human-readable explanation.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Code, e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(reason, message string) *Error {
	return &Error{Code: CodeValidation, Reason: reason, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(reason, message string) *Error {
	return &Error{Code: CodeNotFound, Reason: reason, Message: message}
}

// NewDataInconsistencyError creates a data-inconsistency error.
func NewDataInconsistencyError(reason, message string) *Error {
	return &Error{Code: CodeDataInconsistency, Reason: reason, Message: message}
}

// NewNotIncrementableError creates a non-incrementable-state error.
func NewNotIncrementableError(reason, message string) *Error {
	return &Error{Code: CodeNotIncrementable, Reason: reason, Message: message}
}

// WrapError attaches a code and reason to an underlying error.
func WrapError(code ErrorCode, reason, message string, err error) *Error {
	return &Error{Code: code, Reason: reason, Message: message, Err: err}
}

// CodeOf extracts the error code, if the error carries one.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// ReasonOf extracts the machine-readable reason, if the error carries one.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeValidation
}

// IsNotFound checks if the error is a not-found error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeNotFound
}

// IsDataInconsistency checks if the error is a data-inconsistency error.
func IsDataInconsistency(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeDataInconsistency
}

// IsNotIncrementable checks if the error is a non-incrementable-state error.
func IsNotIncrementable(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeNotIncrementable
}
