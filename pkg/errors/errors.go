// Package errors provides structured error types for exprtree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// [HTTPStatus] maps each code to the status the API answers with.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "width must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidDimensions) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/exprtree/pkg/expr"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidExpression Code = "INVALID_EXPRESSION"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle      Code = "INVALID_STYLE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromParse converts a compile failure into an INVALID_EXPRESSION error whose
// message names the diagnostic kind, e.g. "MISMATCHED_PARENTHESIS: 4: ...".
// Errors that are not parse errors are returned unchanged.
func FromParse(err error) error {
	var pe *expr.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	kind := expr.KindOf(err)
	msg := kind.String()
	for _, d := range pe.Diagnostics.Errors() {
		if d.Kind == kind {
			msg = d.Error()
			break
		}
	}
	return Wrap(ErrCodeInvalidExpression, err, "%s: %s", kind.Code(), msg)
}

// HTTPStatus returns the HTTP status code for an error code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidDimensions, ErrCodeInvalidFormat, ErrCodeInvalidStyle:
		return http.StatusBadRequest
	case ErrCodeInvalidExpression:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
