// Package apperr defines the typed error taxonomy shared by service packages.
// Handlers map codes to HTTP statuses; anything unclassified is reported to the
// caller as a generic internal error.
package apperr

import (
	"errors"
	"fmt"
)

// Error codes classifying failures.
const (
	// CodeUnauthenticated means the caller identity is missing or invalid.
	CodeUnauthenticated = "unauthenticated"
	// CodePermissionDenied means the caller lacks permission for the target.
	CodePermissionDenied = "permission-denied"
	// CodeNotFound means a referenced record is absent.
	CodeNotFound = "not-found"
	// CodeFailedPrecondition means a business rule rejected the operation.
	CodeFailedPrecondition = "failed-precondition"
	// CodeInternal means an unexpected failure occurred.
	CodeInternal = "internal"
)

// Error carries a classification code and a user-facing message.
type Error struct {
	Code    string // Classification code.
	Message string // User-facing message.
	Err     error  // Wrapped cause, if any.
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Unauthenticated builds an unauthenticated error.
func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

// PermissionDenied builds a permission-denied error.
func PermissionDenied(message string) *Error {
	return &Error{Code: CodePermissionDenied, Message: message}
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// FailedPrecondition builds a failed-precondition error.
func FailedPrecondition(format string, args ...any) *Error {
	return &Error{Code: CodeFailedPrecondition, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure with a generic message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the classification code from an error chain.
// Unclassified errors report CodeInternal.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeInternal
}

// IsCode reports whether an error chain carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
