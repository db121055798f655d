// Package errors provides structured error types for cliquecount.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - CANCELED, TIMEOUT: The search was stopped before finishing
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "line %d: expected v,w", line)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Search interruption
	ErrCodeCanceled    Code = "CANCELED"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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

// FromContext converts a context error into a CANCELED or TIMEOUT error.
// Other errors, including nil, are returned unchanged.
func FromContext(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, "search timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, "search canceled")
	}
	return err
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidOption, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		// nginx's "client closed request"
		return 499
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
