// Package errors provides structured error types for kgview.
//
// Every failure the explorer can surface carries a machine-readable [Code] so
// that the CLI, the TUI, and the HTTP API can react to it the same way:
//
//   - MALFORMED_PAYLOAD, TRANSPORT_ERROR: a dataset could not be loaded
//     (both count as a load error, see [IsLoadError])
//   - SEARCH_NOT_FOUND: an exact search term matched no node id
//   - MALFORMED_SELECTION: the inspector was asked to project a selection
//     with an unknown tag
//   - NOT_LOADED: an operation needed a graph before one was loaded
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSearchNotFound, "no node with id %q", term)
//	if errors.Is(err, errors.ErrCodeSearchNotFound) {
//	    // Notify the user, leave state alone
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "fetch %s", url)
//
// No error defined here is fatal; callers degrade to a visible message.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Load errors
	ErrCodeMalformedPayload Code = "MALFORMED_PAYLOAD"
	ErrCodeTransport        Code = "TRANSPORT_ERROR"
	ErrCodeAlreadyLoaded    Code = "ALREADY_LOADED"
	ErrCodeNotLoaded        Code = "NOT_LOADED"

	// Interaction errors
	ErrCodeSearchNotFound     Code = "SEARCH_NOT_FOUND"
	ErrCodeMalformedSelection Code = "MALFORMED_SELECTION"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidURI   Code = "INVALID_URI"

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

// IsLoadError reports whether err is a dataset load failure, either a
// malformed payload or a transport failure.
func IsLoadError(err error) bool {
	return Is(err, ErrCodeMalformedPayload) || Is(err, ErrCodeTransport)
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
