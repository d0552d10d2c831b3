// Package errors provides structured error types for versionrange.
//
// Every fatal condition of a run maps to one [Code], so callers (and the CLI
// exit path) can tell a version conflict from a network failure without
// string matching:
//   - INVALID_*: malformed input (manifest, coordinate, key file name)
//   - *_NOT_FOUND: missing files or artifacts
//   - UNMAPPED_*, VERSION_CONFLICT, UNRESOLVED_PROPERTY: rewrite decisions
//     that cannot be reconciled
//   - NETWORK_ERROR, RESOLUTION: repository access and range resolution
//
// # Usage
//
//	err := errors.New(errors.ErrCodeVersionConflict, "artifact %s requires %s", key, v)
//	if errors.Is(err, errors.ErrCodeVersionConflict) {
//	    // Handle conflict
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeReadFailed, origErr, "error reading POM %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidRange      Code = "INVALID_RANGE"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Manifest I/O errors
	ErrCodeReadFailed  Code = "READ_FAILED"
	ErrCodeWriteFailed Code = "WRITE_FAILED"
	ErrCodeBoundary    Code = "BOUNDARY"
	ErrCodeKeyFile     Code = "KEY_FILE"

	// Rewrite errors
	ErrCodeInterpolation          Code = "INTERPOLATION"
	ErrCodeUnmappedParent         Code = "UNMAPPED_PARENT"
	ErrCodeUnmappedProjectVersion Code = "UNMAPPED_PROJECT_VERSION"
	ErrCodeUnresolvedProperty     Code = "UNRESOLVED_PROPERTY"
	ErrCodeVersionConflict        Code = "VERSION_CONFLICT"

	// Resolution and network errors
	ErrCodeResolution Code = "RESOLUTION"
	ErrCodeNetwork    Code = "NETWORK_ERROR"
	ErrCodeTimeout    Code = "TIMEOUT"

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
