// Package errors provides structured error types for fourcolor.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI (and any other front end) can tell a bad width from a
// missing image or a failed write without parsing messages.
//
// # Error Codes
//
//   - INVALID_*: Input validation failures (width, level, colour names, formats)
//   - NO_IMAGE_LOADED: An operation was invoked before a source image was chosen
//   - EMPTY_COLOR_SELECTION: Export requested with no colours; reported as a warning
//   - IO_FAILURE: Reading or writing a file failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "width %q is not a number", s)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // ask for another width
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
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
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidLevel     Code = "INVALID_LEVEL"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// State errors
	ErrCodeNoImageLoaded       Code = "NO_IMAGE_LOADED"
	ErrCodeEmptyColorSelection Code = "EMPTY_COLOR_SELECTION"

	// I/O errors
	ErrCodeIO Code = "IO_FAILURE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsWarning reports whether err is a non-fatal condition that front ends
// should show as a warning rather than a failure.
func IsWarning(err error) bool {
	return Is(err, ErrCodeEmptyColorSelection)
}
