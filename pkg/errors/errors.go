// Package errors provides structured error types for sitegen.
//
// Errors carry a machine-readable [Code] so callers can tell apart the three
// classes of failure the metadata engine distinguishes:
//
//   - PARSE_ERROR: malformed upstream text (file listing tokens, unknown
//     support tiers, unparseable dates). Fatal for the feed being parsed.
//   - LOOKUP_ERROR: a missing checksum, theme entry, translator or language
//     name. Recovered locally with a default; surfaced only as a warning.
//   - CLASSIFICATION_AMBIGUITY: no release qualifies as the featured one.
//     Fatal, since page data always carries a featured release.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "entry %q: no file listing", title)
//	if errors.Is(err, errors.ErrCodeParse) {
//	    // abort the run
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Upstream data errors
	ErrCodeParse          Code = "PARSE_ERROR"
	ErrCodeLookup         Code = "LOOKUP_ERROR"
	ErrCodeClassification Code = "CLASSIFICATION_AMBIGUITY"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

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

// Fatal reports whether err must abort a generator run. Lookup errors are
// the only recoverable class; everything else stops the pipeline.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return GetCode(err) != ErrCodeLookup
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
