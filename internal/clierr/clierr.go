// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// optional details for scripted consumers, and the error they wrap.
package clierr

import (
	"fmt"
	"strconv"
)

// Error code constants. Codes are stable across minor versions.
const (
	TaskNotFound    = "TASK_NOT_FOUND"
	FileNotFound    = "FILE_NOT_FOUND"
	AlreadyExists   = "ALREADY_EXISTS"
	InvalidInput    = "INVALID_INPUT"
	InvalidPriority = "INVALID_PRIORITY"
	InvalidDate     = "INVALID_DATE"
	InvalidLine     = "INVALID_LINE"
	InvalidFormat   = "INVALID_FORMAT"
	InvalidGroupBy  = "INVALID_GROUP_BY"
	InvalidSort     = "INVALID_SORT"
	ParseError      = "PARSE_ERROR"
	KeyNotFound     = "KEY_NOT_FOUND"
	NoChanges       = "NO_CHANGES"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	InternalError   = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error whose message is err's message.
func Wrap(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause records err as the wrapped error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
