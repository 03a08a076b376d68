package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig     = "CONFIG"
	ErrUsage      = "USAGE"
	ErrResolve    = "RESOLVE"
	ErrNoTargets  = "NO_TARGETS"
	ErrPermission = "PERMISSION"
	ErrProbe      = "PROBE"
	ErrShutdown   = "SHUTDOWN"
)

// Process exit codes.
const (
	ExitCodeOK        = 0
	ExitCodeError     = 1
	ExitCodeUsage     = 2
	ExitCodeNoTargets = 3
	ExitCodeForced    = 4
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewNoTargets is returned when none of the requested targets could be resolved.
func NewNoTargets(attempted int) *Error {
	return &Error{
		Code:       ErrNoTargets,
		Message:    fmt.Sprintf("None of the %d target(s) could be resolved", attempted),
		Suggestion: "Check the hostnames for typos, or pass an IP address directly",
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var ppErr *Error
	if errors.As(err, &ppErr) {
		return ppErr.Code == code
	}
	return false
}

// ExitCodeFor maps an error returned from a run to the process exit status.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var ppErr *Error
	if !errors.As(err, &ppErr) {
		return ExitCodeError
	}
	switch ppErr.Code {
	case ErrUsage, ErrConfig:
		return ExitCodeUsage
	case ErrNoTargets:
		return ExitCodeNoTargets
	case ErrShutdown:
		return ExitCodeForced
	default:
		return ExitCodeError
	}
}

// Summary returns the one-line form of err: the message of a structured
// Error without its cause and suggestion, or err.Error() otherwise.
func Summary(err error) string {
	var ppErr *Error
	if errors.As(err, &ppErr) {
		return ppErr.Message
	}
	return err.Error()
}
