// Package domainerrors defines the failure kinds the lifecycle layer returns to
// its callers. Stores return sentinel errors; services translate them into one
// of these codes so the transport edge can map them without inspecting strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeInvalid is malformed input: bad email, non-positive amount or coverage.
	CodeInvalid Code = "invalid"
	// CodeNotFound is a referenced entity that is absent or not owned by the caller.
	CodeNotFound Code = "not_found"
	// CodeCoverageExceeded is an operation that would push outstanding exposure past coverage.
	CodeCoverageExceeded Code = "coverage_exceeded"
	// CodeForbidden is an administrative action attempted by a non-administrator.
	CodeForbidden Code = "forbidden"
	// CodeConflict is a uniqueness collision or a concurrent write detected at commit.
	CodeConflict Code = "conflict"
	// CodeInternal is everything else.
	CodeInternal Code = "internal"
)

// Error is a domain failure carrying a Code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first domain error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
