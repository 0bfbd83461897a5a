// Package errors provides structured error types for circuit analysis.
//
// Every failure the analysis pipeline can raise carries a machine-readable
// [Code], so the CLI and the HTTP service can report them consistently:
//
//	err := errors.New(errors.ErrCodeFormat, "had %d items and should be %d", got, want)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // malformed netlist line
//	}
//
// Line-level issues found while parsing are combined with the standard
// library's errors.Join; [Is] and [GetCode] look through joined errors.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the analysis pipeline.
const (
	// Netlist errors
	ErrCodeFormat         Code = "FORMAT_ERROR"
	ErrCodeUnknownElement Code = "UNKNOWN_ELEMENT"

	// Topology errors
	ErrCodeNodeContinuity      Code = "NODE_CONTINUITY"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"

	// Assembly and solve errors
	ErrCodeSourceCountMismatch Code = "SOURCE_COUNT_MISMATCH"
	ErrCodeUnresolvedParameter Code = "UNRESOLVED_PARAMETER"
	ErrCodeSingularSystem      Code = "SINGULAR_SYSTEM"

	// Generic errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Line    int    // 1-based netlist line, 0 when not tied to a line
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// AtLine creates a new Error tied to a netlist line.
func AtLine(code Code, line int, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Line = line
	return e
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err, or any error joined into it, has the given code.
func Is(err error, code Code) bool {
	for _, e := range All(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// GetCode extracts the code of the first structured error found in err.
// Returns empty string if err holds no *Error.
func GetCode(err error) Code {
	if all := All(err); len(all) > 0 {
		return all[0].Code
	}
	return ""
}

// All flattens err into the structured errors it contains, walking both
// Unwrap() error and Unwrap() []error chains in order.
func All(err error) []*Error {
	if err == nil {
		return nil
	}
	var out []*Error
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if e, ok := err.(*Error); ok {
			out = append(out, e)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Line > 0 {
			return fmt.Sprintf("line %d: %s", e.Line, e.Message)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err must abort an analysis even in lenient mode.
// Only format and node-continuity issues may be downgraded to warnings.
func Fatal(err error) bool {
	for _, e := range All(err) {
		switch e.Code {
		case ErrCodeFormat, ErrCodeNodeContinuity:
		default:
			return true
		}
	}
	return len(All(err)) == 0 && err != nil
}
