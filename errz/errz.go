// Package errz defines structured error types shared across the Arith
// pipeline.
package errz

import (
	"bytes"
	"fmt"
	"strings"
)

// FriendlyError is an error that can produce a human-friendly message
// with visual context, suitable for terminal display.
type FriendlyError interface {
	error
	FriendlyErrorMessage() string
}

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrSyntax indicates a scanning or parsing error.
	ErrSyntax ErrorKind = iota
	// ErrName indicates an undefined variable.
	ErrName
	// ErrValue indicates an invalid value for an operation.
	ErrValue
	// ErrInternal indicates a violated VM invariant, such as a stack
	// underflow. These errors signal a code generation bug and are never
	// expected from valid input.
	ErrInternal
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrName:
		return "name error"
	case ErrValue:
		return "value error"
	case ErrInternal:
		return "internal error"
	default:
		return "error"
	}
}

// SourceLocation identifies a location in an input source string.
type SourceLocation struct {
	File   string // filename, if known
	Line   int    // 1-indexed line number
	Column int    // 1-indexed column number
	Source string // the line of source code text
}

// IsZero returns true if the location carries no information.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0 && l.Source == "" && l.File == ""
}

// StructuredError is an error with a kind and a source location, used for
// runtime errors raised by the virtual machine.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%d:%d)",
		e.Kind.String(), e.Message, e.Location.Line, e.Location.Column)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a human-friendly error message including
// the relevant source snippet with a caret.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}
	return msg.String()
}

// New creates a new StructuredError with the given kind, location and
// message.
func New(kind ErrorKind, loc SourceLocation, message string) *StructuredError {
	return &StructuredError{Message: message, Kind: kind, Location: loc}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(kind ErrorKind, loc SourceLocation, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     kind,
		Location: loc,
	}
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}
