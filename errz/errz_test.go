package errz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindString(t *testing.T) {
	require.Equal(t, "syntax error", ErrSyntax.String())
	require.Equal(t, "name error", ErrName.String())
	require.Equal(t, "value error", ErrValue.String())
	require.Equal(t, "internal error", ErrInternal.String())
}

func TestStructuredError(t *testing.T) {
	err := Newf(ErrName, SourceLocation{Line: 2, Column: 7, Source: "print z"},
		"undefined variable %q", "z")
	require.Equal(t, `name error: undefined variable "z" (2:7)`, err.Error())
}

func TestStructuredErrorWithoutLocation(t *testing.T) {
	err := New(ErrInternal, SourceLocation{}, "stack underflow")
	require.Equal(t, "internal error: stack underflow", err.Error())
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := New(ErrValue, SourceLocation{Line: 1, Column: 7, Source: "print 1 / 0"},
		"division by zero")
	msg := err.FriendlyErrorMessage()
	require.Contains(t, msg, "value error: division by zero (1:7)")
	require.Contains(t, msg, " | print 1 / 0\n")
	require.Contains(t, msg, " |       ^\n")
}

func TestWithCause(t *testing.T) {
	cause := errors.New("underlying")
	err := New(ErrInternal, SourceLocation{}, "wrapper").WithCause(cause)
	require.ErrorIs(t, err, cause)
}

func TestIsZero(t *testing.T) {
	require.True(t, SourceLocation{}.IsZero())
	require.False(t, SourceLocation{Line: 1}.IsZero())
	require.False(t, SourceLocation{File: "main.arith"}.IsZero())
}
