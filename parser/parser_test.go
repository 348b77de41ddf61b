package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/arith/ast"
	"github.com/deepnoodle-ai/arith/lexer"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	program, err := Parse(context.Background(), "x = 3 + 4 * 2\ny = x - 5\nprint y")
	require.Nil(t, err)
	require.Len(t, program.Stmts, 3)

	assign, ok := program.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name.Name)

	assign, ok = program.Stmts[1].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "y", assign.Name.Name)

	print, ok := program.Stmts[2].(*ast.Print)
	require.True(t, ok)
	require.Equal(t, "y", print.Value.String())
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = 3 + 4 * 2", "x = (3 + (4 * 2))"},
		{"x = 3 * 4 + 2", "x = ((3 * 4) + 2)"},
		{"x = 3 * (4 + 2)", "x = (3 * (4 + 2))"},
		{"print 10 / 3", "print (10 / 3)"},
		{"print 1 + 2 - 3", "print ((1 + 2) - 3)"},
		{"print 100 / 10 / 5", "print ((100 / 10) / 5)"},
		{"print 2 * 3 / 4", "print ((2 * 3) / 4)"},
		{"print ((((7))))", "print 7"},
		{"x = y", "x = y"},
		{"x = 0", "x = 0"},
	}
	for _, tt := range tests {
		program, err := Parse(context.Background(), tt.input)
		require.Nil(t, err, tt.input)
		require.Equal(t, tt.expected, program.String(), tt.input)
	}
}

func TestStatementBoundaries(t *testing.T) {
	// Statements have no terminator. A following identifier or "print"
	// keyword begins the next statement.
	program, err := Parse(context.Background(), "x = 1 y = x print y print x")
	require.Nil(t, err)
	require.Len(t, program.Stmts, 4)
	require.Equal(t, "x = 1\ny = x\nprint y\nprint x", program.String())
}

func TestEmptyProgram(t *testing.T) {
	program, err := Parse(context.Background(), "")
	require.Nil(t, err)
	require.Len(t, program.Stmts, 0)
	require.Equal(t, "", program.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "number as assignment target",
			input:    "1 = 2",
			expected: `parse error: unexpected "1" while parsing statement (expected identifier or keyword "print") at line 1, column 1`,
		},
		{
			name:     "operator as statement start",
			input:    "= 5",
			expected: `parse error: unexpected "=" while parsing statement (expected identifier or keyword "print") at line 1, column 1`,
		},
		{
			name:     "identifier without assignment",
			input:    "x 5",
			expected: `parse error: unexpected "5" while parsing assignment (expected "=") at line 1, column 3`,
		},
		{
			name:     "missing value",
			input:    "x =",
			expected: `parse error: unexpected end of input while parsing expression (expected number, identifier, or "(") at line 1, column 4`,
		},
		{
			name:     "print without argument",
			input:    "print",
			expected: `parse error: unexpected end of input while parsing expression (expected number, identifier, or "(") at line 1, column 6`,
		},
		{
			name:     "unclosed paren",
			input:    "x = (1 + 2",
			expected: `parse error: unexpected end of input while parsing grouped expression (expected ")") at line 1, column 11`,
		},
		{
			name:     "dangling operator",
			input:    "print 1 +",
			expected: `parse error: unexpected end of input while parsing expression (expected number, identifier, or "(") at line 1, column 10`,
		},
		{
			name:     "unary minus unsupported",
			input:    "x = -5",
			expected: `parse error: unexpected "-" while parsing expression (expected number, identifier, or "(") at line 1, column 5`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)
			require.NotNil(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestLexErrorPassthrough(t *testing.T) {
	_, err := Parse(context.Background(), "x = 3 & 2")
	require.NotNil(t, err)
	var lexErr *lexer.LexError
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, '&', lexErr.Char)
}

func TestLexErrorInFirstTokens(t *testing.T) {
	// The constructor reads two tokens to prime the pump; errors there
	// must still surface from Parse.
	_, err := Parse(context.Background(), "@ = 1")
	require.NotNil(t, err)
	var lexErr *lexer.LexError
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, '@', lexErr.Char)
}

func TestIntegerOverflow(t *testing.T) {
	_, err := Parse(context.Background(), "x = 99999999999999999999")
	require.NotNil(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Contains(t, err.Error(), "an integer that fits in 64 bits")

	// Largest int64 still parses
	program, err := Parse(context.Background(), "x = 9223372036854775807")
	require.Nil(t, err)
	assign := program.Stmts[0].(*ast.Assign)
	require.Equal(t, int64(9223372036854775807), assign.Value.(*ast.Int).Value)
}

func TestMaxDepth(t *testing.T) {
	input := "x = " + strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)

	_, err := Parse(context.Background(), input)
	require.Nil(t, err)

	_, err = Parse(context.Background(), input, WithMaxDepth(5))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "shallower nesting")
}

func TestFilenameInErrors(t *testing.T) {
	_, err := Parse(context.Background(), "1 = 2", WithFilename("main.arith"))
	require.NotNil(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "main.arith", parseErr.File)
}

func TestFriendlyErrorMessage(t *testing.T) {
	_, err := Parse(context.Background(), "x 5")
	require.NotNil(t, err)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	msg := parseErr.FriendlyErrorMessage()
	require.Contains(t, msg, " | x 5\n")
	require.Contains(t, msg, " |   ^\n")
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "x = 1")
	require.NotNil(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
