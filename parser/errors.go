package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/arith/token"
)

// ParseError indicates that the token stream does not match the grammar.
// It records the token that was expected and the token that was found.
type ParseError struct {
	// Context describes what was being parsed, e.g. "assignment".
	Context string
	// Expected describes the expected token.
	Expected string
	// Found is the offending token.
	Found token.Token
	// File is the source filename, if known.
	File string
	// SourceCode is the line of source containing the offending token.
	SourceCode string
}

func (e *ParseError) Error() string {
	pos := e.Found.StartPosition
	if e.Context != "" {
		return fmt.Sprintf("parse error: unexpected %s while parsing %s (expected %s) at line %d, column %d",
			tokenDescription(e.Found), e.Context, e.Expected, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("parse error: unexpected %s (expected %s) at line %d, column %d",
		tokenDescription(e.Found), e.Expected, pos.LineNumber(), pos.ColumnNumber())
}

// FriendlyErrorMessage returns a human-friendly error message that
// includes the offending line of source code with a caret.
func (e *ParseError) FriendlyErrorMessage() string {
	var msg strings.Builder
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.SourceCode != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.SourceCode)
		msg.WriteString("\n | ")
		msg.WriteString(strings.Repeat(" ", e.Found.StartPosition.Column))
		msg.WriteString("^\n")
	}
	return msg.String()
}

// StartPosition returns the position of the offending token.
func (e *ParseError) StartPosition() token.Position {
	return e.Found.StartPosition
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return "identifier"
	case token.NUMBER:
		return "number"
	case token.PRINT:
		return `keyword "print"`
	default:
		return fmt.Sprintf("%q", string(t))
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}
