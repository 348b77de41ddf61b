// Package lexer converts Arith source code into a stream of tokens.
//
// A Lexer is created with New and produces one token per call to Next.
// Once the input is exhausted, Next returns an EOF token indefinitely.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/deepnoodle-ai/arith/token"
)

// LexError indicates that an unrecognized character was encountered
// while scanning the input.
type LexError struct {
	// Char is the offending character.
	Char rune
	// Position is the location of the offending character.
	Position token.Position
	// LineText is the line of source code containing the character.
	LineText string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("syntax error: unexpected character %q (line %d, column %d)",
		e.Char, e.Position.LineNumber(), e.Position.ColumnNumber())
}

// FriendlyErrorMessage returns a human-friendly error message that
// includes the offending line of source code with a caret.
func (e *LexError) FriendlyErrorMessage() string {
	var msg strings.Builder
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.LineText != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.LineText)
		msg.WriteString("\n | ")
		msg.WriteString(strings.Repeat(" ", e.Position.Column))
		msg.WriteString("^\n")
	}
	return msg.String()
}

// Lexer scans an input string and returns its tokens one at a time.
type Lexer struct {
	input     []rune
	pos       int // offset of the next unread rune
	line      int // current 0-indexed line
	column    int // current 0-indexed column
	lineStart int // offset of the first rune on the current line
	filename  string
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// SetFilename sets the filename associated with the input, which is
// included in token positions for error messages.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the filename associated with the input.
func (l *Lexer) Filename() string {
	return l.filename
}

// Next returns the next token from the input. At input exhaustion an EOF
// token is returned, and repeated calls continue to return EOF.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	start := l.position()

	if l.pos >= len(l.input) {
		return token.Token{
			Type:          token.EOF,
			StartPosition: start,
			EndPosition:   start,
		}, nil
	}

	ch := l.input[l.pos]

	if isDigit(ch) {
		return l.readNumber(), nil
	}
	if isLetter(ch) {
		return l.readIdentifier(), nil
	}

	var typ token.Type
	switch ch {
	case '+':
		typ = token.PLUS
	case '-':
		typ = token.MINUS
	case '*':
		typ = token.STAR
	case '/':
		typ = token.SLASH
	case '(':
		typ = token.LPAREN
	case ')':
		typ = token.RPAREN
	case '=':
		typ = token.ASSIGN
	default:
		return token.Token{}, &LexError{
			Char:     ch,
			Position: start,
			LineText: l.lineText(start),
		}
	}
	l.advance()
	return token.Token{
		Type:          typ,
		Literal:       string(ch),
		StartPosition: start,
		EndPosition:   start,
	}, nil
}

// Tokenize scans the entire input and returns all its tokens, ending
// with an EOF token. It stops at the first scanning error.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// GetLineText returns the line of source code that contains the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	return l.lineText(tok.StartPosition)
}

func (l *Lexer) lineText(pos token.Position) string {
	start := pos.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	end := start
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	return string(l.input[start:end])
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.filename,
	}
}

// advance consumes one rune, updating line and column accounting.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 0
		l.lineStart = l.pos + 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readNumber() token.Token {
	start := l.position()
	begin := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	literal := string(l.input[begin:l.pos])
	return token.Token{
		Type:          token.NUMBER,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   start.Advance(l.pos - begin - 1),
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.position()
	begin := l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.advance()
	}
	literal := string(l.input[begin:l.pos])
	return token.Token{
		Type:          token.LookupIdentifier(literal),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   start.Advance(l.pos - begin - 1),
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
