// Package token defines the keywords and tokens used when lexing Arith
// source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // rune offset within the input
	LineStart int    // rune offset of the first rune on this line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename, if known
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns the position n runes further along the same line.
func (p Position) Advance(n int) Position {
	p.Char += n
	p.Column += n
	return p
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ASSIGN Type = "="
	EOF    Type = "EOF"
	IDENT  Type = "IDENT"
	LPAREN Type = "("
	MINUS  Type = "-"
	NUMBER Type = "NUMBER"
	PLUS   Type = "+"
	PRINT  Type = "print"
	RPAREN Type = ")"
	SLASH  Type = "/"
	STAR   Type = "*"
)

// Reserved keywords
var keywords = map[string]Type{
	"print": PRINT,
}

// LookupIdentifier determines whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
