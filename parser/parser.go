// Package parser is used to generate the abstract syntax tree (AST) for
// a program.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the
// AST.
//
// The grammar is:
//
//	program   := statement*
//	statement := IDENT '=' expr
//	          | 'print' expr
//	expr      := term (('+'|'-') term)*
//	term      := factor (('*'|'/') factor)*
//	factor    := NUMBER | IDENT | '(' expr ')'
//
// There is no statement terminator: a statement ends where the next one
// begins, which the parser detects with a single token of lookahead (an
// IDENT or the "print" keyword starts a new statement). This holds for
// this exact grammar because no expression may be followed by IDENT or
// "print", but it would not survive extensions that blur those follow
// sets.
package parser

import (
	"context"
	"strconv"

	"github.com/deepnoodle-ai/arith/ast"
	"github.com/deepnoodle-ai/arith/lexer"
	"github.com/deepnoodle-ai/arith/token"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error messages.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser. This
// prevents stack overflow on deeply nested input. The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parse the provided input as Arith source code and return the AST. This
// is a shorthand way to create a Lexer and Parser and then call Parse on
// that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	l := lexer.New(input)
	p := New(l, options...)
	return p.Parse(ctx)
}

// Parser transforms a token stream into an AST. The parser fails fast:
// the first scanning or grammar error aborts the parse.
type Parser struct {
	// l is our lexer
	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// err holds the first error encountered, including lexer errors
	// surfaced while reading tokens.
	err error

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:        l,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

// Parse consumes the entire token stream and returns the program AST.
// The first malformed token or grammar violation aborts the parse and is
// returned as the error; no partial AST is returned in that case.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	// It's possible for an error to already exist because we read tokens
	// from the lexer in the constructor.
	if p.err != nil {
		return nil, p.err
	}
	prog := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// nextToken advances the parser to the next token from the lexer.
func (p *Parser) nextToken() error {
	if p.err != nil {
		return p.err
	}
	p.curToken = p.peekToken
	var err error
	p.peekToken, err = p.l.Next()
	if err != nil {
		// All lexer errors are fatal to the parse. The underlying
		// *lexer.LexError is kept as-is so callers can inspect it.
		p.err = err
		return err
	}
	return nil
}

// parseStatement parses one statement starting at the current token and
// leaves the current token on the last token of the statement.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseAssign()
	case token.PRINT:
		return p.parsePrint()
	default:
		return nil, p.newError("statement", `identifier or keyword "print"`, p.curToken)
	}
}

func (p *Parser) parseAssign() (*ast.Assign, error) {
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.peekTokenIs(token.ASSIGN) {
		return nil, p.newError("assignment", `"="`, p.peekToken)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	assignPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name, AssignPos: assignPos, Value: value}, nil
}

func (p *Parser) parsePrint() (*ast.Print, error) {
	printPos := p.curToken.StartPosition
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Print{PrintPos: printPos, Value: value}, nil
}

// parseExpr parses a '+'/'-' layer. Chains are built left-leaning, so
// "a - b - c" parses as "(a - b) - c".
func (p *Parser) parseExpr() (ast.Expr, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peekTokenIs(token.PLUS) || p.peekTokenIs(token.MINUS) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		opTok := p.curToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &ast.Infix{
			X:     node,
			OpPos: opTok.StartPosition,
			Op:    opTok.Literal,
			Y:     right,
		}
	}
	return node, nil
}

// parseTerm parses a '*'/'/' layer, binding tighter than '+'/'-'.
func (p *Parser) parseTerm() (ast.Expr, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peekTokenIs(token.STAR) || p.peekTokenIs(token.SLASH) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		opTok := p.curToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &ast.Infix{
			X:     node,
			OpPos: opTok.StartPosition,
			Op:    opTok.Literal,
			Y:     right,
		}
	}
	return node, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, p.newError("expression", "shallower nesting", p.curToken)
	}
	switch p.curToken.Type {
	case token.NUMBER:
		return p.parseInt()
	case token.IDENT:
		return &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}, nil
	case token.LPAREN:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.peekTokenIs(token.RPAREN) {
			return nil, p.newError("grouped expression", `")"`, p.peekToken)
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, p.newError("expression", "number, identifier, or \"(\"", p.curToken)
	}
}

func (p *Parser) parseInt() (*ast.Int, error) {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, &ParseError{
			Context:    "number",
			Expected:   "an integer that fits in 64 bits",
			Found:      tok,
			File:       p.l.Filename(),
			SourceCode: p.l.GetLineText(tok),
		}
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}, nil
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) newError(context, expected string, found token.Token) *ParseError {
	return &ParseError{
		Context:    context,
		Expected:   expected,
		Found:      found,
		File:       p.l.Filename(),
		SourceCode: p.l.GetLineText(found),
	}
}
