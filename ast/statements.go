package ast

import (
	"bytes"

	"github.com/deepnoodle-ai/arith/token"
)

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.Position{}
}

func (p *Program) End() token.Position {
	if n := len(p.Stmts); n > 0 {
		return p.Stmts[n-1].End()
	}
	return token.Position{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, stmt := range p.Stmts {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(stmt.String())
	}
	return out.String()
}

// Assign is a statement node that binds the value of an expression to a
// variable name.
type Assign struct {
	Name      *Ident         // the variable being assigned
	AssignPos token.Position // position of "="
	Value     Expr           // the value expression
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Position { return s.Name.Pos() }
func (s *Assign) End() token.Position { return s.Value.End() }

func (s *Assign) String() string {
	return s.Name.String() + " = " + s.Value.String()
}

// Print is a statement node that evaluates an expression and prints the
// resulting value as a line of output.
type Print struct {
	PrintPos token.Position // position of the "print" keyword
	Value    Expr           // the expression to print
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.PrintPos }
func (s *Print) End() token.Position { return s.Value.End() }

func (s *Print) String() string {
	return "print " + s.Value.String()
}
