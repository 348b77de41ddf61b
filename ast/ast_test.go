package ast

import (
	"testing"

	"github.com/deepnoodle-ai/arith/token"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	x := &Ident{Name: "x"}
	three := &Int{Literal: "3", Value: 3}
	four := &Int{Literal: "4", Value: 4}
	two := &Int{Literal: "2", Value: 2}

	product := &Infix{X: four, Op: "*", Y: two}
	sum := &Infix{X: three, Op: "+", Y: product}

	program := &Program{
		Stmts: []Stmt{
			&Assign{Name: x, Value: sum},
			&Print{Value: x},
		},
	}
	require.Equal(t, "x = (3 + (4 * 2))\nprint x", program.String())
}

func TestPositions(t *testing.T) {
	n := &Int{ValuePos: token.Position{Char: 4, Column: 4}, Literal: "123", Value: 123}
	require.Equal(t, 4, n.Pos().Column)
	require.Equal(t, 6, n.End().Column)

	id := &Ident{NamePos: token.Position{Char: 0}, Name: "foo"}
	require.Equal(t, 0, id.Pos().Char)
	require.Equal(t, 2, id.End().Char)

	infix := &Infix{X: id, Op: "+", Y: n}
	require.Equal(t, id.Pos(), infix.Pos())
	require.Equal(t, n.End(), infix.End())
}

func TestEmptyProgramPositions(t *testing.T) {
	p := &Program{}
	require.Equal(t, token.Position{}, p.Pos())
	require.Equal(t, token.Position{}, p.End())
	require.Equal(t, "", p.String())
}
