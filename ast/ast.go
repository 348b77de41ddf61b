// Package ast defines the abstract syntax tree representation of Arith code.
//
// The node types form a small, closed set: integer literals, variable
// references, and binary operations as expressions; assignment and print
// as statements. Consumers such as the compiler exhaustively switch over
// these types.
package ast

import "github.com/deepnoodle-ai/arith/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the last character belonging to the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}
