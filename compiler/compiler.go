// Package compiler is used to compile an Arith abstract syntax tree
// (AST) into the corresponding bytecode.
//
// Code generation is a direct post-order walk of the AST: for any
// expression subtree, the emitted instructions leave exactly one
// additional value on the operand stack and have no other net effect.
// Binary operands are emitted left then right, so the VM pops the right
// operand first and the instruction computes "left op right". There are
// no optimization passes of any kind.
package compiler

import (
	"fmt"
	"math"

	"github.com/deepnoodle-ai/arith/ast"
	"github.com/deepnoodle-ai/arith/bytecode"
	"github.com/deepnoodle-ai/arith/errz"
	"github.com/deepnoodle-ai/arith/op"
	"github.com/deepnoodle-ai/arith/token"
)

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the source filename, used in error messages and the
// source map.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the original source code, used for the source map so
// runtime errors can show the offending line.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// Compile compiles the given AST node and returns immutable bytecode.
// This is the standard entry point for compiling code that will be
// executed.
func Compile(node ast.Node, options ...Option) (*bytecode.Code, error) {
	c := New(options...)
	code, err := c.Compile(node)
	if err != nil {
		return nil, err
	}
	return code.ToBytecode(), nil
}

// Compiler is used to compile an Arith AST into its corresponding
// bytecode.
type Compiler struct {
	// The code being compiled into
	code *Code

	// Set on a compilation error that is inconvenient to propagate
	// through the emit call stack
	failure error

	// Source filename
	filename string

	// Original source code (for the source map)
	source string

	// Current AST node being compiled (used for source map tracking)
	currentNode ast.Node
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{code: &Code{}}
	for _, opt := range options {
		opt(c)
	}
	c.code.filename = c.filename
	return c
}

// Code returns the code being compiled.
func (c *Compiler) Code() *Code {
	return c.code
}

// Compile compiles the given AST node, appending its instructions to the
// accumulated code, and returns the mutable Code object. Calling Compile
// repeatedly extends the same program, which supports REPL-style
// incremental compilation. For one-shot compilation, use the
// package-level Compile function instead.
func (c *Compiler) Compile(node ast.Node) (*Code, error) {
	c.failure = nil
	if c.code.source == "" {
		if c.source != "" {
			c.code.source = c.source
		} else {
			c.code.source = node.String()
		}
	}
	if err := c.compile(node); err != nil {
		return nil, err
	}
	// Check for failures that happened that aren't propagated up the
	// call stack
	if c.failure != nil {
		return nil, c.failure
	}
	return c.code, nil
}

// compile the given AST node and all its children.
func (c *Compiler) compile(node ast.Node) error {
	// Track the current node for source map tracking
	c.currentNode = node
	switch node := node.(type) {
	case *ast.Program:
		return c.compileProgram(node)
	case *ast.Assign:
		return c.compileAssign(node)
	case *ast.Print:
		return c.compilePrint(node)
	case *ast.Infix:
		return c.compileInfix(node)
	case *ast.Int:
		return c.compileInt(node)
	case *ast.Ident:
		return c.compileIdent(node)
	default:
		return c.formatError(fmt.Sprintf("unknown ast node type %T", node), node.Pos())
	}
}

func (c *Compiler) compileProgram(node *ast.Program) error {
	for _, stmt := range node.Stmts {
		if err := c.compile(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileAssign(node *ast.Assign) error {
	if err := c.compile(node.Value); err != nil {
		return err
	}
	c.currentNode = node
	c.emit(op.StoreName, c.name(node.Name.Name))
	return nil
}

func (c *Compiler) compilePrint(node *ast.Print) error {
	if err := c.compile(node.Value); err != nil {
		return err
	}
	c.currentNode = node
	c.emit(op.Print)
	return nil
}

func (c *Compiler) compileInfix(node *ast.Infix) error {
	if err := c.compile(node.X); err != nil {
		return err
	}
	if err := c.compile(node.Y); err != nil {
		return err
	}
	c.currentNode = node
	switch node.Op {
	case "+":
		c.emit(op.Add)
	case "-":
		c.emit(op.Sub)
	case "*":
		c.emit(op.Mul)
	case "/":
		c.emit(op.Div)
	default:
		return c.formatError(fmt.Sprintf("unknown operator %q", node.Op), node.OpPos)
	}
	return nil
}

func (c *Compiler) compileInt(node *ast.Int) error {
	c.emit(op.Push, c.constant(node.Value))
	return nil
}

func (c *Compiler) compileIdent(node *ast.Ident) error {
	c.emit(op.LoadName, c.name(node.Name))
	return nil
}

// constant interns the given value in the constants table and returns
// its index.
func (c *Compiler) constant(value int64) uint16 {
	code := c.code
	for i, existing := range code.constants {
		if existing == value {
			return uint16(i)
		}
	}
	if len(code.constants) >= math.MaxUint16 {
		c.failure = fmt.Errorf("compile error: number of constants exceeded limits")
		return 0
	}
	code.constants = append(code.constants, value)
	return uint16(len(code.constants) - 1)
}

// name interns the given variable name in the names table and returns
// its index.
func (c *Compiler) name(name string) uint16 {
	code := c.code
	for i, existing := range code.names {
		if existing == name {
			return uint16(i)
		}
	}
	if len(code.names) >= math.MaxUint16 {
		c.failure = fmt.Errorf("compile error: number of names exceeded limits")
		return 0
	}
	code.names = append(code.names, name)
	return uint16(len(code.names) - 1)
}

// emit appends an instruction to the code and returns its offset.
func (c *Compiler) emit(opcode op.Code, operands ...uint16) int {
	inst := makeInstruction(opcode, operands...)
	code := c.code
	pos := len(code.instructions)
	code.instructions = append(code.instructions, inst...)

	// Record a source location for each instruction word
	loc := c.getCurrentLocation()
	for range inst {
		code.locations = append(code.locations, loc)
	}
	return pos
}

// getCurrentLocation returns the source location of the current AST node
// being compiled.
func (c *Compiler) getCurrentLocation() errz.SourceLocation {
	if c.currentNode == nil {
		return errz.SourceLocation{}
	}
	pos := c.currentNode.Pos()
	return errz.SourceLocation{
		File:   c.filename,
		Line:   pos.LineNumber(),
		Column: pos.ColumnNumber(),
		Source: c.code.GetSourceLine(pos.LineNumber()),
	}
}

func (c *Compiler) formatError(msg string, pos token.Position) error {
	return fmt.Errorf("compile error: %s (line %d, column %d)",
		msg, pos.LineNumber(), pos.ColumnNumber())
}
