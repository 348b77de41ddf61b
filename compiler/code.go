package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/arith/bytecode"
	"github.com/deepnoodle-ai/arith/errz"
	"github.com/deepnoodle-ai/arith/op"
)

// Code accumulates instructions during compilation. It is mutable and
// owned by a single Compiler; call ToBytecode to obtain the immutable
// form that the virtual machine executes.
type Code struct {
	instructions []op.Code
	constants    []int64
	names        []string
	source       string
	filename     string

	// Source map: one location per instruction word for error reporting
	locations []errz.SourceLocation
}

// InstructionCount returns the number of instruction words, including
// inline operands.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// Instruction returns the instruction word at the given index.
func (c *Code) Instruction(index int) op.Code {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// Constant returns the constant at the given index.
func (c *Code) Constant(index int) int64 {
	return c.constants[index]
}

// NameCount returns the number of variable names used in this code.
func (c *Code) NameCount() int {
	return len(c.names)
}

// Name returns the variable name at the given index.
func (c *Code) Name(index int) string {
	return c.names[index]
}

// Source returns the source code this program was compiled from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename, if known.
func (c *Code) Filename() string {
	return c.filename
}

// GetSourceLine returns the source code line at the given 1-based line
// number, or an empty string if it is out of range.
func (c *Code) GetSourceLine(lineNum int) string {
	if c.source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// ToBytecode returns the immutable bytecode form of this code.
func (c *Code) ToBytecode() *bytecode.Code {
	return bytecode.NewCode(bytecode.CodeParams{
		Instructions: c.instructions,
		Constants:    c.constants,
		Names:        c.names,
		Source:       c.source,
		Filename:     c.filename,
		Locations:    c.locations,
	})
}

// makeInstruction encodes an opcode and its operands as instruction words.
func makeInstruction(opcode op.Code, operands ...uint16) []op.Code {
	inst := make([]op.Code, 1+len(operands))
	inst[0] = opcode
	for i, operand := range operands {
		inst[i+1] = op.Code(operand)
	}
	return inst
}
