// Package bytecode defines the compiled, executable representation of an
// Arith program: a flat sequence of stack-machine instructions together
// with the constant and name tables they refer to.
package bytecode

import (
	"strings"

	"github.com/deepnoodle-ai/arith/errz"
	"github.com/deepnoodle-ai/arith/op"
)

// Code is a compiled program. It is immutable after creation and safe
// for concurrent use: any number of virtual machines may execute the
// same Code simultaneously.
type Code struct {
	instructions []op.Code
	constants    []int64
	names        []string
	source       string
	filename     string

	// Source map: one location per instruction word for error reporting
	locations []errz.SourceLocation
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Instructions []op.Code
	Constants    []int64
	Names        []string
	Source       string
	Filename     string
	Locations    []errz.SourceLocation
}

// NewCode creates a new immutable Code from the given parameters. Input
// slices are copied, so the Code does not alias caller state.
func NewCode(params CodeParams) *Code {
	code := &Code{
		instructions: make([]op.Code, len(params.Instructions)),
		constants:    make([]int64, len(params.Constants)),
		names:        make([]string, len(params.Names)),
		source:       params.Source,
		filename:     params.Filename,
		locations:    make([]errz.SourceLocation, len(params.Locations)),
	}
	copy(code.instructions, params.Instructions)
	copy(code.constants, params.Constants)
	copy(code.names, params.Names)
	copy(code.locations, params.Locations)
	return code
}

// InstructionCount returns the number of instruction words, including
// inline operands.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction word at the given index.
func (c *Code) InstructionAt(index int) op.Code {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) int64 {
	return c.constants[index]
}

// NameCount returns the number of variable names used in this code.
func (c *Code) NameCount() int {
	return len(c.names)
}

// NameAt returns the variable name at the given index.
func (c *Code) NameAt(index int) string {
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

// LocationAt returns the source location for the instruction word at the
// given index. If no location is recorded, a zero SourceLocation is
// returned.
func (c *Code) LocationAt(ip int) errz.SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return errz.SourceLocation{}
	}
	return c.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// GetSourceLine returns the source code line at the given 1-based line
// number. If the line is out of range, an empty string is returned.
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
