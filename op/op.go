// Package op defines opcodes used by the Arith compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop Code = 1

	// Stack
	Push Code = 10 // operand: constants table index

	// Variables
	LoadName  Code = 20 // operand: names table index
	StoreName Code = 21 // operand: names table index

	// Arithmetic
	Add Code = 30
	Sub Code = 31
	Mul Code = 32
	Div Code = 33

	// Output
	Print Code = 40
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Nop, "NOP", 0},
		{Push, "PUSH", 1},
		{LoadName, "LOAD_NAME", 1},
		{StoreName, "STORE_NAME", 1},
		{Add, "ADD", 0},
		{Sub, "SUB", 0},
		{Mul, "MUL", 0},
		{Div, "DIV", 0},
		{Print, "PRINT", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}
