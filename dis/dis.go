// Package dis supports disassembling Arith bytecode into a human
// readable form.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/arith/bytecode"
	"github.com/deepnoodle-ai/arith/op"
)

// Instruction is one disassembled instruction.
type Instruction struct {
	// Offset of the instruction within the code.
	Offset int
	// Name of the opcode, e.g. "LOAD_NAME".
	Name string
	// Operands holds the instruction's operand values.
	Operands []uint16
	// Info describes the resolved operand, e.g. a constant value or a
	// variable name.
	Info string
}

// Disassemble returns the instructions of the given compiled code.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	count := code.InstructionCount()
	for offset := 0; offset < count; {
		opcode := code.InstructionAt(offset)
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", opcode, offset)
		}
		instr := Instruction{Offset: offset, Name: info.Name}
		for i := 0; i < info.OperandCount; i++ {
			if offset+1+i >= count {
				return nil, fmt.Errorf("truncated instruction at offset %d", offset)
			}
			instr.Operands = append(instr.Operands,
				uint16(code.InstructionAt(offset+1+i)))
		}
		switch opcode {
		case op.Push:
			instr.Info = fmt.Sprintf("%d", code.ConstantAt(int(instr.Operands[0])))
		case op.LoadName, op.StoreName:
			instr.Info = code.NameAt(int(instr.Operands[0]))
		}
		instructions = append(instructions, instr)
		offset += 1 + info.OperandCount
	}
	return instructions, nil
}

// Print writes a table of disassembled instructions to the given writer.
func Print(instructions []Instruction, w io.Writer) {
	headers := []string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}
	rows := make([][]string, 0, len(instructions))
	for _, instr := range instructions {
		operands := make([]string, 0, len(instr.Operands))
		for _, operand := range instr.Operands {
			operands = append(operands, fmt.Sprintf("%d", operand))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", instr.Offset),
			instr.Name,
			strings.Join(operands, ", "),
			instr.Info,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	divider := make([]string, len(headers))
	for i, width := range widths {
		divider[i] = strings.Repeat("-", width+2)
	}
	dividerLine := "+" + strings.Join(divider, "+") + "+"

	fmt.Fprintln(w, dividerLine)
	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = center(h, widths[i])
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(headerCells, " | "))
	fmt.Fprintln(w, dividerLine)
	for _, row := range rows {
		fmt.Fprintf(w, "| %*s | %-*s | %*s | %-*s |\n",
			widths[0], row[0],
			widths[1], row[1],
			widths[2], row[2],
			widths[3], row[3])
	}
	fmt.Fprintln(w, dividerLine)
}

// center pads s with spaces on both sides to the given width.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
