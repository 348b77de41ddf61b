package compiler

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/arith/ast"
	"github.com/deepnoodle-ai/arith/op"
	"github.com/deepnoodle-ai/arith/parser"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string) *Code {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.Nil(t, err)
	c := New(WithSource(source))
	code, err := c.Compile(program)
	require.Nil(t, err)
	return code
}

func instructions(code *Code) []op.Code {
	result := make([]op.Code, 0, code.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		result = append(result, code.Instruction(i))
	}
	return result
}

func TestCompileAssign(t *testing.T) {
	code := compile(t, "x = 42")
	require.Equal(t, []op.Code{
		op.Push, 0,
		op.StoreName, 0,
	}, instructions(code))
	require.Equal(t, 1, code.ConstantCount())
	require.Equal(t, int64(42), code.Constant(0))
	require.Equal(t, 1, code.NameCount())
	require.Equal(t, "x", code.Name(0))
}

func TestCompilePrint(t *testing.T) {
	code := compile(t, "print 7")
	require.Equal(t, []op.Code{
		op.Push, 0,
		op.Print,
	}, instructions(code))
}

func TestCompileInfix(t *testing.T) {
	// Operands are emitted left then right, operator last
	code := compile(t, "print 3 + 4 * 2")
	require.Equal(t, []op.Code{
		op.Push, 0, // 3
		op.Push, 1, // 4
		op.Push, 2, // 2
		op.Mul,
		op.Add,
		op.Print,
	}, instructions(code))
	require.Equal(t, int64(3), code.Constant(0))
	require.Equal(t, int64(4), code.Constant(1))
	require.Equal(t, int64(2), code.Constant(2))
}

func TestCompileAllOperators(t *testing.T) {
	tests := []struct {
		source string
		opcode op.Code
	}{
		{"print 1 + 2", op.Add},
		{"print 1 - 2", op.Sub},
		{"print 1 * 2", op.Mul},
		{"print 1 / 2", op.Div},
	}
	for _, tt := range tests {
		code := compile(t, tt.source)
		require.Equal(t, []op.Code{
			op.Push, 0,
			op.Push, 1,
			tt.opcode,
			op.Print,
		}, instructions(code), tt.source)
	}
}

func TestCompileVariableLoad(t *testing.T) {
	code := compile(t, "x = 1\ny = x - 5\nprint y")
	require.Equal(t, []op.Code{
		op.Push, 0, // 1
		op.StoreName, 0, // x
		op.LoadName, 0, // x
		op.Push, 1, // 5
		op.Sub,
		op.StoreName, 1, // y
		op.LoadName, 1, // y
		op.Print,
	}, instructions(code))
	require.Equal(t, []string{"x", "y"}, []string{code.Name(0), code.Name(1)})
}

func TestConstantInterning(t *testing.T) {
	code := compile(t, "x = 7 + 7 + 7")
	require.Equal(t, 1, code.ConstantCount())

	code = compile(t, "x = 1\nx = 1\nx = 2")
	require.Equal(t, 2, code.ConstantCount())
	require.Equal(t, 1, code.NameCount())
}

func TestIncrementalCompilation(t *testing.T) {
	c := New()
	program, err := parser.Parse(context.Background(), "x = 1")
	require.Nil(t, err)
	code, err := c.Compile(program)
	require.Nil(t, err)
	require.Equal(t, 4, code.InstructionCount())

	program, err = parser.Parse(context.Background(), "print x")
	require.Nil(t, err)
	code, err = c.Compile(program)
	require.Nil(t, err)
	require.Equal(t, 7, code.InstructionCount())
	require.Equal(t, op.Print, code.Instruction(6))
}

func TestSourceLocations(t *testing.T) {
	source := "x = 1\nprint x"
	code := compile(t, source)

	bc := code.ToBytecode()
	require.Equal(t, bc.InstructionCount(), bc.LocationCount())

	// The PRINT instruction is the last word and sits on line 2
	loc := bc.LocationAt(bc.InstructionCount() - 1)
	require.Equal(t, 2, loc.Line)
	require.Equal(t, "print x", loc.Source)

	// The first PUSH sits on line 1
	loc = bc.LocationAt(0)
	require.Equal(t, 1, loc.Line)
	require.Equal(t, "x = 1", loc.Source)
}

func TestSourceDefaultsToNodeString(t *testing.T) {
	program, err := parser.Parse(context.Background(), "x   =   1")
	require.Nil(t, err)
	code, err := New().Compile(program)
	require.Nil(t, err)
	require.Equal(t, "x = 1", code.Source())
}

func TestCompileUnknownOperator(t *testing.T) {
	node := &ast.Infix{
		X:  &ast.Int{Literal: "1", Value: 1},
		Op: "%",
		Y:  &ast.Int{Literal: "2", Value: 2},
	}
	_, err := Compile(node)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), `unknown operator "%"`)
}

func TestPackageLevelCompile(t *testing.T) {
	program, err := parser.Parse(context.Background(), "print 2 * 3")
	require.Nil(t, err)
	code, err := Compile(program, WithFilename("main.arith"))
	require.Nil(t, err)
	require.Equal(t, "main.arith", code.Filename())
	require.Equal(t, 6, code.InstructionCount())
}

func TestToBytecodeIsACopy(t *testing.T) {
	c := New()
	program, err := parser.Parse(context.Background(), "x = 1")
	require.Nil(t, err)
	code, err := c.Compile(program)
	require.Nil(t, err)

	bc := code.ToBytecode()
	count := bc.InstructionCount()

	// Extending the compiler must not affect previously emitted bytecode
	program, err = parser.Parse(context.Background(), "print x")
	require.Nil(t, err)
	_, err = c.Compile(program)
	require.Nil(t, err)
	require.Equal(t, count, bc.InstructionCount())
}
