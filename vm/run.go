package vm

import (
	"context"

	"github.com/deepnoodle-ai/arith/bytecode"
)

// Run executes the given code in a new VirtualMachine.
func Run(ctx context.Context, main *bytecode.Code, options ...Option) error {
	machine := New(main, options...)
	return machine.Run(ctx)
}
