package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a VirtualMachine.
type Option func(*VirtualMachine)

// WithStdout sets the writer that print statements write to. The default
// is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.stdout = w
	}
}

// WithLogger sets a logger used for per-instruction trace logging. The
// default logger discards all events.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}
