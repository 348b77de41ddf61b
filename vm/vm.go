// Package vm provides a VirtualMachine that executes compiled Arith code.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/deepnoodle-ai/arith/bytecode"
	"github.com/deepnoodle-ai/arith/errz"
	"github.com/deepnoodle-ai/arith/op"
	"github.com/rs/zerolog"
)

// MaxStackDepth is the operand stack capacity. The parser's nesting
// limit keeps any compilable expression well below this depth.
const MaxStackDepth = 1024

// ErrGlobalNotFound is returned by Get for an unknown variable name.
var ErrGlobalNotFound = errors.New("global not found")

// VirtualMachine executes bytecode against an operand stack and a flat
// variable store. A VirtualMachine must not be used by multiple
// goroutines at once; run the same bytecode on separate instances
// instead.
type VirtualMachine struct {
	ip         int // instruction pointer
	sp         int // stack pointer
	instrStart int // offset of the instruction being executed
	main       *bytecode.Code
	activeCode *bytecode.Code
	globals    map[string]int64
	stack      [MaxStackDepth]int64
	stdout     io.Writer
	logger     zerolog.Logger
	running    bool
	runMutex   sync.Mutex
}

// New creates a new VirtualMachine for the given compiled program.
func New(main *bytecode.Code, options ...Option) *VirtualMachine {
	vm := NewEmpty(options...)
	vm.main = main
	return vm
}

// NewEmpty creates a new VirtualMachine without initial main code. Code
// is provided later via RunCode, which preserves the variable store
// across calls. This supports REPL-style execution.
func NewEmpty(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		sp:      -1,
		globals: map[string]int64{},
		stdout:  os.Stdout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Run executes the main program. Each call creates a fresh operand stack
// and variable store, so repeated runs are independent.
func (vm *VirtualMachine) Run(ctx context.Context) error {
	if vm.main == nil {
		return errors.New("no main code available")
	}
	return vm.runCodeInternal(ctx, vm.main, true)
}

// RunCode executes the given compiled code, preserving the variable
// store from any previous RunCode or Run calls on this machine. The
// operand stack is always reset.
func (vm *VirtualMachine) RunCode(ctx context.Context, code *bytecode.Code) error {
	return vm.runCodeInternal(ctx, code, false)
}

// runCodeInternal is the shared implementation for Run and RunCode.
// It guarantees that:
//  1. It is an error to run a VM that is already running.
//  2. The running flag is always cleared on return.
//  3. Panics are translated to errors.
func (vm *VirtualMachine) runCodeInternal(ctx context.Context, code *bytecode.Code, resetState bool) (err error) {
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()
	if resetState {
		vm.globals = map[string]int64{}
	}
	vm.sp = -1
	vm.ip = 0
	vm.activeCode = code
	return vm.eval(ctx)
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return errors.New("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// eval executes the active code from vm.ip to the end. Execution is
// strictly sequential: the instruction set contains no jumps.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	_ = ctx // execution is unconditionally run-to-completion
	code := vm.activeCode
	count := code.InstructionCount()
	for vm.ip < count {
		vm.instrStart = vm.ip
		opcode := code.InstructionAt(vm.ip)

		if e := vm.logger.Trace(); e.Enabled() {
			e.Int("ip", vm.instrStart).
				Str("opcode", op.GetInfo(opcode).Name).
				Int("stack_depth", vm.sp+1).
				Msg("step")
		}

		// Advance the instruction pointer past the opcode. Operand
		// words are consumed by fetch().
		vm.ip++

		switch opcode {
		case op.Nop:
		case op.Push:
			if vm.sp+1 >= MaxStackDepth {
				return vm.internalError("stack overflow")
			}
			vm.push(code.ConstantAt(int(vm.fetch())))
		case op.LoadName:
			name := code.NameAt(int(vm.fetch()))
			value, found := vm.globals[name]
			if !found {
				return vm.nameError("undefined variable %q", name)
			}
			if vm.sp+1 >= MaxStackDepth {
				return vm.internalError("stack overflow")
			}
			vm.push(value)
		case op.StoreName:
			name := code.NameAt(int(vm.fetch()))
			if vm.sp < 0 {
				return vm.internalError("stack underflow in STORE_NAME")
			}
			vm.globals[name] = vm.pop()
		case op.Add, op.Sub, op.Mul, op.Div:
			if vm.sp < 1 {
				return vm.internalError("stack underflow in %s", op.GetInfo(opcode).Name)
			}
			b := vm.pop()
			a := vm.pop()
			switch opcode {
			case op.Add:
				vm.push(a + b)
			case op.Sub:
				vm.push(a - b)
			case op.Mul:
				vm.push(a * b)
			case op.Div:
				if b == 0 {
					return vm.valueError("division by zero")
				}
				vm.push(floorDiv(a, b))
			}
		case op.Print:
			if vm.sp < 0 {
				return vm.internalError("stack underflow in PRINT")
			}
			if _, err := fmt.Fprintf(vm.stdout, "%d\n", vm.pop()); err != nil {
				return err
			}
		default:
			return vm.internalError("unknown opcode: %d", opcode)
		}
	}
	return nil
}

// floorDiv divides a by b, truncating toward negative infinity, so that
// -7 / 2 == -4 rather than -3.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Get returns the current value bound to the given variable name.
func (vm *VirtualMachine) Get(name string) (int64, error) {
	value, found := vm.globals[name]
	if !found {
		return 0, fmt.Errorf("%w: %q", ErrGlobalNotFound, name)
	}
	return value, nil
}

// GlobalNames returns the sorted names of all currently bound variables.
func (vm *VirtualMachine) GlobalNames() []string {
	names := make([]string, 0, len(vm.globals))
	for name := range vm.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TOS returns the top-of-stack value if there is one, without modifying
// the stack. The bool indicates whether there was a valid TOS. This only
// works on a stopped VM.
func (vm *VirtualMachine) TOS() (int64, bool) {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if !vm.running && vm.sp >= 0 {
		return vm.stack[vm.sp], true
	}
	return 0, false
}

func (vm *VirtualMachine) pop() int64 {
	value := vm.stack[vm.sp]
	vm.sp--
	return value
}

func (vm *VirtualMachine) push(value int64) {
	vm.sp++
	vm.stack[vm.sp] = value
}

// fetch reads the next instruction word as an operand.
func (vm *VirtualMachine) fetch() uint16 {
	ip := vm.ip
	vm.ip++
	return uint16(vm.activeCode.InstructionAt(ip))
}

// getCurrentLocation returns the source location of the instruction
// being executed.
func (vm *VirtualMachine) getCurrentLocation() errz.SourceLocation {
	if vm.activeCode == nil {
		return errz.SourceLocation{}
	}
	return vm.activeCode.LocationAt(vm.instrStart)
}

// runtimeError creates a StructuredError with the current source location.
func (vm *VirtualMachine) runtimeError(kind errz.ErrorKind, format string, args ...any) *errz.StructuredError {
	return errz.Newf(kind, vm.getCurrentLocation(), format, args...)
}

// nameError creates an undefined-variable error.
func (vm *VirtualMachine) nameError(format string, args ...any) *errz.StructuredError {
	return vm.runtimeError(errz.ErrName, format, args...)
}

// valueError creates an invalid-value error such as division by zero.
func (vm *VirtualMachine) valueError(format string, args ...any) *errz.StructuredError {
	return vm.runtimeError(errz.ErrValue, format, args...)
}

// internalError creates an invariant-violation error. These indicate a
// code generation bug, not a user input error.
func (vm *VirtualMachine) internalError(format string, args ...any) *errz.StructuredError {
	return vm.runtimeError(errz.ErrInternal, format, args...)
}
