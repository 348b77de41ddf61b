// Package arith compiles and runs programs in the Arith language: a
// minimal imperative language with integer expressions, variable
// assignment, and print statements.
//
// Source code moves through a four-stage pipeline: the lexer produces
// tokens on demand, the parser builds an AST, the compiler generates
// bytecode, and the virtual machine executes it. The only externally
// visible effect of a program is the output of its print statements.
//
//	out, err := arith.EvalCapture(ctx, "x = 3 + 4 * 2\nprint x")
//	// out == "11\n"
package arith

import (
	"bytes"
	"context"
	"io"

	"github.com/deepnoodle-ai/arith/bytecode"
	"github.com/deepnoodle-ai/arith/compiler"
	"github.com/deepnoodle-ai/arith/parser"
	"github.com/deepnoodle-ai/arith/vm"
	"github.com/rs/zerolog"
)

// Option configures an Arith compilation or execution.
type Option func(*options)

type options struct {
	filename string
	stdout   io.Writer
	logger   *zerolog.Logger
	maxDepth int
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.maxDepth))
	}
	return opts
}

func (o *options) compilerOpts(source string) []compiler.Option {
	opts := []compiler.Option{compiler.WithSource(source)}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.stdout != nil {
		opts = append(opts, vm.WithStdout(o.stdout))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	return opts
}

// WithFilename sets the filename for the source code being evaluated.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithStdout sets the writer that print statements write to. The
// default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogger sets a logger used for per-instruction trace logging
// during execution.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithMaxDepth sets the maximum expression nesting depth accepted by
// the parser.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// Compile parses and compiles source code into executable bytecode.
// The returned Code is immutable and safe for concurrent use: multiple
// virtual machines can execute the same Code simultaneously.
func Compile(source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	prog, err := parser.Parse(context.Background(), source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(prog, o.compilerOpts(source)...)
}

// Run executes compiled bytecode. Each call creates fresh runtime state
// (operand stack and variable store), so repeated runs are independent.
func Run(ctx context.Context, code *bytecode.Code, opts ...Option) error {
	o := collectOptions(opts...)
	return vm.Run(ctx, code, o.vmOpts()...)
}

// Eval is a convenience function that compiles and runs source code. It
// is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) error {
	code, err := Compile(source, opts...)
	if err != nil {
		return err
	}
	return Run(ctx, code, opts...)
}

// EvalCapture compiles and runs source code, returning the output of
// its print statements as a single string, one line per print. A
// WithStdout option is ignored; output is always captured.
func EvalCapture(ctx context.Context, source string, opts ...Option) (string, error) {
	code, err := Compile(source, opts...)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	opts = append(opts, WithStdout(&buf))
	if err := Run(ctx, code, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}
