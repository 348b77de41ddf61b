package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/arith"
	"github.com/deepnoodle-ai/arith/vm"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// runRepl reads statements line by line and executes each one against a
// single persistent machine, so variables carry across lines.
func runRepl(ctx context.Context, opts []arith.Option) error {
	var vmOpts []vm.Option
	if flagTrace {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.TraceLevel).
			With().Timestamp().Logger()
		vmOpts = append(vmOpts, vm.WithLogger(logger))
	}
	machine := vm.NewEmpty(vmOpts...)

	fmt.Printf("arith %s\n", version)
	fmt.Println("Type :help for commands, :exit to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := replCommand(machine, line); quit {
				return nil
			}
			continue
		}
		code, err := arith.Compile(line, opts...)
		if err != nil {
			printReplError(err)
			continue
		}
		if err := machine.RunCode(ctx, code); err != nil {
			printReplError(err)
		}
	}
}

// replCommand handles a ":" command and reports whether the REPL should
// exit.
func replCommand(machine *vm.VirtualMachine, line string) bool {
	switch strings.ToLower(line) {
	case ":help", ":h", ":?":
		fmt.Println("  :vars           List defined variables")
		fmt.Println("  :help, :h, :?   Show this help")
		fmt.Println("  :exit, :quit    Exit the REPL")
	case ":vars":
		names := machine.GlobalNames()
		if len(names) == 0 {
			fmt.Println("  (no variables)")
			return false
		}
		for _, name := range names {
			value, err := machine.Get(name)
			if err != nil {
				continue
			}
			fmt.Printf("  %s = %d\n", name, value)
		}
	case ":exit", ":quit", ":q":
		return true
	default:
		fmt.Printf("  Unknown command: %s\n", line)
	}
	return false
}

func printReplError(err error) {
	msg := friendlyMessage(err)
	if useColor() {
		msg = color.RedString("%s", msg)
	}
	fmt.Println(msg)
}
