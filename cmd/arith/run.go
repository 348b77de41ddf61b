package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/arith"
	"github.com/deepnoodle-ai/arith/errz"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runHandler(cmd *cobra.Command, args []string) error {
	opts := getArithOptions()

	if shouldRunRepl(args) {
		return runRepl(cmd.Context(), opts)
	}

	// Multiple files run in order, each against fresh state. Failures
	// don't stop later files.
	if len(args) > 1 {
		if flagCode != "" || flagStdin {
			return errors.New("multiple input sources specified")
		}
		var result *multierror.Error
		for _, file := range args {
			if err := runFile(cmd, file, opts); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", file, err))
			}
		}
		return result.ErrorOrNil()
	}

	source, filename, err := getCode(args)
	if err != nil {
		return err
	}
	if filename != "" {
		opts = append(opts, arith.WithFilename(filename))
	}
	return arith.Eval(cmd.Context(), source, opts...)
}

func runFile(cmd *cobra.Command, file string, opts []arith.Option) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	opts = append(opts, arith.WithFilename(file))
	return arith.Eval(cmd.Context(), string(data), opts...)
}

func getArithOptions() []arith.Option {
	var opts []arith.Option
	if flagTrace {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.TraceLevel).
			With().Timestamp().Logger()
		opts = append(opts, arith.WithLogger(logger))
	}
	return opts
}

func shouldRunRepl(args []string) bool {
	if flagStdin || flagCode != "" || len(args) > 0 {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// getCode resolves the single input source for a command: the -c flag,
// stdin, or a file argument. The returned filename is empty unless the
// source was a file.
func getCode(args []string) (string, string, error) {
	count := 0
	if flagCode != "" {
		count++
	}
	if flagStdin {
		count++
	}
	if len(args) > 0 {
		count++
	}
	if count > 1 {
		return "", "", errors.New("multiple input sources specified")
	}
	if count == 0 {
		return "", "", errors.New("no input provided")
	}

	if flagStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}

	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}

	return flagCode, "", nil
}

// friendlyMessage prefers an error's caret-annotated rendering when it
// has one.
func friendlyMessage(err error) string {
	var friendly errz.FriendlyError
	if errors.As(err, &friendly) {
		return friendly.FriendlyErrorMessage()
	}
	return err.Error()
}
