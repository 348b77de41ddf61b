// Command arith runs programs written in the Arith language.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	flagCode    string
	flagStdin   bool
	flagTrace   bool
	flagNoColor bool
)

func main() {
	root := &cobra.Command{
		Use:           "arith [file...]",
		Short:         "Run Arith programs",
		Long:          "Arith is a small language for integer arithmetic with variables and print statements.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHandler,
	}
	root.PersistentFlags().StringVarP(&flagCode, "code", "c", "", "Code to evaluate")
	root.PersistentFlags().BoolVar(&flagStdin, "stdin", false, "Read code from stdin")
	root.PersistentFlags().BoolVar(&flagTrace, "trace", false, "Log each executed instruction")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	disCmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble compiled Arith bytecode",
		Args:  cobra.MaximumNArgs(1),
		RunE:  disHandler,
	}

	tokensCmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream for Arith code",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tokensHandler,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arith %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	root.AddCommand(disCmd, tokensCmd, versionCmd)

	if err := root.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	msg := friendlyMessage(err)
	if useColor() {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

func useColor() bool {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
