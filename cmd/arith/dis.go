package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/arith"
	"github.com/deepnoodle-ai/arith/dis"
	"github.com/deepnoodle-ai/arith/lexer"
	"github.com/deepnoodle-ai/arith/token"
	"github.com/spf13/cobra"
)

func disHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := getCode(args)
	if err != nil {
		return err
	}
	var opts []arith.Option
	if filename != "" {
		opts = append(opts, arith.WithFilename(filename))
	}
	code, err := arith.Compile(source, opts...)
	if err != nil {
		return err
	}
	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}
	dis.Print(instructions, os.Stdout)
	return nil
}

func tokensHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := getCode(args)
	if err != nil {
		return err
	}
	l := lexer.New(source)
	if filename != "" {
		l.SetFilename(filename)
	}
	for {
		tok, err := l.Next()
		if err != nil {
			return err
		}
		if tok.Type == token.EOF {
			return nil
		}
		pos := tok.StartPosition
		fmt.Printf("%d:%d\t%s\t%q\n", pos.LineNumber(), pos.ColumnNumber(), tok.Type, tok.Literal)
	}
}
