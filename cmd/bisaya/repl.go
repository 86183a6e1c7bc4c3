package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuda/bisaya/ast"
	"github.com/gosuda/bisaya/parser"
	bruntime "github.com/gosuda/bisaya/runtime"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session, one statement per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

// runRepl executes one line at a time against a persistent interpreter.
// Each line is wrapped in program markers before parsing; declarations
// survive across lines.
func runRepl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	it := bruntime.New(&ast.Program{})
	it.SetInputProvider(func() (string, error) {
		return line.Prompt("dawat> ")
	})

	for {
		src, err := line.Prompt("bisaya> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(src)
		if err := execLine(it, src); err != nil {
			fmt.Println(err)
		}
	}
}

func execLine(it *bruntime.Interp, src string) error {
	tokens, err := parser.Lex("SUGOD\n" + src + "\nKATAPUSAN")
	if err != nil {
		return err
	}
	program, err := parser.ParseWithVars(tokens, it.Vars())
	if err != nil {
		return err
	}
	outputs, err := it.Exec(program.Statements)
	for _, out := range outputs {
		fmt.Print(out.Text)
	}
	if len(outputs) > 0 {
		fmt.Println()
	}
	return err
}
