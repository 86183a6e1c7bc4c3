package main

import (
	"fmt"
	"os"

	"github.com/gosuda/bisaya/ast"
	"github.com/gosuda/bisaya/parser"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print the token stream and statement list of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, _ := cmd.Flags().GetBool("tokens")
			return runDump(args[0], tokens)
		},
	}
	cmd.Flags().Bool("tokens", false, "also print the raw token stream")
	return cmd
}

func runDump(path string, withTokens bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	tokens, err := parser.Lex(string(src))
	if err != nil {
		return err
	}
	if withTokens {
		for _, t := range tokens {
			fmt.Printf("%3d %-10s %q\n", t.Line, t.Kind, t.Lexeme)
		}
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	fmt.Printf("stmts=%d\n", len(program.Statements))
	for i, st := range program.Statements {
		dumpStatement(i, st)
	}
	return nil
}

func dumpStatement(i int, st ast.Statement) {
	switch s := st.(type) {
	case ast.DeclStmt:
		fmt.Printf("pc %d Decl %s names=%d\n", i, s.Kind, len(s.Items))
	case ast.AssignStmt:
		fmt.Printf("pc %d Assign target=%s op=%s\n", i, s.Name, s.Op)
	case ast.IncStmt:
		fmt.Printf("pc %d Inc target=%s\n", i, s.Name)
	case ast.InputStmt:
		fmt.Printf("pc %d Input names=%d\n", i, len(s.Names))
	case ast.OutputStmt:
		fmt.Printf("pc %d Output exprs=%d\n", i, len(s.Exprs))
	case ast.IfStmt:
		fmt.Printf("pc %d If branches=%d elseNil=%v\n", i, len(s.Branches), s.Else == nil)
	case ast.WhileStmt:
		fmt.Printf("pc %d While body=%d\n", i, len(s.Body.Statements))
	case ast.ForStmt:
		fmt.Printf("pc %d For init=%s body=%d\n", i, s.Init.Name, len(s.Body.Statements))
	default:
		fmt.Printf("pc %d %T\n", i, st)
	}
}
