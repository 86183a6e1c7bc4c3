package bisaya

import (
	"github.com/gosuda/bisaya/ast"
	"github.com/gosuda/bisaya/parser"
	bruntime "github.com/gosuda/bisaya/runtime"
)

// Compile lexes and parses source text and builds an interpreter
// ready to Run.
func Compile(source string) (*bruntime.Interp, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return bruntime.New(program), nil
}

// Parse only returns the AST program for tooling use.
func Parse(source string) (*ast.Program, error) {
	tokens, err := parser.Lex(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
