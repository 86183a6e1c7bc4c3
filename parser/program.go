package parser

import (
	"github.com/gosuda/bisaya/ast"
)

// Parser consumes a token sequence and builds the program tree. The
// declared map tracks names and declared kinds for validation only;
// evaluation keeps its own environment.
type Parser struct {
	toks     []Token
	pos      int
	declared map[string]ast.VarKind

	insideDisplay     bool
	insideConditional bool
	insideIfBlock     bool
}

// Parse builds a program tree from a token sequence, or fails with a
// parse error carrying line, kind and context.
func Parse(tokens []Token) (*ast.Program, error) {
	return ParseWithVars(tokens, nil)
}

// ParseWithVars parses with a set of already-declared variables. The
// REPL uses it to carry declarations across inputs.
func ParseWithVars(tokens []Token, declared map[string]ast.VarKind) (*ast.Program, error) {
	p := &Parser{toks: tokens, declared: map[string]ast.VarKind{}}
	for name, kind := range declared {
		p.declared[name] = kind
	}
	if err := p.checkStructure(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// DeclaredVars returns the parser symbol table built by the last parse.
func (p *Parser) DeclaredVars() map[string]ast.VarKind {
	return p.declared
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return Token{Kind: EOF}
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == Newline && p.peek().Lexeme != "$" {
		p.pos++
	}
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return Token{}, parseErrf(t.Line, ErrExpectedToken, "expected %s, got %q", what, t.Lexeme)
	}
	return p.next(), nil
}

// checkStructure verifies that exactly one SUGOD and one KATAPUSAN
// exist, in order, and that nothing but newlines sits outside them.
func (p *Parser) checkStructure() error {
	beginIdx, endIdx := -1, -1
	for i, t := range p.toks {
		switch t.Kind {
		case Begin:
			if beginIdx >= 0 {
				return parseErrf(t.Line, ErrStructure, "duplicate SUGOD")
			}
			beginIdx = i
		case End:
			if endIdx >= 0 {
				return parseErrf(t.Line, ErrStructure, "duplicate KATAPUSAN")
			}
			endIdx = i
		}
	}
	if beginIdx < 0 {
		return parseErrf(1, ErrStructure, "missing SUGOD")
	}
	if endIdx < 0 {
		return parseErrf(1, ErrStructure, "missing KATAPUSAN")
	}
	if endIdx < beginIdx {
		return parseErrf(p.toks[endIdx].Line, ErrStructure, "KATAPUSAN before SUGOD")
	}
	for i, t := range p.toks {
		if i > beginIdx && i < endIdx {
			continue
		}
		switch t.Kind {
		case Begin, End, EOF:
		case Newline:
			if t.Lexeme == "$" {
				return parseErrf(t.Line, ErrStructure, "token outside SUGOD/KATAPUSAN")
			}
		default:
			return parseErrf(t.Line, ErrStructure, "token outside SUGOD/KATAPUSAN")
		}
	}
	return nil
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	p.skipNewlines()
	if _, err := p.expect(Begin, "SUGOD"); err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for {
		p.skipNewlines()
		if p.peek().Kind == End {
			p.next()
			return prog, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	switch tok.Kind {
	case Declare:
		return p.parseDeclaration()
	case Display:
		return p.parseDisplay()
	case Input:
		return p.parseInput()
	case If:
		return p.parseIf()
	case While:
		return p.parseWhile()
	case For:
		return p.parseFor()
	case Ident:
		if p.peekAt(1).Kind == PlusPlus {
			name := p.next()
			p.next()
			if err := p.checkDeclared(name); err != nil {
				return nil, err
			}
			return ast.IncStmt{Name: name.Lexeme, Line: name.Line}, nil
		}
		return p.parseAssignment()
	default:
		if isKeywordToken(tok.Kind) && p.peekAt(1).Kind == Assign {
			return nil, parseErrf(tok.Line, ErrReserved, "%s is a reserved keyword", tok.Lexeme)
		}
		if p.insideIfBlock && tok.Kind == Newline {
			p.next()
			return ast.EmptyStmt{Line: tok.Line}, nil
		}
		return nil, parseErrf(tok.Line, ErrExpectedToken, "unexpected token %q", tok.Lexeme)
	}
}

func isKeywordToken(k TokenKind) bool {
	switch k {
	case Begin, End, BlockKw, Declare, If, Else, For, In, While, Display, Input,
		TypeInt, TypeFloat, TypeChar, TypeBool, TypeString, And, Or, Not, BoolTrue:
		return true
	default:
		return false
	}
}

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	kw := p.next()
	kind, ok := declKind(p.peek().Kind)
	if !ok {
		return nil, parseErrf(p.peek().Line, ErrExpectedToken, "expected a type after MUGNA, got %q", p.peek().Lexeme)
	}
	p.next()
	decl := ast.DeclStmt{Kind: kind, Line: kw.Line}
	for {
		item, err := p.parseDeclItem(kind)
		if err != nil {
			return nil, err
		}
		decl.Items = append(decl.Items, item)
		if p.peek().Kind != Comma {
			return decl, nil
		}
		p.next()
	}
}

func declKind(k TokenKind) (ast.VarKind, bool) {
	switch k {
	case TypeInt:
		return ast.IntKind, true
	case TypeFloat:
		return ast.FloatKind, true
	case TypeChar:
		return ast.CharKind, true
	case TypeBool:
		return ast.BoolKind, true
	case TypeString:
		return ast.StringKind, true
	default:
		return 0, false
	}
}

func (p *Parser) parseDeclItem(kind ast.VarKind) (ast.DeclItem, error) {
	name := p.peek()
	if name.Kind != Ident {
		if isKeywordToken(name.Kind) {
			return ast.DeclItem{}, parseErrf(name.Line, ErrReserved, "%s is a reserved keyword", name.Lexeme)
		}
		return ast.DeclItem{}, parseErrf(name.Line, ErrExpectedToken, "expected a variable name, got %q", name.Lexeme)
	}
	p.next()
	if _, exists := p.declared[name.Lexeme]; exists {
		return ast.DeclItem{}, parseErrf(name.Line, ErrRedeclared, "variable %s is already declared", name.Lexeme)
	}
	item := ast.DeclItem{Name: name.Lexeme, Line: name.Line}
	if p.peek().Kind == Assign {
		p.next()
		if kind == ast.BoolKind {
			if err := checkBoolInit(p.peek()); err != nil {
				return ast.DeclItem{}, err
			}
		}
		init, err := p.parseExpr()
		if err != nil {
			return ast.DeclItem{}, err
		}
		item.Init = init
	}
	p.declared[name.Lexeme] = kind
	return item, nil
}

// checkBoolInit enforces that a quoted initializer for a TINUOD variable
// is exactly "OO" or "DILI".
func checkBoolInit(tok Token) error {
	switch tok.Kind {
	case BoolTrue:
		if tok.Lexeme != "OO" {
			return parseErrf(tok.Line, ErrExpectedToken, "boolean initializer must be \"OO\" or \"DILI\"")
		}
	case BoolFalse:
		if tok.Lexeme != "DILI" {
			return parseErrf(tok.Line, ErrExpectedToken, "boolean initializer must be \"OO\" or \"DILI\"")
		}
	case StringLit:
		return parseErrf(tok.Line, ErrExpectedToken, "boolean initializer must be \"OO\" or \"DILI\"")
	}
	return nil
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	name := p.next()
	if err := p.checkDeclared(name); err != nil {
		return nil, err
	}
	op := p.peek()
	switch op.Kind {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		p.next()
	default:
		return nil, parseErrf(op.Line, ErrExpectedToken, "expected = after %s, got %q", name.Lexeme, op.Lexeme)
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.AssignStmt{Name: name.Lexeme, Op: op.Lexeme, Expr: expr, Line: name.Line}, nil
}

// parseDisplay reads the IPAKITA argument list. The $ newline sentinel
// is a list item of its own; real newlines end the statement.
func (p *Parser) parseDisplay() (ast.Statement, error) {
	kw := p.next()
	if _, err := p.expect(Colon, ":"); err != nil {
		return nil, err
	}
	p.insideDisplay = true
	defer func() { p.insideDisplay = false }()

	out := ast.OutputStmt{Line: kw.Line}
	for {
		tok := p.peek()
		if tok.Kind == Newline {
			if tok.Lexeme != "$" {
				if len(out.Exprs) == 0 {
					return nil, parseErrf(tok.Line, ErrExpectedToken, "IPAKITA needs at least one value")
				}
				return out, nil
			}
			p.next()
			out.Exprs = append(out.Exprs, ast.StringLit{Value: "\n", Line: tok.Line})
			continue
		}
		if !startsExpr(tok.Kind) {
			if len(out.Exprs) == 0 {
				return nil, parseErrf(tok.Line, ErrExpectedToken, "IPAKITA needs at least one value")
			}
			return out, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out.Exprs = append(out.Exprs, expr)
	}
}

func startsExpr(k TokenKind) bool {
	switch k {
	case IntLit, FloatLit, CharLit, StringLit, BoolTrue, BoolFalse,
		Ident, LParen, Minus, Plus, Not, PlusPlus:
		return true
	default:
		return false
	}
}

func (p *Parser) parseInput() (ast.Statement, error) {
	kw := p.next()
	if _, err := p.expect(Colon, ":"); err != nil {
		return nil, err
	}
	in := ast.InputStmt{Line: kw.Line}
	for {
		name := p.peek()
		if name.Kind != Ident {
			if isKeywordToken(name.Kind) {
				return nil, parseErrf(name.Line, ErrReserved, "%s is a reserved keyword", name.Lexeme)
			}
			return nil, parseErrf(name.Line, ErrExpectedToken, "expected a variable name, got %q", name.Lexeme)
		}
		p.next()
		if err := p.checkDeclared(name); err != nil {
			return nil, err
		}
		in.Names = append(in.Names, name.Lexeme)
		if p.peek().Kind != Comma {
			return in, nil
		}
		p.next()
	}
}

func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(LParen, "("); err != nil {
		return nil, err
	}
	p.insideConditional = true
	cond, err := p.parseExpr()
	p.insideConditional = false
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen, ")"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseBlock reads PUNDOK { ... }. ifBody turns on the empty-statement
// tolerance used by then/else bodies.
func (p *Parser) parseBlock(ifBody bool) (*ast.Block, error) {
	p.skipNewlines()
	if _, err := p.expect(BlockKw, "PUNDOK"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(BlockStart, "{"); err != nil {
		return nil, err
	}
	saved := p.insideIfBlock
	p.insideIfBlock = ifBody
	defer func() { p.insideIfBlock = saved }()

	block := &ast.Block{}
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind == BlockEnd {
			p.next()
			if ifBody && len(block.Statements) == 0 {
				block.Statements = append(block.Statements, ast.EmptyStmt{Line: tok.Line})
			}
			return block, nil
		}
		if tok.Kind == EOF || tok.Kind == End {
			return nil, parseErrf(tok.Line, ErrExpectedToken, "missing } for PUNDOK block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
}

func (p *Parser) parseIf() (ast.Statement, error) {
	kw := p.next()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}
	stmt := ast.IfStmt{Branches: []ast.IfBranch{{Cond: cond, Body: body}}, Line: kw.Line}
	for {
		mark := p.pos
		p.skipNewlines()
		if p.peek().Kind != If {
			p.pos = mark
			return stmt, nil
		}
		switch p.peekAt(1).Kind {
		case Not: // KUNG DILI: else-if branch
			p.next()
			p.next()
			cond, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock(true)
			if err != nil {
				return nil, err
			}
			stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: cond, Body: body})
		case Else: // KUNG WALA: final else block
			p.next()
			p.next()
			body, err := p.parseBlock(true)
			if err != nil {
				return nil, err
			}
			stmt.Else = body
			return stmt, nil
		default:
			p.pos = mark
			return stmt, nil
		}
	}
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	kw := p.next()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Cond: cond, Body: body, Line: kw.Line}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	kw := p.next()
	if _, err := p.expect(In, "SA"); err != nil {
		return nil, err
	}
	if _, err := p.expect(LParen, "("); err != nil {
		return nil, err
	}
	initStmt, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	init, ok := initStmt.(ast.AssignStmt)
	if !ok {
		return nil, parseErrf(kw.Line, ErrExpectedToken, "for-loop initialization must be an assignment")
	}
	if _, err := p.expect(Comma, ","); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Comma, ","); err != nil {
		return nil, err
	}
	update, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RParen, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body, Line: kw.Line}, nil
}
