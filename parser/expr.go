package parser

import (
	"strconv"

	"github.com/gosuda/bisaya/ast"
)

// Expression grammar, lowest precedence first: assignment, O, UG,
// equality, comparison, term (+ - &), factor (* / %), unary, primary.

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssign()
}

func (p *Parser) parseAssign() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != Assign {
		return left, nil
	}
	op := p.next()
	if p.insideConditional {
		return nil, parseErrf(op.Line, ErrExpectedToken, "assignment is not allowed inside a condition")
	}
	ref, ok := left.(ast.VarRef)
	if !ok {
		return nil, parseErrf(op.Line, ErrBadAssignTgt, "left side of = is not a variable")
	}
	right, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return ast.AssignExpr{Name: ref.Name, Expr: right, Line: ref.Line}, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == Or {
		op := p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "O", Left: left, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == And {
		op := p.next()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: "UG", Left: left, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == EqualEq || p.peek().Kind == NotEqual {
		op := p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, Line: op.Line}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().Kind
		if k != Greater && k != Less && k != GreaterEq && k != LessEq {
			return left, nil
		}
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, Line: op.Line}
	}
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().Kind
		if k != Plus && k != Minus && k != Concat {
			return left, nil
		}
		op := p.next()
		if k == Concat && !p.insideDisplay {
			return nil, parseErrf(op.Line, ErrExpectedToken, "& is only valid inside IPAKITA")
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, Line: op.Line}
	}
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		k := p.peek().Kind
		if k != Star && k != Slash && k != Percent {
			return left, nil
		}
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op.Lexeme, Left: left, Right: right, Line: op.Line}
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.peek().Kind {
	case Minus, Plus:
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: op.Lexeme, Expr: right, Line: op.Line}, nil
	case Not:
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "NOT", Expr: right, Line: op.Line}, nil
	case PlusPlus:
		op := p.next()
		name := p.next()
		if name.Kind != Ident {
			return nil, parseErrf(op.Line, ErrExpectedToken, "++ requires a variable")
		}
		if err := p.checkDeclared(name); err != nil {
			return nil, err
		}
		return ast.IncExpr{Name: name.Lexeme, Line: name.Line}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.next()
	switch tok.Kind {
	case IntLit:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 32)
		if err != nil {
			return nil, parseErrf(tok.Line, ErrExpectedToken, "invalid integer literal %q", tok.Lexeme)
		}
		return ast.IntLit{Value: int32(v), Line: tok.Line}, nil
	case FloatLit:
		v, err := strconv.ParseFloat(tok.Lexeme, 32)
		if err != nil {
			return nil, parseErrf(tok.Line, ErrExpectedToken, "invalid float literal %q", tok.Lexeme)
		}
		return ast.FloatLit{Value: float32(v), Line: tok.Line}, nil
	case CharLit:
		return ast.CharLit{Value: []rune(tok.Lexeme)[0], Line: tok.Line}, nil
	case StringLit:
		return ast.StringLit{Value: tok.Lexeme, Line: tok.Line}, nil
	case BoolTrue:
		return ast.BoolLit{Value: true, Line: tok.Line}, nil
	case BoolFalse:
		return ast.BoolLit{Value: false, Line: tok.Line}, nil
	case Ident:
		if err := p.checkDeclared(tok); err != nil {
			return nil, err
		}
		if p.peek().Kind == PlusPlus {
			p.next()
			return ast.IncExpr{Name: tok.Lexeme, Line: tok.Line}, nil
		}
		return ast.VarRef{Name: tok.Lexeme, Line: tok.Line}, nil
	case LParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != RParen {
			return nil, parseErrf(p.peek().Line, ErrExpectedToken, "missing )")
		}
		p.next()
		return ast.GroupExpr{Expr: inner, Line: tok.Line}, nil
	default:
		return nil, parseErrf(tok.Line, ErrExpectedToken, "unexpected token %q", tok.Lexeme)
	}
}

func (p *Parser) checkDeclared(tok Token) error {
	if _, ok := p.declared[tok.Lexeme]; !ok {
		return parseErrf(tok.Line, ErrUndeclared, "variable %s is not declared", tok.Lexeme)
	}
	return nil
}
