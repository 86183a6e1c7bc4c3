package bruntime

import (
	"math"
	"strconv"

	"github.com/gosuda/bisaya/ast"
)

func (it *Interp) evalExpr(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case ast.IntLit:
		return Int(e.Value), nil
	case ast.FloatLit:
		return Float(e.Value), nil
	case ast.CharLit:
		return Char(e.Value), nil
	case ast.BoolLit:
		return Bool(e.Value), nil
	case ast.StringLit:
		return Str(e.Value), nil
	case ast.VarRef:
		v, ok := it.env[e.Name]
		if !ok {
			return Value{}, runErrf(e.Line, ErrUndeclared, "variable %s is not declared", e.Name)
		}
		return v, nil
	case ast.GroupExpr:
		return it.evalExpr(e.Expr)
	case ast.UnaryExpr:
		return it.evalUnary(e)
	case ast.BinaryExpr:
		l, err := it.evalExpr(e.Left)
		if err != nil {
			return Value{}, err
		}
		r, err := it.evalExpr(e.Right)
		if err != nil {
			return Value{}, err
		}
		return it.evalBinaryOp(e.Op, l, r, e.Line)
	case ast.IncExpr:
		return it.incrementedValue(e.Name, e.Line)
	case ast.AssignExpr:
		return it.evalAssignExpr(e)
	default:
		return Value{}, runErrf(expr.ExprLine(), ErrTypeMismatch, "unknown expression")
	}
}

func (it *Interp) evalAssignExpr(e ast.AssignExpr) (Value, error) {
	kind, ok := it.kinds[e.Name]
	if !ok {
		return Value{}, runErrf(e.Line, ErrUndeclared, "variable %s is not declared", e.Name)
	}
	v, err := it.evalExpr(e.Expr)
	if err != nil {
		return Value{}, err
	}
	cv, err := it.coerce(v, kind, e.Name, e.Line)
	if err != nil {
		return Value{}, err
	}
	it.env[e.Name] = cv
	return cv, nil
}

func (it *Interp) evalUnary(e ast.UnaryExpr) (Value, error) {
	v, err := it.evalExpr(e.Expr)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case "NOT":
		if v.Kind() != BoolKind {
			return Value{}, runErrf(e.Line, ErrTypeMismatch, "NOT needs TINUOD, got %s", v.KindName())
		}
		return Bool(!v.Bool()), nil
	case "-":
		n, err := asNumber(v, e.Line, "-")
		if err != nil {
			return Value{}, err
		}
		if n.Kind() == FloatKind {
			return Float(-n.Float32()), nil
		}
		r, err := checkedSub(0, n.Int32(), e.Line)
		if err != nil {
			return Value{}, err
		}
		return Int(r), nil
	case "+":
		return asNumber(v, e.Line, "+")
	default:
		return Value{}, runErrf(e.Line, ErrTypeMismatch, "unknown unary operator %s", e.Op)
	}
}

func (it *Interp) evalBinaryOp(op string, l, r Value, line int) (Value, error) {
	switch op {
	case "&":
		return Str(l.Display() + r.Display()), nil
	case "UG", "O":
		if l.Kind() != BoolKind || r.Kind() != BoolKind {
			return Value{}, runErrf(line, ErrTypeMismatch,
				"%s needs TINUOD operands, got %s and %s", op, l.KindName(), r.KindName())
		}
		if op == "UG" {
			return Bool(l.Bool() && r.Bool()), nil
		}
		return Bool(l.Bool() || r.Bool()), nil
	case "==", "<>":
		return equalityOp(op, l, r, line)
	case ">", "<", ">=", "<=":
		return relationalOp(op, l, r, line)
	case "+", "-", "*", "/", "%":
		return arithmeticOp(op, l, r, line)
	default:
		return Value{}, runErrf(line, ErrTypeMismatch, "unknown operator %s", op)
	}
}

func equalityOp(op string, l, r Value, line int) (Value, error) {
	if l.Kind() == r.Kind() {
		switch l.Kind() {
		case CharKind:
			return boolResult(op == "==", l.Rune() == r.Rune()), nil
		case StringKind:
			return boolResult(op == "==", l.Display() == r.Display()), nil
		case BoolKind:
			return boolResult(op == "==", l.Bool() == r.Bool()), nil
		}
	}
	ln, rn, isFloat, err := numericPair(op, l, r, line)
	if err != nil {
		return Value{}, err
	}
	if isFloat {
		return boolResult(op == "==", ln.Float32() == rn.Float32()), nil
	}
	return boolResult(op == "==", ln.Int32() == rn.Int32()), nil
}

func boolResult(wantEqual, equal bool) Value {
	if wantEqual {
		return Bool(equal)
	}
	return Bool(!equal)
}

func relationalOp(op string, l, r Value, line int) (Value, error) {
	ln, rn, isFloat, err := numericPair(op, l, r, line)
	if err != nil {
		return Value{}, err
	}
	var cmp int
	if isFloat {
		switch {
		case ln.Float32() < rn.Float32():
			cmp = -1
		case ln.Float32() > rn.Float32():
			cmp = 1
		}
	} else {
		switch {
		case ln.Int32() < rn.Int32():
			cmp = -1
		case ln.Int32() > rn.Int32():
			cmp = 1
		}
	}
	switch op {
	case ">":
		return Bool(cmp > 0), nil
	case "<":
		return Bool(cmp < 0), nil
	case ">=":
		return Bool(cmp >= 0), nil
	default:
		return Bool(cmp <= 0), nil
	}
}

func arithmeticOp(op string, l, r Value, line int) (Value, error) {
	ln, rn, isFloat, err := numericPair(op, l, r, line)
	if err != nil {
		return Value{}, err
	}
	if isFloat {
		a, b := ln.Float32(), rn.Float32()
		switch op {
		case "+":
			return Float(a + b), nil
		case "-":
			return Float(a - b), nil
		case "*":
			return Float(a * b), nil
		case "/":
			if b == 0 {
				return Value{}, runErrf(line, ErrDivByZero, "division by zero")
			}
			return Float(a / b), nil
		default:
			if b == 0 {
				return Value{}, runErrf(line, ErrDivByZero, "modulo by zero")
			}
			return Float(float32(math.Mod(float64(a), float64(b)))), nil
		}
	}
	a, b := ln.Int32(), rn.Int32()
	switch op {
	case "+":
		n, err := checkedAdd(a, b, line)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case "-":
		n, err := checkedSub(a, b, line)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case "*":
		n, err := checkedMul(a, b, line)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case "/":
		if b == 0 {
			return Value{}, runErrf(line, ErrDivByZero, "division by zero")
		}
		return Int(a / b), nil
	default:
		if b == 0 {
			return Value{}, runErrf(line, ErrDivByZero, "modulo by zero")
		}
		return Int(a % b), nil
	}
}

// numericPair coerces both operands to numbers and promotes to float
// when the sides disagree. Strings that parse as numbers are accepted.
func numericPair(op string, l, r Value, line int) (Value, Value, bool, error) {
	ln, err := asNumber(l, line, op)
	if err != nil {
		return Value{}, Value{}, false, err
	}
	rn, err := asNumber(r, line, op)
	if err != nil {
		return Value{}, Value{}, false, err
	}
	if ln.Kind() == FloatKind || rn.Kind() == FloatKind {
		if ln.Kind() == IntKind {
			ln = Float(float32(ln.Int32()))
		}
		if rn.Kind() == IntKind {
			rn = Float(float32(rn.Int32()))
		}
		return ln, rn, true, nil
	}
	return ln, rn, false, nil
}

func asNumber(v Value, line int, op string) (Value, error) {
	switch v.Kind() {
	case IntKind, FloatKind:
		return v, nil
	case StringKind:
		if n, err := strconv.ParseInt(v.Display(), 10, 32); err == nil {
			return Int(int32(n)), nil
		}
		if f, err := strconv.ParseFloat(v.Display(), 32); err == nil {
			return Float(float32(f)), nil
		}
	}
	return Value{}, runErrf(line, ErrTypeMismatch, "%s needs a number, got %s %q", op, v.KindName(), v.Display())
}

func checkedAdd(a, b int32, line int) (int32, error) {
	n := int64(a) + int64(b)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, runErrf(line, ErrIntOverflow, "integer overflow in %d + %d", a, b)
	}
	return int32(n), nil
}

func checkedSub(a, b int32, line int) (int32, error) {
	n := int64(a) - int64(b)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, runErrf(line, ErrIntOverflow, "integer overflow in %d - %d", a, b)
	}
	return int32(n), nil
}

func checkedMul(a, b int32, line int) (int32, error) {
	n := int64(a) * int64(b)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, runErrf(line, ErrIntOverflow, "integer overflow in %d * %d", a, b)
	}
	return int32(n), nil
}
