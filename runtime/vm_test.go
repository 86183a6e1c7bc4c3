package bruntime

import (
	"errors"
	"math"
	"testing"

	"github.com/gosuda/bisaya/ast"
	"github.com/stretchr/testify/require"
)

func newInterp() *Interp {
	return New(&ast.Program{})
}

func requireRunErr(t *testing.T, err error, kind string) {
	t.Helper()
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr), "expected runtime error, got %v", err)
	require.Equal(t, kind, rerr.Kind)
}

func TestCoerceToDeclaredKind(t *testing.T) {
	it := newInterp()

	v, err := it.coerce(Float(3.9), ast.IntKind, "x", 1)
	require.NoError(t, err)
	require.Equal(t, int32(3), v.Int32())

	v, err = it.coerce(Str("12"), ast.IntKind, "x", 1)
	require.NoError(t, err)
	require.Equal(t, int32(12), v.Int32())

	v, err = it.coerce(Int(7), ast.FloatKind, "x", 1)
	require.NoError(t, err)
	require.Equal(t, float32(7), v.Float32())

	v, err = it.coerce(Str("A"), ast.CharKind, "x", 1)
	require.NoError(t, err)
	require.Equal(t, 'A', v.Rune())

	_, err = it.coerce(Str("AB"), ast.CharKind, "x", 1)
	requireRunErr(t, err, ErrTypeMismatch)

	v, err = it.coerce(Str("OO"), ast.BoolKind, "x", 1)
	require.NoError(t, err)
	require.True(t, v.Bool())

	_, err = it.coerce(Str("yes"), ast.BoolKind, "x", 1)
	requireRunErr(t, err, ErrTypeMismatch)

	v, err = it.coerce(Bool(false), ast.StringKind, "x", 1)
	require.NoError(t, err)
	require.Equal(t, "DILI", v.Display())

	_, err = it.coerce(Bool(true), ast.IntKind, "x", 1)
	requireRunErr(t, err, ErrTypeMismatch)
}

func TestArithmeticPromotion(t *testing.T) {
	it := newInterp()

	v, err := it.evalBinaryOp("+", Int(1), Int(2), 1)
	require.NoError(t, err)
	require.Equal(t, IntKind, v.Kind())
	require.Equal(t, int32(3), v.Int32())

	v, err = it.evalBinaryOp("*", Float(10), Int(3), 1)
	require.NoError(t, err)
	require.Equal(t, FloatKind, v.Kind())
	require.Equal(t, float32(30), v.Float32())

	v, err = it.evalBinaryOp("+", Str("4"), Int(1), 1)
	require.NoError(t, err)
	require.Equal(t, int32(5), v.Int32())

	_, err = it.evalBinaryOp("+", Bool(true), Int(1), 1)
	requireRunErr(t, err, ErrTypeMismatch)
}

func TestCheckedIntegerArithmetic(t *testing.T) {
	it := newInterp()

	_, err := it.evalBinaryOp("+", Int(math.MaxInt32), Int(1), 1)
	requireRunErr(t, err, ErrIntOverflow)

	_, err = it.evalBinaryOp("-", Int(math.MinInt32), Int(1), 1)
	requireRunErr(t, err, ErrIntOverflow)

	_, err = it.evalBinaryOp("*", Int(1<<16), Int(1<<16), 1)
	requireRunErr(t, err, ErrIntOverflow)

	_, err = it.evalBinaryOp("/", Int(1), Int(0), 1)
	requireRunErr(t, err, ErrDivByZero)

	_, err = it.evalBinaryOp("%", Int(1), Int(0), 1)
	requireRunErr(t, err, ErrDivByZero)
}

func TestEqualityAcrossKinds(t *testing.T) {
	it := newInterp()

	v, err := it.evalBinaryOp("==", Char('a'), Char('a'), 1)
	require.NoError(t, err)
	require.True(t, v.Bool())

	v, err = it.evalBinaryOp("<>", Str("x"), Str("y"), 1)
	require.NoError(t, err)
	require.True(t, v.Bool())

	v, err = it.evalBinaryOp("==", Bool(true), Bool(false), 1)
	require.NoError(t, err)
	require.False(t, v.Bool())

	v, err = it.evalBinaryOp("==", Int(3), Float(3), 1)
	require.NoError(t, err)
	require.True(t, v.Bool())
}

func TestLogicalOperandsMustBeBoolean(t *testing.T) {
	it := newInterp()

	v, err := it.evalBinaryOp("UG", Bool(true), Bool(false), 1)
	require.NoError(t, err)
	require.False(t, v.Bool())

	v, err = it.evalBinaryOp("O", Bool(true), Bool(false), 1)
	require.NoError(t, err)
	require.True(t, v.Bool())

	_, err = it.evalBinaryOp("UG", Int(1), Bool(true), 1)
	requireRunErr(t, err, ErrTypeMismatch)
}

func TestFloatModulo(t *testing.T) {
	it := newInterp()
	v, err := it.evalBinaryOp("%", Float(7.5), Float(2), 1)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), v.Float32())
}

func TestExpressionIncrementLeavesVariable(t *testing.T) {
	it := newInterp()
	_, err := it.Exec([]ast.Statement{
		ast.DeclStmt{Kind: ast.IntKind, Items: []ast.DeclItem{{Name: "i", Line: 1, Init: ast.IntLit{Value: 1, Line: 1}}}, Line: 1},
	})
	require.NoError(t, err)

	v, err := it.evalExpr(ast.IncExpr{Name: "i", Line: 1})
	require.NoError(t, err)
	require.Equal(t, int32(2), v.Int32())

	cur, ok := it.Lookup("i")
	require.True(t, ok)
	require.Equal(t, int32(1), cur.Int32())

	require.NoError(t, it.runStatement(ast.IncStmt{Name: "i", Line: 1}))
	cur, _ = it.Lookup("i")
	require.Equal(t, int32(2), cur.Int32())
}

func TestInputQueueBeforeProvider(t *testing.T) {
	it := newInterp()
	_, err := it.Exec([]ast.Statement{
		ast.DeclStmt{Kind: ast.IntKind, Items: []ast.DeclItem{{Name: "a", Line: 1}, {Name: "b", Line: 1}}, Line: 1},
	})
	require.NoError(t, err)

	it.EnqueueInput("5")
	it.SetInputProvider(func() (string, error) { return "9", nil })

	_, err = it.Exec([]ast.Statement{ast.InputStmt{Names: []string{"a", "b"}, Line: 1}})
	require.NoError(t, err)

	a, _ := it.Lookup("a")
	b, _ := it.Lookup("b")
	require.Equal(t, int32(5), a.Int32())
	require.Equal(t, int32(9), b.Int32())
}

func TestInputWithoutSourceFails(t *testing.T) {
	it := newInterp()
	_, err := it.Exec([]ast.Statement{
		ast.DeclStmt{Kind: ast.IntKind, Items: []ast.DeclItem{{Name: "a", Line: 1}}, Line: 1},
		ast.InputStmt{Names: []string{"a"}, Line: 2},
	})
	requireRunErr(t, err, ErrInputInvalid)
}

func TestOutputHookSeesEveryChunk(t *testing.T) {
	it := newInterp()
	var seen []string
	it.SetOutputHook(func(o Output) { seen = append(seen, o.Text) })

	_, err := it.Exec([]ast.Statement{
		ast.OutputStmt{Exprs: []ast.Expr{ast.StringLit{Value: "a", Line: 1}}, Line: 1},
		ast.OutputStmt{Exprs: []ast.Expr{ast.StringLit{Value: "b", Line: 2}}, Line: 2},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestExecKeepsEnvironmentAcrossCalls(t *testing.T) {
	it := newInterp()
	_, err := it.Exec([]ast.Statement{
		ast.DeclStmt{Kind: ast.IntKind, Items: []ast.DeclItem{{Name: "n", Line: 1, Init: ast.IntLit{Value: 41, Line: 1}}}, Line: 1},
	})
	require.NoError(t, err)

	out, err := it.Exec([]ast.Statement{
		ast.AssignStmt{Name: "n", Op: "+=", Expr: ast.IntLit{Value: 1, Line: 1}, Line: 1},
		ast.OutputStmt{Exprs: []ast.Expr{ast.VarRef{Name: "n", Line: 1}}, Line: 1},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "42", out[0].Text)

	require.Equal(t, map[string]ast.VarKind{"n": ast.IntKind}, it.Vars())
}
