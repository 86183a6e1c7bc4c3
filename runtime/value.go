package bruntime

import (
	"math"
	"strconv"

	"github.com/gosuda/bisaya/ast"
)

type ValueKind int

const (
	IntKind ValueKind = iota
	FloatKind
	CharKind
	BoolKind
	StringKind
)

// Value is the tagged runtime cell. Exactly one payload field is
// meaningful, selected by kind.
type Value struct {
	kind ValueKind
	i    int32
	f    float32
	c    rune
	b    bool
	s    string
}

func Int(v int32) Value {
	return Value{kind: IntKind, i: v}
}

func Float(v float32) Value {
	return Value{kind: FloatKind, f: v}
}

func Char(v rune) Value {
	return Value{kind: CharKind, c: v}
}

func Bool(v bool) Value {
	return Value{kind: BoolKind, b: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) Int32() int32 {
	return v.i
}

func (v Value) Float32() float32 {
	return v.f
}

func (v Value) Rune() rune {
	return v.c
}

func (v Value) Bool() bool {
	return v.b
}

// Display renders the value the way IPAKITA prints it. Booleans come
// out as the words OO and DILI; a float that is mathematically integral
// keeps one trailing decimal, all others use the shortest
// single-precision form.
func (v Value) Display() string {
	switch v.kind {
	case IntKind:
		return strconv.FormatInt(int64(v.i), 10)
	case FloatKind:
		f := float64(v.f)
		if math.Trunc(f) == f && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', 1, 32)
		}
		return strconv.FormatFloat(f, 'f', -1, 32)
	case CharKind:
		return string(v.c)
	case BoolKind:
		if v.b {
			return "OO"
		}
		return "DILI"
	case StringKind:
		return v.s
	default:
		return ""
	}
}

// Truthy is the loop notion of truth. A boolean stands for itself;
// every other value counts as true.
func (v Value) Truthy() bool {
	if v.kind == BoolKind {
		return v.b
	}
	return true
}

// KindName reports the declared-type word for a runtime kind, used in
// type-mismatch diagnostics.
func (v Value) KindName() string {
	switch v.kind {
	case IntKind:
		return ast.IntKind.String()
	case FloatKind:
		return ast.FloatKind.String()
	case CharKind:
		return ast.CharKind.String()
	case BoolKind:
		return ast.BoolKind.String()
	case StringKind:
		return ast.StringKind.String()
	default:
		return "?"
	}
}

// zeroValue is the per-kind default a declaration starts from before
// any initializer runs.
func zeroValue(kind ast.VarKind) Value {
	switch kind {
	case ast.IntKind:
		return Int(0)
	case ast.FloatKind:
		return Float(0)
	case ast.CharKind:
		return Char(0)
	case ast.BoolKind:
		return Bool(false)
	default:
		return Str("")
	}
}
