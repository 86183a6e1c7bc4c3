package bruntime

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosuda/bisaya/ast"
)

// Output is one chunk of program output. Newlines appear only inside
// Text, placed there by $ items; nothing is appended implicitly.
type Output struct {
	Text string
}

// Interp walks one program against a single flat environment. The same
// instance can keep executing further statements afterwards, which is
// how the interactive session carries variables across lines.
type Interp struct {
	program       *ast.Program
	env           map[string]Value
	kinds         map[string]ast.VarKind
	outputs       []Output
	outputHook    func(Output)
	inputProvider InputProvider
	inputQueue    []string
}

func New(program *ast.Program) *Interp {
	return &Interp{
		program: program,
		env:     map[string]Value{},
		kinds:   map[string]ast.VarKind{},
	}
}

// SetOutputHook registers a callback invoked for every output chunk as
// it is produced, before Run returns. The chunk is still recorded.
func (it *Interp) SetOutputHook(hook func(Output)) {
	it.outputHook = hook
}

func (it *Interp) emitOutput(o Output) {
	it.outputs = append(it.outputs, o)
	if it.outputHook != nil {
		it.outputHook(o)
	}
}

// Run executes the whole program against a fresh environment and
// returns everything it printed.
func (it *Interp) Run() ([]Output, error) {
	it.env = map[string]Value{}
	it.kinds = map[string]ast.VarKind{}
	it.outputs = it.outputs[:0]
	if err := it.runStatements(it.program.Statements); err != nil {
		return nil, err
	}
	return append([]Output(nil), it.outputs...), nil
}

// Exec executes statements against the existing environment and
// returns only the output produced by this call. Used by the
// interactive session, where declarations persist between lines.
func (it *Interp) Exec(stmts []ast.Statement) ([]Output, error) {
	mark := len(it.outputs)
	if err := it.runStatements(stmts); err != nil {
		return nil, err
	}
	return append([]Output(nil), it.outputs[mark:]...), nil
}

// Vars returns a copy of the declared kinds, keyed by name.
func (it *Interp) Vars() map[string]ast.VarKind {
	cp := make(map[string]ast.VarKind, len(it.kinds))
	for k, v := range it.kinds {
		cp[k] = v
	}
	return cp
}

// Lookup reports the current value of a variable.
func (it *Interp) Lookup(name string) (Value, bool) {
	v, ok := it.env[name]
	return v, ok
}

func (it *Interp) runStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := it.runStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interp) runStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.DeclStmt:
		return it.runDecl(s)
	case ast.AssignStmt:
		return it.runAssign(s)
	case ast.IncStmt:
		return it.runIncrement(s.Name, s.Line)
	case ast.InputStmt:
		return it.runInput(s)
	case ast.OutputStmt:
		return it.runOutput(s)
	case ast.IfStmt:
		return it.runIf(s)
	case ast.WhileStmt:
		return it.runWhile(s)
	case ast.ForStmt:
		return it.runFor(s)
	case ast.EmptyStmt:
		return nil
	default:
		return runErrf(stmt.StmtLine(), ErrTypeMismatch, "unknown statement")
	}
}

func (it *Interp) runDecl(s ast.DeclStmt) error {
	for _, item := range s.Items {
		v := zeroValue(s.Kind)
		if item.Init != nil {
			raw, err := it.evalExpr(item.Init)
			if err != nil {
				return err
			}
			cv, err := it.coerce(raw, s.Kind, item.Name, item.Line)
			if err != nil {
				return err
			}
			v = cv
		}
		it.kinds[item.Name] = s.Kind
		it.env[item.Name] = v
	}
	return nil
}

func (it *Interp) runAssign(s ast.AssignStmt) error {
	kind, ok := it.kinds[s.Name]
	if !ok {
		return runErrf(s.Line, ErrUndeclared, "variable %s is not declared", s.Name)
	}
	v, err := it.evalExpr(s.Expr)
	if err != nil {
		return err
	}
	if s.Op != "=" {
		cur := it.env[s.Name]
		v, err = it.evalBinaryOp(strings.TrimSuffix(s.Op, "="), cur, v, s.Line)
		if err != nil {
			return err
		}
	}
	cv, err := it.coerce(v, kind, s.Name, s.Line)
	if err != nil {
		return err
	}
	it.env[s.Name] = cv
	return nil
}

func (it *Interp) runIncrement(name string, line int) error {
	v, err := it.incrementedValue(name, line)
	if err != nil {
		return err
	}
	it.env[name] = v
	return nil
}

// incrementedValue fetches name and returns its checked successor
// without storing it. Statement-level ++ and the for-loop update store
// the result; expression-level ++ only yields it.
func (it *Interp) incrementedValue(name string, line int) (Value, error) {
	v, ok := it.env[name]
	if !ok {
		return Value{}, runErrf(line, ErrUndeclared, "variable %s is not declared", name)
	}
	if v.Kind() != IntKind {
		return Value{}, runErrf(line, ErrTypeMismatch, "++ needs a NUMERO variable, %s is %s", name, v.KindName())
	}
	n, err := checkedAdd(v.Int32(), 1, line)
	if err != nil {
		return Value{}, err
	}
	return Int(n), nil
}

func (it *Interp) runInput(s ast.InputStmt) error {
	for _, name := range s.Names {
		kind, ok := it.kinds[name]
		if !ok {
			return runErrf(s.Line, ErrUndeclared, "variable %s is not declared", name)
		}
		line, err := it.readLine(s.Line)
		if err != nil {
			return err
		}
		if line == "" {
			return runErrf(s.Line, ErrInputInvalid, "empty input for %s", name)
		}
		cv, err := it.coerce(Str(line), kind, name, s.Line)
		if err != nil {
			return err
		}
		it.env[name] = cv
	}
	return nil
}

func (it *Interp) runOutput(s ast.OutputStmt) error {
	var b strings.Builder
	for _, e := range s.Exprs {
		v, err := it.evalExpr(e)
		if err != nil {
			return err
		}
		b.WriteString(v.Display())
	}
	it.emitOutput(Output{Text: b.String()})
	return nil
}

func (it *Interp) runIf(s ast.IfStmt) error {
	for _, br := range s.Branches {
		ok, err := it.evalCondition(br.Cond)
		if err != nil {
			return err
		}
		if ok {
			return it.runStatements(br.Body.Statements)
		}
	}
	if s.Else != nil {
		return it.runStatements(s.Else.Statements)
	}
	return nil
}

func (it *Interp) runWhile(s ast.WhileStmt) error {
	for {
		ok, err := it.evalCondition(s.Cond)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := it.runStatements(s.Body.Statements); err != nil {
			return err
		}
	}
}

func (it *Interp) runFor(s ast.ForStmt) error {
	if err := it.runAssign(s.Init); err != nil {
		return err
	}
	for {
		v, err := it.evalExpr(s.Cond)
		if err != nil {
			return err
		}
		if !v.Truthy() {
			return nil
		}
		if err := it.runStatements(s.Body.Statements); err != nil {
			return err
		}
		if err := it.runForUpdate(s.Update); err != nil {
			return err
		}
	}
}

// runForUpdate applies the third header slot. An increment there is the
// one expression-position ++ that stores its result; anything else runs
// for its side effects.
func (it *Interp) runForUpdate(update ast.Expr) error {
	if inc, ok := update.(ast.IncExpr); ok {
		return it.runIncrement(inc.Name, inc.Line)
	}
	_, err := it.evalExpr(update)
	return err
}

func (it *Interp) evalCondition(cond ast.Expr) (bool, error) {
	v, err := it.evalExpr(cond)
	if err != nil {
		return false, err
	}
	if v.Kind() != BoolKind {
		return false, runErrf(cond.ExprLine(), ErrTypeMismatch, "condition is %s, not TINUOD", v.KindName())
	}
	return v.Bool(), nil
}

// coerce converts v to the declared kind of name, or reports a
// type-mismatch naming the variable, the value and both kinds.
func (it *Interp) coerce(v Value, kind ast.VarKind, name string, line int) (Value, error) {
	switch kind {
	case ast.IntKind:
		switch v.Kind() {
		case IntKind:
			return v, nil
		case FloatKind:
			return Int(int32(v.Float32())), nil
		case StringKind:
			if n, err := strconv.ParseInt(v.Display(), 10, 32); err == nil {
				return Int(int32(n)), nil
			}
			if f, err := strconv.ParseFloat(v.Display(), 32); err == nil {
				return Int(int32(f)), nil
			}
		}
	case ast.FloatKind:
		switch v.Kind() {
		case FloatKind:
			return v, nil
		case IntKind:
			return Float(float32(v.Int32())), nil
		case StringKind:
			if f, err := strconv.ParseFloat(v.Display(), 32); err == nil {
				return Float(float32(f)), nil
			}
		}
	case ast.CharKind:
		switch v.Kind() {
		case CharKind:
			return v, nil
		case StringKind:
			if utf8.RuneCountInString(v.Display()) == 1 {
				r, _ := utf8.DecodeRuneInString(v.Display())
				return Char(r), nil
			}
		}
	case ast.BoolKind:
		switch v.Kind() {
		case BoolKind:
			return v, nil
		case StringKind:
			switch v.Display() {
			case "OO":
				return Bool(true), nil
			case "DILI":
				return Bool(false), nil
			}
		}
	case ast.StringKind:
		return Str(v.Display()), nil
	}
	return Value{}, runErrf(line, ErrTypeMismatch,
		"cannot store %q (%s) into %s %s", v.Display(), v.KindName(), kind, name)
}
