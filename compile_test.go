package bisaya_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gosuda/bisaya"
	bruntime "github.com/gosuda/bisaya/runtime"
)

func runSource(t *testing.T, src string, input ...string) string {
	t.Helper()
	it, err := bisaya.Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	it.EnqueueInput(input...)
	out, err := it.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var b strings.Builder
	for _, o := range out {
		b.WriteString(o.Text)
	}
	return b.String()
}

func TestArithmeticWithBracketEscapes(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA NUMERO xyz, abc=100  xyz=((abc*5)/10+10)*-1  IPAKITA:[[]&xyz&[]] KATAPUSAN`)
	if got != "[-60]" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestForLoopCountsToTen(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA NUMERO ctr  ALANG SA(ctr=1, ctr<=10, ctr++) PUNDOK{ IPAKITA: ctr & ' ' } KATAPUSAN`)
	if strings.TrimSpace(got) != "1 2 3 4 5 6 7 8 9 10" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestElseIfChain(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA NUMERO score=75 KUNG(score>=90)PUNDOK{IPAKITA:"A"} KUNG DILI(score>=80)PUNDOK{IPAKITA:"B"} KUNG DILI(score>=70)PUNDOK{IPAKITA:"C"} KUNG WALA PUNDOK{IPAKITA:"F"} KATAPUSAN`)
	if got != "C" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestFibonacciSequence(t *testing.T) {
	got := runSource(t, `
SUGOD
MUGNA NUMERO n=10, a=0, b=1, ctr=1, tmp
IPAKITA: "Fibonacci sequence: "
SAMTANG (ctr<=n) PUNDOK{
    IPAKITA: b & ' '
    tmp=a+b
    a=b
    b=tmp
    ctr++
}
KATAPUSAN
`)
	if strings.TrimSpace(got) != "Fibonacci sequence: 1 1 2 3 5 8 13 21 34 55" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestDollarEmitsNewline(t *testing.T) {
	got := runSource(t, `SUGOD IPAKITA:"Resulta:" & $ & "Katapusan sa Linya" KATAPUSAN`)
	if got != "Resulta:\nKatapusan sa Linya" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestIncrementStatement(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA NUMERO i=0  i++  IPAKITA:i KATAPUSAN`)
	if got != "1" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestExpressionIncrementDoesNotStore(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA NUMERO i=1 IPAKITA: i++ & " " & i KATAPUSAN`)
	if got != "2 1" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestSinglePrecisionRounding(t *testing.T) {
	got := runSource(t, `SUGOD MUGNA TIPIK x=0.1+0.2 IPAKITA:x KATAPUSAN`)
	if got != "0.3" {
		t.Fatalf("unexpected output: %q", got)
	}

	got = runSource(t, `
SUGOD
MUGNA TIPIK a=5.5, b=2.2, r
r = (a * b) / (a - b) + 100
IPAKITA: r
KATAPUSAN
`)
	if got != "103.666664" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestIntegralFloatKeepsDecimal(t *testing.T) {
	got := runSource(t, `
SUGOD
MUGNA TIPIK x = 10.0
x = x * 3
IPAKITA: x
KATAPUSAN
`)
	if got != "30.0" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestBooleanWordsAndLogic(t *testing.T) {
	got := runSource(t, `
SUGOD
MUGNA TINUOD t="OO", f="DILI"
IPAKITA: t & ' ' & f & ' ' & (t UG f) & ' ' & (t O f) & ' ' & (DILI t)
KATAPUSAN
`)
	if got != "OO DILI DILI OO DILI" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInputAssignsInOrder(t *testing.T) {
	got := runSource(t, `
SUGOD
MUGNA NUMERO a, b
DAWAT: a, b
IPAKITA: a + b
KATAPUSAN
`, "3", "4")
	if got != "7" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInputEmptyLineFails(t *testing.T) {
	it, err := bisaya.Compile(`SUGOD MUGNA NUMERO a DAWAT: a KATAPUSAN`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	it.EnqueueInput("")
	_, err = it.Run()
	var rerr *bruntime.RuntimeError
	if !errors.As(err, &rerr) || rerr.Kind != bruntime.ErrInputInvalid {
		t.Fatalf("expected input-invalid, got %v", err)
	}
}

func TestForMatchesWhileTranscription(t *testing.T) {
	forOut := runSource(t, `
SUGOD
MUGNA NUMERO i, sum=0
ALANG SA (i=1, i<=5, i++) PUNDOK{
    sum = sum + i
    IPAKITA: sum & ' '
}
KATAPUSAN
`)
	whileOut := runSource(t, `
SUGOD
MUGNA NUMERO i, sum=0
i=1
SAMTANG (i<=5) PUNDOK{
    sum = sum + i
    IPAKITA: sum & ' '
    i++
}
KATAPUSAN
`)
	if forOut != whileOut {
		t.Fatalf("for output %q differs from while output %q", forOut, whileOut)
	}
}

func TestCompoundAssignment(t *testing.T) {
	got := runSource(t, `
SUGOD
MUGNA NUMERO x=10
x += 5
x -= 3
x *= 2
x /= 4
x %= 4
IPAKITA: x
KATAPUSAN
`)
	if got != "2" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestIntegerOverflowIsChecked(t *testing.T) {
	it, err := bisaya.Compile(`SUGOD MUGNA NUMERO x=2147483647 x += 1 KATAPUSAN`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	_, err = it.Run()
	var rerr *bruntime.RuntimeError
	if !errors.As(err, &rerr) || rerr.Kind != bruntime.ErrIntOverflow {
		t.Fatalf("expected integer-overflow, got %v", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	it, err := bisaya.Compile(`SUGOD MUGNA NUMERO x x = 1/0 KATAPUSAN`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	_, err = it.Run()
	var rerr *bruntime.RuntimeError
	if !errors.As(err, &rerr) || rerr.Kind != bruntime.ErrDivByZero {
		t.Fatalf("expected division-by-zero, got %v", err)
	}
}

func TestConditionMustBeBoolean(t *testing.T) {
	it, err := bisaya.Compile(`SUGOD MUGNA NUMERO x=1 KUNG(x)PUNDOK{IPAKITA:"a"} KATAPUSAN`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	_, err = it.Run()
	var rerr *bruntime.RuntimeError
	if !errors.As(err, &rerr) || rerr.Kind != bruntime.ErrTypeMismatch {
		t.Fatalf("expected type-mismatch, got %v", err)
	}
}
