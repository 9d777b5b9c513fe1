package compiler

import (
	"reflect"
	"testing"

	"kompilator/internal/refmachine"
)

func TestCompileSimpleProgramSucceeds(t *testing.T) {
	src := `
DECLARE
	x, y
BEGIN
	x := 2;
	y := x + 3;
	WRITE y;
END
`
	result := Compile(src)
	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}
	if len(result.Program) == 0 {
		t.Fatal("expected non-empty program")
	}
	if last := result.Program[len(result.Program)-1]; last != "HALT" {
		t.Errorf("last line = %q, want HALT", last)
	}
}

func TestCompileArrayAndLoop(t *testing.T) {
	src := `
DECLARE
	a(1:10), i, sum
BEGIN
	sum := 0;
	FOR i FROM 1 TO 10 DO
		a(i) := i;
		sum := sum + a(i);
	ENDFOR
	WRITE sum;
END
`
	result := Compile(src)
	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}
}

func TestCompileUndeclaredVariableIsReported(t *testing.T) {
	result := Compile("BEGIN x := 1; END")
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for an undeclared variable")
	}
	if result.Program != nil {
		t.Fatal("expected no program output when there are diagnostics")
	}
}

func TestCompileUseBeforeInitializeIsReported(t *testing.T) {
	src := `
DECLARE
	x, y
BEGIN
	y := x + 1;
END
`
	result := Compile(src)
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for reading an uninitialized variable")
	}
}

func TestCompileAssignToIteratorIsForbidden(t *testing.T) {
	src := `
DECLARE
	i
BEGIN
	FOR i FROM 1 TO 5 DO
		i := 0;
	ENDFOR
END
`
	result := Compile(src)
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic assigning to a FOR loop's iterator")
	}
}

func TestCompileLiteralArrayIndexOutOfBounds(t *testing.T) {
	src := `
DECLARE
	a(1:5)
BEGIN
	a(10) := 1;
END
`
	result := Compile(src)
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for an out-of-bounds literal index")
	}
}

func TestCompileRedeclaredVariableIsReported(t *testing.T) {
	result := Compile("DECLARE x, x BEGIN WRITE x; END")
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for redeclaring x")
	}
}

func TestCompileSyntaxErrorStopsBeforeCodegen(t *testing.T) {
	result := Compile("BEGIN x := ; END")
	if !result.Diags.HasErrors() {
		t.Fatal("expected a diagnostic for the syntax error")
	}
	if result.Program != nil {
		t.Fatal("expected no program output after a syntax error")
	}
}

func TestCompileWithSymbolsExposesAddresses(t *testing.T) {
	src := `
DECLARE
	x
BEGIN
	x := 1;
END
`
	result, symtab := CompileWithSymbols(src)
	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}
	if symtab == nil {
		t.Fatal("expected a non-nil symbol table")
	}
	dump := symtab.String()
	if dump == "" {
		t.Error("expected a non-empty symbol dump")
	}
}

func TestCompileDivisionAndModulo(t *testing.T) {
	src := `
DECLARE
	a, b, q, r
BEGIN
	a := 17;
	b := 5;
	q := a / b;
	r := a % b;
	WRITE q;
	WRITE r;
END
`
	result := Compile(src)
	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}
	out, err := refmachine.Run(result.Program, nil)
	if err != nil {
		t.Fatalf("reference machine failed to run emitted program: %v", err)
	}
	if want := []int{17 / 5, 17 % 5}; !reflect.DeepEqual(out, want) {
		t.Fatalf("program output = %v, want %v", out, want)
	}
}

func TestCompileRepeatUntilAndDownto(t *testing.T) {
	src := `
DECLARE
	i, n
BEGIN
	n := 0;
	REPEAT
		n := n + 1;
	UNTIL n = 3;
	FOR i FROM 3 DOWNTO 1 DO
		WRITE i;
	ENDFOR
	WRITE n;
END
`
	result := Compile(src)
	if result.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diags.Items())
	}
	out, err := refmachine.Run(result.Program, nil)
	if err != nil {
		t.Fatalf("reference machine failed to run emitted program: %v", err)
	}
	if want := []int{3, 2, 1, 3}; !reflect.DeepEqual(out, want) {
		t.Fatalf("program output = %v, want %v (downto 3..1, then the REPEAT's final n)", out, want)
	}
}
