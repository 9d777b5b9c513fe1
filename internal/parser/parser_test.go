package parser

import (
	"testing"

	"kompilator/internal/ast"
	"kompilator/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, diags := lexer.Lex(src)
	if diags.HasErrors() {
		t.Fatalf("lex errors: %v", diags.Items())
	}
	prog, diags := Parse(toks)
	if diags.HasErrors() {
		t.Fatalf("parse errors: %v", diags.Items())
	}
	return prog
}

func TestParseDeclarationsAndAssign(t *testing.T) {
	prog := mustParse(t, "DECLARE x, a(1:10) BEGIN x := 1 + 2; a(1) := x; END")

	if len(prog.Decls) != 2 {
		t.Fatalf("got %d decls, want 2", len(prog.Decls))
	}
	intDecl, ok := prog.Decls[0].(*ast.IntDecl)
	if !ok || intDecl.Name != "x" {
		t.Fatalf("decl 0 = %#v, want IntDecl x", prog.Decls[0])
	}
	tabDecl, ok := prog.Decls[1].(*ast.TabDecl)
	if !ok || tabDecl.Name != "a" || tabDecl.Start != 1 || tabDecl.End != 10 {
		t.Fatalf("decl 1 = %#v, want TabDecl a(1:10)", prog.Decls[1])
	}

	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	assign, ok := prog.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("stmt 0 = %#v, want AssignStmt", prog.Stmts[0])
	}
	bin, ok := assign.RValue.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("rvalue = %#v, want BinaryExpr", assign.RValue)
	}
	if bin.String() != "(1 PLUS 2)" {
		t.Errorf("rvalue.String() = %q, want %q", bin.String(), "(1 PLUS 2)")
	}
}

func TestParseForDowntoVsTo(t *testing.T) {
	prog := mustParse(t, "BEGIN FOR i FROM 1 TO 10 DO WRITE i; ENDFOR FOR j FROM 10 DOWNTO 1 DO WRITE j; ENDFOR END")

	if _, ok := prog.Stmts[0].(*ast.ForToStmt); !ok {
		t.Errorf("stmt 0 = %#v, want ForToStmt", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*ast.ForDtStmt); !ok {
		t.Errorf("stmt 1 = %#v, want ForDtStmt", prog.Stmts[1])
	}
}

func TestParseIfElseAndWhile(t *testing.T) {
	prog := mustParse(t, "BEGIN IF x = 1 THEN WRITE 1; ELSE WRITE 2; ENDIF WHILE x != 0 DO x := x - 1; ENDWHILE END")

	ifElse, ok := prog.Stmts[0].(*ast.IfElseStmt)
	if !ok {
		t.Fatalf("stmt 0 = %#v, want IfElseStmt", prog.Stmts[0])
	}
	if len(ifElse.Then) != 1 || len(ifElse.Else) != 1 {
		t.Errorf("ifElse then/else lengths = %d/%d, want 1/1", len(ifElse.Then), len(ifElse.Else))
	}

	while, ok := prog.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("stmt 1 = %#v, want WhileStmt", prog.Stmts[1])
	}
	if while.Cond.Op.String() != "NEQ" {
		t.Errorf("while cond op = %s, want NEQ", while.Cond.Op)
	}
}

func TestParseSyntaxErrorAbortsWithoutTree(t *testing.T) {
	toks, _ := lexer.Lex("BEGIN x := ; END")
	prog, diags := Parse(toks)
	if prog != nil {
		t.Fatal("expected a nil program after a syntax error")
	}
	if len(diags.Items()) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1: %v", len(diags.Items()), diags.Items())
	}
}
