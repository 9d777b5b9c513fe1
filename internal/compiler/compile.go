package compiler

import (
	"strings"

	"kompilator/internal/diag"
	"kompilator/internal/lexer"
	"kompilator/internal/parser"
	"kompilator/internal/verify"
)

// Result is the outcome of compiling one source file.
type Result struct {
	Program []string // one line of target assembly per element; nil on any diagnostic
	Diags   diag.List
}

// Compile runs the full pipeline — lex, parse, generate, verify — over
// src. No line of output is produced unless every stage reported a clean
// diagnostic list, matching the "abort on any error" contract of spec.md
// §7: a syntax error stops the pipeline immediately (the parser has no
// recovery), while lexer and code-generator diagnostics accumulate so a
// single run can report more than one problem.
func Compile(src string) Result {
	result, _ := compile(src)
	return result
}

// CompileWithSymbols is Compile plus the final symbol table, for tooling
// (the CLI's -dump-symbols flag) that wants to inspect variable addresses
// after a successful compile. The symbol table is nil whenever the pipeline
// stopped before code generation (a syntax error).
func CompileWithSymbols(src string) (Result, *SymbolTable) {
	result, g := compile(src)
	if g == nil {
		return result, nil
	}
	return result, g.sym
}

func compile(src string) (Result, *CodeGen) {
	toks, lexDiags := lexer.Lex(src)

	prog, parseDiags := parser.Parse(toks)
	if parseDiags.HasErrors() {
		var all diag.List
		all.Merge(&lexDiags)
		all.Merge(&parseDiags)
		return Result{Diags: all}, nil
	}

	g := NewCodeGen()
	genDiags := g.Generate(prog)

	var all diag.List
	all.Merge(&lexDiags)
	all.Merge(&parseDiags)
	all.Merge(&genDiags)
	if all.HasErrors() {
		return Result{Diags: all}, g
	}

	lines := g.Finalize()
	if err := verify.Program(lines); err != nil {
		all.Add(0, "internal error: generated program failed verification: %s", err)
		return Result{Diags: all}, g
	}
	return Result{Program: lines, Diags: all}, g
}

// Text joins a compiled program into the newline-terminated file content
// spec.md §6 describes: one instruction per line, nothing after HALT.
func (r Result) Text() string {
	return strings.Join(r.Program, "\n") + "\n"
}
