package lexer

import (
	"testing"

	"kompilator/internal/token"
)

func TestLexKeywordsAndOperators(t *testing.T) {
	toks, diags := Lex("DECLARE x BEGIN x := 1 + 2; IF x >= 1 THEN WRITE x; ENDIF END")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	want := []token.Type{
		token.DECLARE, token.IDENT, token.BEGIN,
		token.IDENT, token.ASSIGN, token.NUM, token.PLUS, token.NUM, token.SEMICOLON,
		token.IF, token.IDENT, token.GEQ, token.NUM, token.THEN,
		token.WRITE, token.IDENT, token.SEMICOLON, token.ENDIF,
		token.END, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestLexBracketComment(t *testing.T) {
	toks, diags := Lex("BEGIN [ this is ignored ] WRITE 1; END")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Items())
	}
	if len(toks) != 6 { // BEGIN, WRITE, NUM, SEMICOLON, END, EOF
		t.Fatalf("got %d tokens, want 6: %v", len(toks), toks)
	}
	if toks[0].Type != token.BEGIN || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("unexpected token stream: %v", toks)
	}
}

func TestLexUnterminatedCommentIsReported(t *testing.T) {
	_, diags := Lex("BEGIN [ never closed END")
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for an unterminated comment")
	}
}

func TestLexUnknownCharacterRecovers(t *testing.T) {
	toks, diags := Lex("BEGIN x := 1 @ 2; END")
	if !diags.HasErrors() {
		t.Fatal("expected a diagnostic for the unrecognized character")
	}
	// lexing continues past the bad character instead of aborting
	var sawEnd bool
	for _, tok := range toks {
		if tok.Type == token.END {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatal("expected the lexer to recover and keep scanning to END")
	}
}
