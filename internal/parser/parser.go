// Package parser builds the ast.Program tree the code generator consumes,
// from the token stream lexer.Lex produces.
//
// Like the lexer, this is an external collaborator relative to the code
// generator (spec.md §6): it only has to get the tree shape right. Static
// semantic validity (declared-before-use, bounds, types) is the code
// generator's job, not this package's.
package parser

import (
	"kompilator/internal/ast"
	"kompilator/internal/diag"
	"kompilator/internal/token"
)

// Parser consumes a flat token slice and builds an ast.Program.
type Parser struct {
	toks []token.Token
	pos  int
	errs diag.List
}

// Parse runs a single parse over toks. On a syntax error it records one
// diagnostic and returns (nil, diags) — the grammar has no productive
// recovery, so compilation aborts immediately per spec.md §7.
func Parse(toks []token.Token) (*ast.Program, diag.List) {
	p := &Parser{toks: toks}
	prog := p.parseProgram()
	if p.errs.HasErrors() {
		return nil, p.errs
	}
	return prog, p.errs
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) fail(format string, args ...any) {
	if p.errs.HasErrors() {
		return // keep only the first syntax error, like sly's parser.parse() returning None
	}
	p.errs.Add(p.cur().Line, format, args...)
}

// expect consumes the current token if it has type tt, else records a
// syntax error and returns the zero Token.
func (p *Parser) expect(tt token.Type) token.Token {
	if p.cur().Type != tt {
		p.fail("syntax error: expected %s, found %s %q", tt, p.cur().Type, p.cur().Lexeme)
		return token.Token{}
	}
	return p.advance()
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	if p.cur().Type == token.DECLARE {
		p.advance()
		prog.Decls = p.parseDeclarations()
	}
	p.expect(token.BEGIN)
	prog.Stmts = p.parseCommands()
	p.expect(token.END)
	return prog
}

// parseDeclarations parses a comma-separated declaration list. An empty
// list (DECLARE immediately followed by BEGIN) is valid.
func (p *Parser) parseDeclarations() []ast.Decl {
	var decls []ast.Decl
	if p.cur().Type != token.IDENT {
		return decls
	}
	decls = append(decls, p.parseOneDeclaration())
	for p.cur().Type == token.COMMA {
		p.advance()
		decls = append(decls, p.parseOneDeclaration())
	}
	return decls
}

func (p *Parser) parseOneDeclaration() ast.Decl {
	name := p.expect(token.IDENT)
	if p.cur().Type == token.LPAREN {
		p.advance()
		start := p.expect(token.NUM)
		p.expect(token.COLON)
		end := p.expect(token.NUM)
		p.expect(token.RPAREN)
		return &ast.TabDecl{Name: name.Lexeme, Start: atoi(start.Lexeme), End: atoi(end.Lexeme), Ln: name.Line}
	}
	return &ast.IntDecl{Name: name.Lexeme, Ln: name.Line}
}

func (p *Parser) parseCommands() []ast.Stmt {
	var cmds []ast.Stmt
	cmds = append(cmds, p.parseCommand())
	for isCommandStart(p.cur().Type) {
		cmds = append(cmds, p.parseCommand())
	}
	return cmds
}

func isCommandStart(tt token.Type) bool {
	switch tt {
	case token.IDENT, token.IF, token.WHILE, token.REPEAT, token.FOR, token.READ, token.WRITE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCommand() ast.Stmt {
	switch p.cur().Type {
	case token.IDENT:
		lvalue := p.parseIdentifier()
		line := lvalue.Line()
		p.expect(token.ASSIGN)
		rvalue := p.parseExpression()
		p.expect(token.SEMICOLON)
		return &ast.AssignStmt{LValue: lvalue, RValue: rvalue, Ln: line}

	case token.IF:
		line := p.advance().Line
		cond := p.parseCondition()
		p.expect(token.THEN)
		then := p.parseCommands()
		if p.cur().Type == token.ELSE {
			p.advance()
			els := p.parseCommands()
			p.expect(token.ENDIF)
			return &ast.IfElseStmt{Cond: cond, Then: then, Else: els, Ln: line}
		}
		p.expect(token.ENDIF)
		return &ast.IfStmt{Cond: cond, Then: then, Ln: line}

	case token.WHILE:
		line := p.advance().Line
		cond := p.parseCondition()
		p.expect(token.DO)
		body := p.parseCommands()
		p.expect(token.ENDWHILE)
		return &ast.WhileStmt{Cond: cond, Body: body, Ln: line}

	case token.REPEAT:
		line := p.advance().Line
		body := p.parseCommands()
		p.expect(token.UNTIL)
		cond := p.parseCondition()
		p.expect(token.SEMICOLON)
		return &ast.RepeatStmt{Cond: cond, Body: body, Ln: line}

	case token.FOR:
		line := p.advance().Line
		name := p.expect(token.IDENT)
		p.expect(token.FROM)
		from := p.parseValue()
		if p.cur().Type == token.DOWNTO {
			p.advance()
			downto := p.parseValue()
			p.expect(token.DO)
			body := p.parseCommands()
			p.expect(token.ENDFOR)
			return &ast.ForDtStmt{Iterator: name.Lexeme, From: from, Downto: downto, Body: body, Ln: line}
		}
		p.expect(token.TO)
		to := p.parseValue()
		p.expect(token.DO)
		body := p.parseCommands()
		p.expect(token.ENDFOR)
		return &ast.ForToStmt{Iterator: name.Lexeme, From: from, To: to, Body: body, Ln: line}

	case token.READ:
		line := p.advance().Line
		lvalue := p.parseIdentifier()
		p.expect(token.SEMICOLON)
		return &ast.ReadStmt{LValue: lvalue, Ln: line}

	case token.WRITE:
		line := p.advance().Line
		value := p.parseExpression()
		p.expect(token.SEMICOLON)
		return &ast.WriteStmt{Value: value, Ln: line}

	default:
		p.fail("syntax error: unexpected token %s %q", p.cur().Type, p.cur().Lexeme)
		p.advance()
		return &ast.WriteStmt{Value: &ast.NumLit{Val: 0, Ln: p.cur().Line}, Ln: p.cur().Line}
	}
}

var arithOps = map[token.Type]bool{
	token.PLUS: true, token.MINUS: true, token.STAR: true, token.SLASH: true, token.PERCENT: true,
}

var relOps = map[token.Type]bool{
	token.EQ: true, token.NEQ: true, token.LT: true, token.GT: true, token.LEQ: true, token.GEQ: true,
}

func (p *Parser) parseExpression() ast.Value {
	left := p.parseValue()
	if arithOps[p.cur().Type] {
		op := p.advance()
		right := p.parseValue()
		return &ast.BinaryExpr{Op: op.Type, Left: left, Right: right, Ln: op.Line}
	}
	return left
}

func (p *Parser) parseCondition() *ast.Condition {
	left := p.parseValue()
	if !relOps[p.cur().Type] {
		p.fail("syntax error: expected a relational operator, found %s %q", p.cur().Type, p.cur().Lexeme)
		return &ast.Condition{Op: token.EQ, Left: left, Right: left, Ln: p.cur().Line}
	}
	op := p.advance()
	right := p.parseValue()
	return &ast.Condition{Op: op.Type, Left: left, Right: right, Ln: op.Line}
}

func (p *Parser) parseValue() ast.Value {
	if p.cur().Type == token.NUM {
		t := p.advance()
		return &ast.NumLit{Val: atoi(t.Lexeme), Ln: t.Line}
	}
	return p.parseIdentifier()
}

// parseIdentifier parses a scalar or array reference: NAME, NAME(NUM), or
// NAME(NAME).
func (p *Parser) parseIdentifier() ast.Value {
	name := p.expect(token.IDENT)
	if p.cur().Type != token.LPAREN {
		return &ast.ScalarRef{Name: name.Lexeme, Ln: name.Line}
	}
	p.advance()
	var index ast.Value
	switch p.cur().Type {
	case token.NUM:
		t := p.advance()
		index = &ast.NumLit{Val: atoi(t.Lexeme), Ln: t.Line}
	case token.IDENT:
		t := p.advance()
		index = &ast.ScalarRef{Name: t.Lexeme, Ln: t.Line}
	default:
		p.fail("syntax error: expected an index, found %s %q", p.cur().Type, p.cur().Lexeme)
		index = &ast.NumLit{Val: 0, Ln: p.cur().Line}
	}
	p.expect(token.RPAREN)
	return &ast.ArrayRef{Name: name.Lexeme, Index: index, Ln: name.Line}
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
