// Package ast defines the tree shape the code generator consumes, per
// spec.md §3. A lexer and parser (internal/lexer, internal/parser) build
// these trees from source text; the generator trusts their tags and
// arities but validates semantics itself.
package ast

import (
	"fmt"

	"kompilator/internal/token"
)

// Value is any node that can appear where the grammar expects a value: a
// literal, a scalar reference, an array element reference, or an
// arithmetic expression.
type Value interface {
	valueNode()
	Line() int
	String() string
}

// NumLit is a literal non-negative integer.
type NumLit struct {
	Val int
	Ln  int
}

func (*NumLit) valueNode()       {}
func (n *NumLit) Line() int      { return n.Ln }
func (n *NumLit) String() string { return fmt.Sprintf("%d", n.Val) }

// ScalarRef reads (or, as an lvalue, targets) a plain int variable.
type ScalarRef struct {
	Name string
	Ln   int
}

func (*ScalarRef) valueNode()       {}
func (s *ScalarRef) Line() int      { return s.Ln }
func (s *ScalarRef) String() string { return s.Name }

// ArrayRef reads (or, as an lvalue, targets) one element of an array.
// Index is restricted by the grammar to a NumLit or a ScalarRef — no
// compound expressions as indices.
type ArrayRef struct {
	Name  string
	Index Value
	Ln    int
}

func (*ArrayRef) valueNode()       {}
func (a *ArrayRef) Line() int      { return a.Ln }
func (a *ArrayRef) String() string { return fmt.Sprintf("%s(%s)", a.Name, a.Index) }

// BinaryExpr is one of the five arithmetic operators applied to two values.
type BinaryExpr struct {
	Op    token.Type // PLUS, MINUS, STAR, SLASH, PERCENT
	Left  Value
	Right Value
	Ln    int
}

func (*BinaryExpr) valueNode()     {}
func (b *BinaryExpr) Line() int    { return b.Ln }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Condition is a relational comparison of two values, used by IF/WHILE/REPEAT.
type Condition struct {
	Op    token.Type // EQ, NEQ, LT, GT, LEQ, GEQ
	Left  Value
	Right Value
	Ln    int
}

func (c *Condition) Line() int { return c.Ln }
func (c *Condition) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

// Decl is a variable declaration appearing after DECLARE.
type Decl interface {
	declNode()
	Line() int
}

// IntDecl declares a scalar.
type IntDecl struct {
	Name string
	Ln   int
}

func (*IntDecl) declNode()  {}
func (d *IntDecl) Line() int { return d.Ln }

// TabDecl declares an array with inclusive bounds [Start, End].
type TabDecl struct {
	Name       string
	Start, End int
	Ln         int
}

func (*TabDecl) declNode()  {}
func (d *TabDecl) Line() int { return d.Ln }

// Stmt is any command in the command list.
type Stmt interface {
	stmtNode()
	Line() int
}

// AssignStmt is `LValue := RValue;`.
type AssignStmt struct {
	LValue Value // ScalarRef or ArrayRef
	RValue Value
	Ln     int
}

func (*AssignStmt) stmtNode()  {}
func (a *AssignStmt) Line() int { return a.Ln }

// ReadStmt is `READ LValue;`.
type ReadStmt struct {
	LValue Value
	Ln     int
}

func (*ReadStmt) stmtNode()  {}
func (r *ReadStmt) Line() int { return r.Ln }

// WriteStmt is `WRITE Value;`.
type WriteStmt struct {
	Value Value
	Ln    int
}

func (*WriteStmt) stmtNode()  {}
func (w *WriteStmt) Line() int { return w.Ln }

// IfStmt is `IF cond THEN ... ENDIF`.
type IfStmt struct {
	Cond *Condition
	Then []Stmt
	Ln   int
}

func (*IfStmt) stmtNode()  {}
func (s *IfStmt) Line() int { return s.Ln }

// IfElseStmt is `IF cond THEN ... ELSE ... ENDIF`.
type IfElseStmt struct {
	Cond *Condition
	Then []Stmt
	Else []Stmt
	Ln   int
}

func (*IfElseStmt) stmtNode()  {}
func (s *IfElseStmt) Line() int { return s.Ln }

// WhileStmt is a pre-tested loop: `WHILE cond DO ... ENDWHILE`.
type WhileStmt struct {
	Cond *Condition
	Body []Stmt
	Ln   int
}

func (*WhileStmt) stmtNode()  {}
func (s *WhileStmt) Line() int { return s.Ln }

// RepeatStmt is a post-tested loop: `REPEAT ... UNTIL cond;`.
type RepeatStmt struct {
	Cond *Condition
	Body []Stmt
	Ln   int
}

func (*RepeatStmt) stmtNode()  {}
func (s *RepeatStmt) Line() int { return s.Ln }

// ForToStmt counts Iterator up from From to To inclusive.
type ForToStmt struct {
	Iterator string
	From, To Value
	Body     []Stmt
	Ln       int
}

func (*ForToStmt) stmtNode()  {}
func (s *ForToStmt) Line() int { return s.Ln }

// ForDtStmt counts Iterator down from From to Downto inclusive.
type ForDtStmt struct {
	Iterator    string
	From, Downto Value
	Body        []Stmt
	Ln          int
}

func (*ForDtStmt) stmtNode()  {}
func (s *ForDtStmt) Line() int { return s.Ln }

// Program is the root of the tree: PROGRAM(declarations, commands).
type Program struct {
	Decls []Decl
	Stmts []Stmt
}
