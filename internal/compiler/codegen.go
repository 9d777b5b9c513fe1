// Package compiler turns an ast.Program into text assembly for the target
// register machine: six registers (a-f), flat memory cells addressed by
// non-negative integers, and a jump-based instruction set with no signed
// arithmetic (spec.md §§2, 4, 6).
package compiler

import (
	"kompilator/internal/ast"
	"kompilator/internal/diag"
	"kompilator/internal/token"
)

// CodeGen drives generation for one program: it owns the symbol table, the
// memory allocator behind it, the instruction buffer code is appended to,
// and the register-constant bookkeeping the arithmetic primitives consult.
type CodeGen struct {
	buf  *InstructionBuffer
	sym  *SymbolTable
	mem  *Allocator
	regs *RegisterFile
	errs diag.List

	synthCounter int
}

// NewCodeGen returns a CodeGen ready to compile a single program.
func NewCodeGen() *CodeGen {
	mem := NewAllocator()
	return &CodeGen{
		buf:  NewInstructionBuffer(),
		sym:  NewSymbolTable(mem),
		mem:  mem,
		regs: NewRegisterFile(),
	}
}

// Generate walks prog, emitting instructions and recording diagnostics for
// every static semantic violation spec.md §7 names. It returns the
// accumulated diagnostics; Finalize retrieves the emitted program.
func (g *CodeGen) Generate(prog *ast.Program) diag.List {
	ReserveIteratorCapacity(g.mem, prog)
	g.genDecls(prog.Decls)
	g.genStmts(prog.Stmts)
	return g.errs
}

// Finalize resolves jump offsets and appends the trailing HALT. Call it
// only after Generate, and only when Generate reported no diagnostics.
func (g *CodeGen) Finalize() []string {
	return g.buf.Finalize()
}

func (g *CodeGen) genDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.IntDecl:
			if err := g.sym.DeclareScalar(n.Name, n.Ln); err != nil {
				g.errs.Add(n.Ln, "%s", err)
			}
		case *ast.TabDecl:
			if n.Start > n.End {
				g.errs.Add(n.Ln, "array %s declared with invalid bounds (%d:%d)", n.Name, n.Start, n.End)
				continue
			}
			if err := g.sym.DeclareArray(n.Name, n.Start, n.End, n.Ln); err != nil {
				g.errs.Add(n.Ln, "%s", err)
			}
		}
	}
}

func (g *CodeGen) genStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		g.genStmt(s)
	}
}

func (g *CodeGen) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		g.genAssign(n)
	case *ast.ReadStmt:
		g.genRead(n)
	case *ast.WriteStmt:
		g.genWrite(n)
	case *ast.IfStmt:
		g.genIf(n)
	case *ast.IfElseStmt:
		g.genIfElse(n)
	case *ast.WhileStmt:
		g.genWhile(n)
	case *ast.RepeatStmt:
		g.genRepeat(n)
	case *ast.ForToStmt:
		g.genForTo(n)
	case *ast.ForDtStmt:
		g.genForDt(n)
	}
}

// genAssign evaluates the right-hand side before resolving the left-hand
// side's address: resolving an array lvalue with a variable index clobbers
// regOperand and regAddr, and doing it first would stomp on a
// freshly-computed value sitting in one of those registers.
func (g *CodeGen) genAssign(s *ast.AssignStmt) {
	g.genExprIntoAcc(s.RValue)
	sym, ok := g.resolveLValue(s.LValue)
	if !ok {
		return
	}
	g.emitStore(regAddr, regAcc)
	g.markInitialized(sym, s.LValue)
}

func (g *CodeGen) genRead(s *ast.ReadStmt) {
	sym, ok := g.resolveLValue(s.LValue)
	if !ok {
		return
	}
	g.emitGet(regAcc)
	g.emitStore(regAddr, regAcc)
	g.markInitialized(sym, s.LValue)
}

func (g *CodeGen) genWrite(s *ast.WriteStmt) {
	g.genExprIntoAcc(s.Value)
	g.emitPut(regAcc)
}

func (g *CodeGen) genIf(s *ast.IfStmt) {
	end := g.buf.NewLabel()
	g.evalCondition(s.Cond, end)
	g.genStmts(s.Then)
	g.buf.PutLabel(end)
}

func (g *CodeGen) genIfElse(s *ast.IfElseStmt) {
	elseLabel := g.buf.NewLabel()
	end := g.buf.NewLabel()
	g.evalCondition(s.Cond, elseLabel)
	g.genStmts(s.Then)
	g.buf.EmitJump(end)
	g.buf.PutLabel(elseLabel)
	g.genStmts(s.Else)
	g.buf.PutLabel(end)
}

func (g *CodeGen) genWhile(s *ast.WhileStmt) {
	start := g.buf.NewLabel()
	end := g.buf.NewLabel()
	g.buf.PutLabel(start)
	g.evalCondition(s.Cond, end)
	g.genStmts(s.Body)
	g.buf.EmitJump(start)
	g.buf.PutLabel(end)
}

func (g *CodeGen) genRepeat(s *ast.RepeatStmt) {
	start := g.buf.NewLabel()
	g.buf.PutLabel(start)
	g.genStmts(s.Body)
	g.evalCondition(s.Cond, start) // loop again while the condition is false
}

// evalCondition loads both sides of cond and jumps to falseLabel when it
// does not hold.
func (g *CodeGen) evalCondition(cond *ast.Condition, falseLabel string) {
	g.LoadValue(cond.Left, regAcc)
	g.LoadValue(cond.Right, regOperand)
	g.BranchIfFalse(cond.Op, regAcc, regOperand, falseLabel)
}

func (g *CodeGen) genForTo(s *ast.ForToStmt) {
	g.LoadValue(s.From, regAcc)
	g.LoadValue(s.To, regOperand)

	boundName := g.synthName()
	boundSym := g.sym.IntroduceIterator(boundName, s.Ln)
	g.loadImmediate(regAddr, boundSym.Scalar.Address)
	g.emitStore(regAddr, regOperand)

	iterSym := g.sym.IntroduceIterator(s.Iterator, s.Ln)
	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitStore(regAddr, regAcc)

	start := g.buf.NewLabel()
	end := g.buf.NewLabel()
	g.buf.PutLabel(start)
	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitLoad(regAcc, regAddr)
	g.loadImmediate(regAddr, boundSym.Scalar.Address)
	g.emitLoad(regOperand, regAddr)
	g.BranchIfFalse(token.LEQ, regAcc, regOperand, end)

	g.genStmts(s.Body)

	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitLoad(regAcc, regAddr)
	g.emitInc(regAcc)
	g.emitStore(regAddr, regAcc)
	g.buf.EmitJump(start)
	g.buf.PutLabel(end)

	g.sym.RetireIterator(s.Iterator)
	g.sym.RetireIterator(boundName)
}

// genForDt counts down to Downto inclusive. It never decrements the
// iterator once it has reached the bound, which avoids ever running DEC on
// a register already at zero and relying on saturation to stop it (spec.md
// §4.5's loop-termination note).
func (g *CodeGen) genForDt(s *ast.ForDtStmt) {
	g.LoadValue(s.From, regAcc)
	g.LoadValue(s.Downto, regOperand)

	boundName := g.synthName()
	boundSym := g.sym.IntroduceIterator(boundName, s.Ln)
	g.loadImmediate(regAddr, boundSym.Scalar.Address)
	g.emitStore(regAddr, regOperand)

	iterSym := g.sym.IntroduceIterator(s.Iterator, s.Ln)
	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitStore(regAddr, regAcc)

	start := g.buf.NewLabel()
	end := g.buf.NewLabel()
	g.buf.PutLabel(start)
	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitLoad(regAcc, regAddr)
	g.loadImmediate(regAddr, boundSym.Scalar.Address)
	g.emitLoad(regOperand, regAddr)
	g.BranchIfFalse(token.GEQ, regAcc, regOperand, end)

	g.genStmts(s.Body)

	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitLoad(regAcc, regAddr)
	g.loadImmediate(regAddr, boundSym.Scalar.Address)
	g.emitLoad(regOperand, regAddr)
	g.BranchIfFalse(token.NEQ, regAcc, regOperand, end) // this was the last iteration

	g.loadImmediate(regAddr, iterSym.Scalar.Address)
	g.emitLoad(regAcc, regAddr)
	g.emitDec(regAcc)
	g.emitStore(regAddr, regAcc)
	g.buf.EmitJump(start)
	g.buf.PutLabel(end)

	g.sym.RetireIterator(s.Iterator)
	g.sym.RetireIterator(boundName)
}

func (g *CodeGen) synthName() string {
	g.synthCounter++
	return "$bound" + itoa(g.synthCounter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// genExprIntoAcc evaluates v — a value, or the grammar's one flavor of
// compound expression, a single binary operator applied to two values —
// into regAcc. An assignment's right-hand side and a WRITE operand are the
// places a BinaryExpr can appear, and genAssign and genWrite both evaluate
// through here.
func (g *CodeGen) genExprIntoAcc(v ast.Value) {
	if be, ok := v.(*ast.BinaryExpr); ok {
		g.LoadValue(be.Left, regAcc)
		g.LoadValue(be.Right, regOperand)
		g.EvalArith(be.Op, regAcc, regOperand)
		return
	}
	g.LoadValue(v, regAcc)
}

// LoadValue loads the value of v into dst, checking that any variable it
// names is declared, of the right kind, and initialized.
func (g *CodeGen) LoadValue(v ast.Value, dst Reg) {
	switch n := v.(type) {
	case *ast.NumLit:
		g.loadImmediate(dst, n.Val)

	case *ast.ScalarRef:
		sym, ok := g.lookupScalar(n.Name, n.Ln)
		if !ok {
			return
		}
		if !sym.Scalar.Initialized {
			g.errs.Add(n.Ln, "variable %s used before being initialized", n.Name)
			return
		}
		g.loadImmediate(regAddr, sym.Scalar.Address)
		g.emitLoad(dst, regAddr)

	case *ast.ArrayRef:
		sym, ok := g.lookupArray(n.Name, n.Ln)
		if !ok {
			return
		}
		arr := sym.Array
		switch idx := n.Index.(type) {
		case *ast.NumLit:
			if !g.checkBounds(arr, n.Name, idx.Val, n.Ln) {
				return
			}
			if !arr.IsElementInitialized(idx.Val) {
				g.errs.Add(n.Ln, "array element %s(%d) used before being initialized", n.Name, idx.Val)
				return
			}
			g.loadImmediate(regAddr, arr.ElementAddress(idx.Val))
			g.emitLoad(dst, regAddr)
		case *ast.ScalarRef:
			idxSym, ok := g.lookupScalar(idx.Name, idx.Ln)
			if !ok {
				return
			}
			if !idxSym.Scalar.Initialized {
				g.errs.Add(idx.Ln, "variable %s used before being initialized", idx.Name)
				return
			}
			g.loadImmediate(regAddr, idxSym.Scalar.Address)
			g.emitLoad(regOperand, regAddr)
			g.computeArrayElementAddress(arr, regOperand)
			g.emitLoad(dst, regAddr)
		}
	}
}

// resolveLValue computes, into regAddr, the store address for an
// assignment or READ target, enforcing that it isn't an iterator.
func (g *CodeGen) resolveLValue(v ast.Value) (*Symbol, bool) {
	switch n := v.(type) {
	case *ast.ScalarRef:
		sym, ok := g.lookupScalar(n.Name, n.Ln)
		if !ok {
			return nil, false
		}
		if sym.Scalar.IsIterator {
			g.errs.Add(n.Ln, "assignment to iterator %s is forbidden", n.Name)
			return nil, false
		}
		g.loadImmediate(regAddr, sym.Scalar.Address)
		return sym, true

	case *ast.ArrayRef:
		sym, ok := g.lookupArray(n.Name, n.Ln)
		if !ok {
			return nil, false
		}
		arr := sym.Array
		switch idx := n.Index.(type) {
		case *ast.NumLit:
			if !g.checkBounds(arr, n.Name, idx.Val, n.Ln) {
				return nil, false
			}
			g.loadImmediate(regAddr, arr.ElementAddress(idx.Val))
			return sym, true
		case *ast.ScalarRef:
			idxSym, ok := g.lookupScalar(idx.Name, idx.Ln)
			if !ok {
				return nil, false
			}
			if !idxSym.Scalar.Initialized {
				g.errs.Add(idx.Ln, "variable %s used before being initialized", idx.Name)
				return nil, false
			}
			g.loadImmediate(regAddr, idxSym.Scalar.Address)
			g.emitLoad(regOperand, regAddr)
			g.computeArrayElementAddress(arr, regOperand)
			return sym, true
		}
	}
	g.errs.Add(v.Line(), "invalid assignment target")
	return nil, false
}

func (g *CodeGen) markInitialized(sym *Symbol, lvalue ast.Value) {
	switch n := lvalue.(type) {
	case *ast.ScalarRef:
		sym.Scalar.Initialized = true
	case *ast.ArrayRef:
		switch idx := n.Index.(type) {
		case *ast.NumLit:
			sym.Array.InitializeElement(idx.Val)
		case *ast.ScalarRef:
			sym.Array.InitializeAll()
		}
	}
}

// computeArrayElementAddress writes arr's element address for the runtime
// index held in indexReg into regAddr. It avoids ever materializing a
// negative constant: Base and Lower are compile-time values that can land
// on either side of each other depending on allocation order, so whichever
// difference is non-negative is the one loaded as an immediate.
func (g *CodeGen) computeArrayElementAddress(arr *Array, indexReg Reg) {
	diff := arr.Base - arr.Lower
	g.emitCopy(regAddr, indexReg)
	if diff >= 0 {
		g.loadImmediate(regScratch3, diff)
		g.emitAdd(regAddr, regScratch3)
	} else {
		g.loadImmediate(regScratch3, -diff)
		g.emitSub(regAddr, regScratch3)
	}
}

func (g *CodeGen) checkBounds(arr *Array, name string, idx, line int) bool {
	if idx < arr.Lower || idx > arr.Upper {
		g.errs.Add(line, "index %d out of bounds for array %s(%d:%d)", idx, name, arr.Lower, arr.Upper)
		return false
	}
	return true
}

func (g *CodeGen) lookupScalar(name string, line int) (*Symbol, bool) {
	sym, found := g.sym.Lookup(name)
	if !found {
		g.errs.Add(line, "undeclared variable %s", name)
		return nil, false
	}
	if sym.IsArray() {
		g.errs.Add(line, "%s is an array, cannot be used as a scalar", name)
		return nil, false
	}
	return sym, true
}

func (g *CodeGen) lookupArray(name string, line int) (*Symbol, bool) {
	sym, found := g.sym.Lookup(name)
	if !found {
		g.errs.Add(line, "undeclared variable %s", name)
		return nil, false
	}
	if !sym.IsArray() {
		g.errs.Add(line, "%s is a scalar, cannot be indexed", name)
		return nil, false
	}
	return sym, true
}
