package compiler

// Reg names one of the target machine's six general-purpose registers.
type Reg string

const (
	RA Reg = "a"
	RB Reg = "b"
	RC Reg = "c"
	RD Reg = "d"
	RE Reg = "e"
	RF Reg = "f"
)

// registerState tracks, for a single register, the last constant the code
// generator is known to have loaded into it. This is bookkeeping for a
// future peephole pass (spec.md §2 and §9's MUL swap note) — no emitter
// decides what to emit from it, so the generator does not rely on it for
// correctness.
type registerState struct {
	known bool
	value int
}

// RegisterFile mirrors the six named registers A-F. It never emits
// instructions itself; CodeGen consults and updates it around the
// instructions it does emit.
type RegisterFile struct {
	regs map[Reg]registerState
}

// NewRegisterFile returns a RegisterFile with all registers unknown.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{regs: make(map[Reg]registerState, 6)}
	for _, r := range []Reg{RA, RB, RC, RD, RE, RF} {
		rf.regs[r] = registerState{}
	}
	return rf
}

// SetConstant records that r now holds the known value v.
func (rf *RegisterFile) SetConstant(r Reg, v int) {
	rf.regs[r] = registerState{known: true, value: v}
}

// Clobber marks r's value as no longer statically known, e.g. after a
// LOAD, ADD, SUB, or any other instruction whose result isn't a literal
// the generator itself chose.
func (rf *RegisterFile) Clobber(r Reg) {
	rf.regs[r] = registerState{}
}

// Constant returns the last known constant in r, if any.
func (rf *RegisterFile) Constant(r Reg) (int, bool) {
	s := rf.regs[r]
	return s.value, s.known
}
