package compiler

import "fmt"

// jumpKind distinguishes the three jump mnemonics the target machine
// supports; all three take a PC-relative signed offset as their last
// operand (spec.md §6).
type jumpKind int

const (
	jumpAlways jumpKind = iota
	jumpZero
	jumpOdd
)

type pendingJump struct {
	index int // position in buf.lines this placeholder occupies
	label string
	kind  jumpKind
	reg   Reg // unused for jumpAlways
}

// InstructionBuffer accumulates the emitted program one line at a time and
// resolves symbolic labels to relative offsets in a single finalization
// pass (spec.md §4.3). Labels never occupy a line of their own: PutLabel
// just records the index of whatever instruction comes next.
type InstructionBuffer struct {
	lines   []string
	labels  map[string]int
	pending []pendingJump
	nextGen int
}

// NewInstructionBuffer returns an empty buffer.
func NewInstructionBuffer() *InstructionBuffer {
	return &InstructionBuffer{labels: make(map[string]int)}
}

// PC returns the index the next emitted instruction will occupy.
func (b *InstructionBuffer) PC() int {
	return len(b.lines)
}

// NewLabel returns a fresh label name, not tied to any position until
// PutLabel is called with it.
func (b *InstructionBuffer) NewLabel() string {
	b.nextGen++
	return fmt.Sprintf("L%d", b.nextGen)
}

// PutLabel binds name to the position of the next instruction to be
// emitted. Binding the same name twice is a code generator bug.
func (b *InstructionBuffer) PutLabel(name string) {
	if _, ok := b.labels[name]; ok {
		panic("compiler: label " + name + " bound twice")
	}
	b.labels[name] = len(b.lines)
}

// Emit appends a fully-formed, non-jump instruction line.
func (b *InstructionBuffer) Emit(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// EmitJump appends an unconditional jump to label, to be resolved at
// Finalize time.
func (b *InstructionBuffer) EmitJump(label string) {
	b.emitJump(jumpAlways, "", label)
}

// EmitJzero appends a "jump to label if reg == 0" instruction.
func (b *InstructionBuffer) EmitJzero(reg Reg, label string) {
	b.emitJump(jumpZero, reg, label)
}

// EmitJodd appends a "jump to label if reg is odd" instruction.
func (b *InstructionBuffer) EmitJodd(reg Reg, label string) {
	b.emitJump(jumpOdd, reg, label)
}

func (b *InstructionBuffer) emitJump(kind jumpKind, reg Reg, label string) {
	idx := len(b.lines)
	b.lines = append(b.lines, "") // placeholder, rewritten in Finalize
	b.pending = append(b.pending, pendingJump{index: idx, label: label, kind: kind, reg: reg})
}

// Finalize resolves every pending jump to a signed PC-relative offset,
// appends the program's single trailing HALT, and returns the final
// instruction text. It must be called exactly once, after all code for the
// program has been emitted.
func (b *InstructionBuffer) Finalize() []string {
	for _, pj := range b.pending {
		target, ok := b.labels[pj.label]
		if !ok {
			panic("compiler: unresolved label " + pj.label)
		}
		offset := target - pj.index
		switch pj.kind {
		case jumpAlways:
			b.lines[pj.index] = fmt.Sprintf("JUMP %d", offset)
		case jumpZero:
			b.lines[pj.index] = fmt.Sprintf("JZERO %s %d", pj.reg, offset)
		case jumpOdd:
			b.lines[pj.index] = fmt.Sprintf("JODD %s %d", pj.reg, offset)
		}
	}
	b.lines = append(b.lines, "HALT")
	return b.lines
}
