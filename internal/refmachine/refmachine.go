// Package refmachine is a small reference interpreter for the register
// machine the compiler targets: six named registers, a sparse memory of
// arbitrary-width non-negative cells, and the instruction set spec.md §6
// lists (GET, PUT, LOAD, STORE, ADD, SUB, RESET, INC, DEC, SHR, SHL, JUMP,
// JZERO, JODD, HALT). It exists only to drive tests — executing a compiled
// program and observing what it prints is the only way to check the
// runtime properties spec.md §8 states (correct division/modulo/multiply
// results, loop trip counts, shadowing), as opposed to the purely
// structural checks internal/verify performs on the text itself.
//
// Grounded on the fetch-decode-execute shape of Step() in the teacher's
// own CPU emulator (pkg/cpu/cpu.go): read the instruction at PC, advance
// PC, dispatch on the opcode. That machine decodes packed 16-bit words;
// this one decodes whitespace-separated text lines, since that's the
// compiler's actual output format.
package refmachine

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSteps guards a test run against an infinite loop from a miscompiled
// jump rather than hanging the test suite.
const maxSteps = 1_000_000

// Machine is the interpreter's complete runtime state.
type Machine struct {
	regs  map[string]int
	mem   map[int]int
	pc    int
	input []int
	inPos int
	out   []int
}

// New returns a machine with every register and cell at zero, ready to
// consume input in order as GET instructions execute.
func New(input []int) *Machine {
	return &Machine{
		regs:  map[string]int{"a": 0, "b": 0, "c": 0, "d": 0, "e": 0, "f": 0},
		mem:   make(map[int]int),
		input: input,
	}
}

// Run executes program from its first line until HALT and returns every
// value PUT printed, in order. It fails the run (rather than the test
// directly) on a malformed instruction, an unknown register, or a jump
// landing outside the program, since those indicate a code generator bug
// the test should see as a failure.
func Run(program []string, input []int) ([]int, error) {
	m := New(input)
	steps := 0
	for {
		if m.pc < 0 || m.pc >= len(program) {
			return nil, fmt.Errorf("pc %d out of bounds (program has %d lines)", m.pc, len(program))
		}
		steps++
		if steps > maxSteps {
			return nil, fmt.Errorf("exceeded %d steps without halting", maxSteps)
		}

		line := program[m.pc]
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: empty instruction", m.pc)
		}
		here := m.pc
		m.pc++ // default: fall through to the next line

		switch fields[0] {
		case "HALT":
			return m.out, nil

		case "GET":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			if m.inPos >= len(m.input) {
				return nil, fmt.Errorf("line %d: GET with no input remaining", here)
			}
			m.regs[r] = m.input[m.inPos]
			m.inPos++

		case "PUT":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			m.out = append(m.out, m.regs[r])

		case "LOAD":
			dst, addr, err := m.operandPair(fields)
			if err != nil {
				return nil, err
			}
			m.regs[dst] = m.mem[m.regs[addr]]

		case "STORE":
			addr, src, err := m.operandPair(fields)
			if err != nil {
				return nil, err
			}
			m.mem[m.regs[addr]] = m.regs[src]

		case "ADD":
			dst, src, err := m.operandPair(fields)
			if err != nil {
				return nil, err
			}
			m.regs[dst] += m.regs[src]

		case "SUB":
			dst, src, err := m.operandPair(fields)
			if err != nil {
				return nil, err
			}
			if m.regs[dst] < m.regs[src] {
				m.regs[dst] = 0
			} else {
				m.regs[dst] -= m.regs[src]
			}

		case "RESET":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			m.regs[r] = 0

		case "INC":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			m.regs[r]++

		case "DEC":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			if m.regs[r] > 0 {
				m.regs[r]--
			}

		case "SHL":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			m.regs[r] *= 2

		case "SHR":
			r, err := m.operand(fields, 1)
			if err != nil {
				return nil, err
			}
			m.regs[r] /= 2

		case "JUMP":
			off, err := m.offset(fields, 1)
			if err != nil {
				return nil, err
			}
			m.pc = here + off

		case "JZERO":
			r, off, err := m.regAndOffset(fields)
			if err != nil {
				return nil, err
			}
			if m.regs[r] == 0 {
				m.pc = here + off
			}

		case "JODD":
			r, off, err := m.regAndOffset(fields)
			if err != nil {
				return nil, err
			}
			if m.regs[r]%2 == 1 {
				m.pc = here + off
			}

		default:
			return nil, fmt.Errorf("line %d: unknown opcode %q", here, fields[0])
		}
	}
}

func (m *Machine) operand(fields []string, i int) (string, error) {
	if i >= len(fields) {
		return "", fmt.Errorf("missing operand at index %d in %q", i, strings.Join(fields, " "))
	}
	r := fields[i]
	if _, ok := m.regs[r]; !ok {
		return "", fmt.Errorf("unknown register %q in %q", r, strings.Join(fields, " "))
	}
	return r, nil
}

func (m *Machine) operandPair(fields []string) (string, string, error) {
	a, err := m.operand(fields, 1)
	if err != nil {
		return "", "", err
	}
	b, err := m.operand(fields, 2)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func (m *Machine) offset(fields []string, i int) (int, error) {
	if i >= len(fields) {
		return 0, fmt.Errorf("missing offset in %q", strings.Join(fields, " "))
	}
	return strconv.Atoi(fields[i])
}

func (m *Machine) regAndOffset(fields []string) (string, int, error) {
	r, err := m.operand(fields, 1)
	if err != nil {
		return "", 0, err
	}
	off, err := m.offset(fields, 2)
	if err != nil {
		return "", 0, err
	}
	return r, off, nil
}
