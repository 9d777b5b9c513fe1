// Package verify re-checks a generated program's text against the target
// machine's grammar and the handful of structural properties spec.md §8
// requires of every compiler output: exactly one HALT, as the last line,
// and every jump landing inside the program.
//
// It's adapted from the two-pass shape of an assembler that encoded a
// different instruction set to bytes: that pass1/pass2 split (scan once to
// learn positions, scan again to validate/resolve against them) is kept
// here even though there's nothing left to encode — the code generator's
// own InstructionBuffer already resolves labels to offsets, so this
// package's job is strictly to catch a code generator bug before it
// reaches the output file, not to assemble anything.
package verify

import (
	"fmt"
	"strconv"
	"strings"
)

var jumpMnemonics = map[string]bool{"JUMP": true, "JZERO": true, "JODD": true}

// Program validates a finalized instruction list.
func Program(lines []string) error {
	if len(lines) == 0 {
		return fmt.Errorf("empty program")
	}
	if err := checkSingleTrailingHalt(lines); err != nil {
		return err
	}
	if err := checkNoLabelTokens(lines); err != nil {
		return err
	}
	return checkJumpsInRange(lines)
}

// checkNoLabelTokens catches a code generator bug where a symbolic label
// slipped into the finalized output instead of being resolved to an offset
// — InstructionBuffer.Finalize never emits one, so this should never fire,
// but it's the one structural property spec.md §8 names that the other two
// checks don't already cover incidentally.
func checkNoLabelTokens(lines []string) error {
	for i, l := range lines {
		fields := strings.Fields(l)
		if len(fields) == 1 && strings.HasPrefix(fields[0], "L") {
			if _, err := strconv.Atoi(fields[0][1:]); err == nil {
				return fmt.Errorf("line %d: unresolved label %q in finalized output", i, fields[0])
			}
		}
	}
	return nil
}

func checkSingleTrailingHalt(lines []string) error {
	halts := 0
	for i, l := range lines {
		if strings.TrimSpace(l) == "HALT" {
			halts++
			if i != len(lines)-1 {
				return fmt.Errorf("HALT at line %d is not the last instruction", i)
			}
		}
	}
	switch halts {
	case 0:
		return fmt.Errorf("program has no HALT")
	case 1:
		return nil
	default:
		return fmt.Errorf("program has %d HALT instructions, want exactly 1", halts)
	}
}

func checkJumpsInRange(lines []string) error {
	for i, l := range lines {
		fields := strings.Fields(l)
		if len(fields) == 0 {
			return fmt.Errorf("empty instruction at line %d", i)
		}
		if !jumpMnemonics[fields[0]] {
			continue
		}
		offsetField := fields[len(fields)-1]
		offset, err := strconv.Atoi(offsetField)
		if err != nil {
			return fmt.Errorf("line %d: %s has a non-numeric offset %q", i, fields[0], offsetField)
		}
		target := i + offset
		if target < 0 || target >= len(lines) {
			return fmt.Errorf("line %d: %s %d jumps to out-of-range line %d", i, fields[0], offset, target)
		}
	}
	return nil
}
