package verify

import "testing"

func TestProgramAcceptsWellFormedInput(t *testing.T) {
	lines := []string{
		"RESET a",
		"INC a",
		"JZERO a 2",
		"JUMP -1",
		"HALT",
	}
	if err := Program(lines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProgramRejectsMissingHalt(t *testing.T) {
	if err := Program([]string{"RESET a"}); err == nil {
		t.Fatal("expected an error for a program with no HALT")
	}
}

func TestProgramRejectsHaltNotLast(t *testing.T) {
	if err := Program([]string{"HALT", "RESET a"}); err == nil {
		t.Fatal("expected an error when HALT isn't the last instruction")
	}
}

func TestProgramRejectsMultipleHalts(t *testing.T) {
	if err := Program([]string{"HALT", "HALT"}); err == nil {
		t.Fatal("expected an error for more than one HALT")
	}
}

func TestProgramRejectsOutOfRangeJump(t *testing.T) {
	lines := []string{"JUMP 5", "HALT"}
	if err := Program(lines); err == nil {
		t.Fatal("expected an error for a jump landing outside the program")
	}
}

func TestProgramRejectsEmptyProgram(t *testing.T) {
	if err := Program(nil); err == nil {
		t.Fatal("expected an error for an empty program")
	}
}
