package refmachine

import (
	"reflect"
	"testing"
)

func TestRunLoadImmediateAndPut(t *testing.T) {
	program := []string{
		"RESET a",
		"INC a",
		"SHL a",
		"INC a",
		"PUT a",
		"HALT",
	}
	out, err := Run(program, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{3}) {
		t.Fatalf("output = %v, want [3]", out)
	}
}

func TestRunStoreThenLoadRoundTrips(t *testing.T) {
	program := []string{
		"RESET a", "INC a", "INC a", "INC a", // a = 3 (address)
		"RESET b", "INC b", "INC b", "INC b", "INC b", "INC b", // b = 5 (value)
		"STORE a b",
		"RESET c", "INC c", "INC c", "INC c", // c = 3 (address again)
		"LOAD d c",
		"PUT d",
		"HALT",
	}
	out, err := Run(program, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{5}) {
		t.Fatalf("output = %v, want [5]", out)
	}
}

func TestRunGetConsumesInputInOrder(t *testing.T) {
	program := []string{"GET a", "GET b", "PUT b", "PUT a", "HALT"}
	out, err := Run(program, []int{11, 22})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{22, 11}) {
		t.Fatalf("output = %v, want [22 11]", out)
	}
}

func TestRunJzeroSkipsWhenZero(t *testing.T) {
	program := []string{
		"RESET a",
		"JZERO a 3",
		"INC a",
		"PUT a",
		"HALT",
	}
	out, err := Run(program, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("output = %v, want no output (the skipped INC/PUT never ran)", out)
	}
}

func TestRunSubtractionSaturatesAtZero(t *testing.T) {
	program := []string{
		"RESET a", "INC a", "INC a", // a = 2
		"RESET b", "INC b", "INC b", "INC b", "INC b", "INC b", // b = 5
		"SUB a b",
		"PUT a",
		"HALT",
	}
	out, err := Run(program, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, []int{0}) {
		t.Fatalf("output = %v, want [0]", out)
	}
}

func TestRunDetectsMissingHalt(t *testing.T) {
	program := []string{"RESET a"}
	if _, err := Run(program, nil); err == nil {
		t.Fatal("expected an error for a program that runs off the end")
	}
}

func TestRunDetectsOutOfRangeJump(t *testing.T) {
	program := []string{"JUMP 5", "HALT"}
	if _, err := Run(program, nil); err == nil {
		t.Fatal("expected an error for a jump landing outside the program")
	}
}
