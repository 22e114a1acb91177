package compiler

import (
	"testing"
)

func TestAssembleInstructionFixedWidth(t *testing.T) {
	instruction, err := AssembleInstruction(OP_CONST, 65534)
	if err != nil {
		t.Fatalf("AssembleInstruction() raised an error: %v", err)
	}
	want := []byte{byte(OP_CONST), 0xFF, 0xFE}
	if len(instruction) != len(want) {
		t.Fatalf("AssembleInstruction() = %v, want %v", instruction, want)
	}
	for i := range want {
		if instruction[i] != want[i] {
			t.Fatalf("AssembleInstruction() = %v, want %v", instruction, want)
		}
	}
}

func TestAssembleInstructionNoOperands(t *testing.T) {
	instruction, err := AssembleInstruction(OP_ADD)
	if err != nil {
		t.Fatalf("AssembleInstruction() raised an error: %v", err)
	}
	if len(instruction) != 1 || instruction[0] != byte(OP_ADD) {
		t.Fatalf("AssembleInstruction() = %v, want [OP_ADD]", instruction)
	}
}

func TestAssembleInstructionRejectsStruct(t *testing.T) {
	_, err := AssembleInstruction(OP_STRUCT, 0)
	if err == nil {
		t.Fatal("AssembleInstruction(OP_STRUCT) should have raised an error")
	}
	if _, ok := err.(DeveloperError); !ok {
		t.Fatalf("AssembleInstruction(OP_STRUCT) error = %T, want DeveloperError", err)
	}
}

func TestAssembleStruct(t *testing.T) {
	instruction := AssembleStruct(3, []int{1, 2, 4})
	want := []byte{byte(OP_STRUCT), 0, 3, 0, 3, 0, 1, 0, 2, 0, 4}
	if len(instruction) != len(want) {
		t.Fatalf("AssembleStruct() = %v, want %v", instruction, want)
	}
	for i := range want {
		if instruction[i] != want[i] {
			t.Fatalf("AssembleStruct() = %v, want %v", instruction, want)
		}
	}
}

func TestInstructionWidth(t *testing.T) {
	code := Instructions(AssembleStruct(0, []int{0, 0}))
	if w := InstructionWidth(code, 0); w != len(code) {
		t.Fatalf("InstructionWidth() = %d, want %d", w, len(code))
	}

	constInstr, _ := AssembleInstruction(OP_CONST, 0)
	if w := InstructionWidth(Instructions(constInstr), 0); w != 3 {
		t.Fatalf("InstructionWidth(OP_CONST) = %d, want 3", w)
	}
}

func TestReadWritePatchOperand(t *testing.T) {
	code := Instructions{byte(OP_JZ), 0, 0}
	PatchOperand(code, 0, 0, 42)
	if got := ReadOperand(code, 0, 0); got != 42 {
		t.Fatalf("ReadOperand() = %d, want 42", got)
	}
}

func TestDisassembleInstruction(t *testing.T) {
	code := Instructions{byte(OP_ADD)}
	line, err := DisassembleInstruction(code, 0)
	if err != nil {
		t.Fatalf("DisassembleInstruction() raised an error: %v", err)
	}
	if line != "0000: OP_ADD" {
		t.Fatalf("DisassembleInstruction() = %q, want %q", line, "0000: OP_ADD")
	}
}

func TestDisassembleStruct(t *testing.T) {
	code := Instructions(AssembleStruct(5, []int{1}))
	line, err := DisassembleInstruction(code, 0)
	if err != nil {
		t.Fatalf("DisassembleInstruction() raised an error: %v", err)
	}
	want := "0000: OP_STRUCT name=5 propcount=1 props=[1]"
	if line != want {
		t.Fatalf("DisassembleInstruction() = %q, want %q", line, want)
	}
}
