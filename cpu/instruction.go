package cpu

import (
	"fmt"
)

// MATMUL encoding constants.
const (
	OPCODE_MATMUL = 0x2B // custom-1 major opcode, 0b0101011
	FUNC3_MATMUL  = 0x7
	FUNC7_MATMUL  = 0x1
)

// R-type field layout.
const (
	SHIFT_OPCODE = 0
	SHIFT_RD     = 7
	SHIFT_FUNC3  = 12
	SHIFT_RS1    = 15
	SHIFT_RS2    = 20
	SHIFT_FUNC7  = 25

	MASK_OPCODE = 0x7f
	MASK_RD     = 0x1f
	MASK_FUNC3  = 0x07
	MASK_RS1    = 0x1f
	MASK_RS2    = 0x1f
	MASK_FUNC7  = 0x7f
)

// Operation is a decoded operation.
type Operation int

//go:generate go tool stringer -linecomment -type=Operation
const (
	OP_UNKNOWN = Operation(0) // unknown
	OP_MATMUL  = Operation(1) // matmul
)

// Instruction holds the R-type fields of an instruction word.
type Instruction struct {
	Opcode uint8
	Rd     Reg
	Func3  uint8
	Rs1    Reg
	Rs2    Reg
	Func7  uint8
}

// Decode extracts the R-type fields of word. Every word decodes.
func Decode(word uint32) (inst Instruction) {
	inst.Opcode = uint8((word >> SHIFT_OPCODE) & MASK_OPCODE)
	inst.Rd = Reg((word >> SHIFT_RD) & MASK_RD)
	inst.Func3 = uint8((word >> SHIFT_FUNC3) & MASK_FUNC3)
	inst.Rs1 = Reg((word >> SHIFT_RS1) & MASK_RS1)
	inst.Rs2 = Reg((word >> SHIFT_RS2) & MASK_RS2)
	inst.Func7 = uint8((word >> SHIFT_FUNC7) & MASK_FUNC7)
	return
}

// Encode assembles the instruction word. Fields are truncated to their width.
func Encode(inst Instruction) (word uint32) {
	word |= (uint32(inst.Opcode) & MASK_OPCODE) << SHIFT_OPCODE
	word |= (uint32(inst.Rd) & MASK_RD) << SHIFT_RD
	word |= (uint32(inst.Func3) & MASK_FUNC3) << SHIFT_FUNC3
	word |= (uint32(inst.Rs1) & MASK_RS1) << SHIFT_RS1
	word |= (uint32(inst.Rs2) & MASK_RS2) << SHIFT_RS2
	word |= (uint32(inst.Func7) & MASK_FUNC7) << SHIFT_FUNC7
	return
}

// MakeMatmul creates a MATMUL instruction.
func MakeMatmul(rd, rs1, rs2 Reg) Instruction {
	return Instruction{
		Opcode: OPCODE_MATMUL,
		Rd:     rd,
		Func3:  FUNC3_MATMUL,
		Rs1:    rs1,
		Rs2:    rs2,
		Func7:  FUNC7_MATMUL,
	}
}

// EncodeMatmul returns the instruction word for 'matmul rd, rs1, rs2'.
func EncodeMatmul(rd, rs1, rs2 Reg) uint32 {
	return Encode(MakeMatmul(rd, rs1, rs2))
}

// Operation dispatches on opcode, func3 and func7.
func (inst Instruction) Operation() Operation {
	if inst.Opcode == OPCODE_MATMUL && inst.Func3 == FUNC3_MATMUL && inst.Func7 == FUNC7_MATMUL {
		return OP_MATMUL
	}

	return OP_UNKNOWN
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	switch inst.Operation() {
	case OP_MATMUL:
		return fmt.Sprintf("%v %v, %v, %v", OP_MATMUL, inst.Rd, inst.Rs1, inst.Rs2)
	default:
		return fmt.Sprintf(".word 0x%08x", Encode(inst))
	}
}
