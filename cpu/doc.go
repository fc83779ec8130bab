// Package cpu implements a minimal RISC-V style core with the MATMUL matrix
// extension, and an assembler for it.
//
// The core consists of thirty-two 32-bit general-purpose registers (x0-x31,
// none of them hard-wired to zero), a bounds-checked little-endian byte
// memory, and a decode/execute engine that recognizes exactly one R-type
// instruction:
//
//	bit:    31        25 24   20 19   15 14  12 11   7 6     0
//	field:  func7       rs2     rs1    func3  rd    opcode
//	MATMUL: 0000001    rs2     rs1     111    rd    0101011
//
// MATMUL multiplies the 2x2 matrix addressed by rs1 with the 2x2 matrix
// addressed by rs2 and stores the product at the address held in rd. Note
// that rd supplies an address operand; MATMUL never writes a register.
//
// The assembler accepts the matmul mnemonic, raw instruction words, register
// and memory presets, equates, macros, and $(...) expressions.
package cpu
