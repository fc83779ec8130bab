package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"OPCODE_MATMUL":       fmt.Sprintf("%#x", OPCODE_MATMUL),
	"FUNC3_MATMUL":        fmt.Sprintf("%#x", FUNC3_MATMUL),
	"FUNC7_MATMUL":        fmt.Sprintf("%#x", FUNC7_MATMUL),
	"MATRIX_BYTES":        fmt.Sprintf("%v", MATRIX_BYTES),
	"MEMORY_SIZE_DEFAULT": fmt.Sprintf("%#x", MEMORY_SIZE_DEFAULT),
}

// Cpu is the simulation context for the core.
//
// A Cpu is owned by a single caller; it performs no locking.
// Run one Cpu per instruction stream.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]int32 // Register bank. x0 is not hard-wired.
	Memory   *Memory               // Data memory.

	Ticks int // Executed instruction counter.
	Macs  int // Multiply-accumulate counter.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size uint) (cpu *Cpu, err error) {
	mem, err := NewMemory(size)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Close releases the CPU memory. Later memory accesses are out of bounds.
func (cpu *Cpu) Close() (err error) {
	cpu.Memory.release()
	return
}

// Reset clears the registers, memory and statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Ticks = 0
	cpu.Macs = 0
}

// String returns the current register state as a string.
func (cpu *Cpu) String() (text string) {
	for n, val := range cpu.Register {
		reg := Reg(n)
		name := fmt.Sprintf("%v/%v", reg, reg.Abi())
		text += fmt.Sprintf("% 8s: %04X_%04X", name, uint32(val)>>16, uint32(val)&0xffff)
		if n%4 == 3 {
			text += "\n"
		} else {
			text += " "
		}
	}

	return
}

// GetRegister returns the value of register r.
func (cpu *Cpu) GetRegister(r Reg) int32 {
	return cpu.Register[r]
}

// SetRegister sets the value of register r.
func (cpu *Cpu) SetRegister(r Reg, value int32) {
	cpu.Register[r] = value
}

// ReadMatrix reads the 2x2 matrix at addr, one word at a time.
func (cpu *Cpu) ReadMatrix(addr uint32) (m Matrix, err error) {
	for n := range MATRIX_SIZE {
		var word int32
		word, err = cpu.Memory.readWord(uint64(addr) + uint64(n*WORD_BYTES))
		if err != nil {
			return
		}
		m[n/MATRIX_DIM][n%MATRIX_DIM] = word
	}

	return
}

// WriteMatrix writes the 2x2 matrix at addr, one word at a time.
// Words written before a failing word remain written.
func (cpu *Cpu) WriteMatrix(addr uint32, m Matrix) (err error) {
	for n, word := range m.Words() {
		err = cpu.Memory.writeWord(uint64(addr)+uint64(n*WORD_BYTES), word)
		if err != nil {
			return
		}
	}

	return
}

// Execute decodes and executes a single instruction word.
//
// Unrecognized words fail with ErrUnrecognized and change no state.
func (cpu *Cpu) Execute(word uint32) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(word), err)
		}
	}()

	inst := Decode(word)

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", word, inst)
	}

	switch inst.Operation() {
	case OP_MATMUL:
		err = cpu.matmul(inst.Rd, inst.Rs1, inst.Rs2)
		if err != nil {
			err = errors.Join(ErrOpcodeMatmul, err)
			return
		}
	default:
		err = ErrUnrecognized
		return
	}

	cpu.Ticks += 1

	return
}

// matmul stores the product of the matrices addressed by rs1 and rs2 at the
// address held in rd.
//
// rd is an address operand here, not a destination register. The register
// file is never written.
func (cpu *Cpu) matmul(rd, rs1, rs2 Reg) (err error) {
	addr_a := uint32(cpu.Register[rs1])
	addr_b := uint32(cpu.Register[rs2])
	addr_c := uint32(cpu.Register[rd])

	if cpu.Verbose {
		log.Printf("cpu: matmul a=0x%x b=0x%x c=0x%x", addr_a, addr_b, addr_c)
	}

	a, err := cpu.ReadMatrix(addr_a)
	if err != nil {
		return
	}

	b, err := cpu.ReadMatrix(addr_b)
	if err != nil {
		return
	}

	c := Multiply(a, b)
	cpu.Macs += MATRIX_SIZE * MATRIX_DIM

	if cpu.Verbose {
		log.Printf("cpu: matmul %v x %v = %v", a, b, c)
	}

	err = cpu.WriteMatrix(addr_c, c)

	return
}
