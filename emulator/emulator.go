package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/cpu"
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/internal"
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/io"
)

const (
	ALIGNMENT = cpu.WORD_BYTES // Operand alignment required when Aligned is set.
)

// Emulator state. CPU + program + initial memory image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Aligned  bool         // If set, MATMUL operand addresses must be word aligned.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Image    io.Image     // Memory image loaded on reset.

	ip int
}

// NewEmulator creates a new emulator with size bytes of memory.
func NewEmulator(size uint) (emu *Emulator, err error) {
	core, err := cpu.NewCpu(size)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:     core,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%#x", emu.Cpu.Memory.Size()),
		"ALIGNMENT":   fmt.Sprintf("%v", ALIGNMENT),
	}

	return internal.Concat2(maps.All(defines),
		emu.Cpu.Defines(),
	)
}

// Close the emulator
func (emu *Emulator) Close() (err error) {
	err = emu.Cpu.Close()

	return
}

// Reset the machine: clear the CPU, load the image, then apply the program's
// memory and register presets.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.ip = 0

	err = emu.Image.Load(emu.Cpu.Memory)
	if err != nil {
		return
	}

	for _, data := range emu.Program.Data {
		if emu.Verbose {
			log.Printf("emulator: data 0x%08x %v", data.Addr, data.Words)
		}
		err = emu.Cpu.Memory.Write(data.Addr, data.Bytes())
		if err != nil {
			err = &ErrRuntime{LineNo: data.LineNo, Err: err}
			return
		}
	}

	for _, preset := range emu.Program.Presets {
		if emu.Verbose {
			log.Printf("emulator: reg %v 0x%08x", preset.Register, uint32(preset.Value))
		}
		emu.Cpu.SetRegister(preset.Register, preset.Value)
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.ip
}

// Code returns the current instruction word, or 0 past the end of the program.
func (emu *Emulator) Code() uint32 {
	dbg := emu.Program.Debug(emu.ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.Code
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// checkAlignment verifies the MATMUL operand addresses of inst.
func (emu *Emulator) checkAlignment(inst cpu.Instruction) (err error) {
	if !emu.Aligned || inst.Operation() != cpu.OP_MATMUL {
		return
	}

	for _, reg := range []cpu.Reg{inst.Rs1, inst.Rs2, inst.Rd} {
		addr := uint32(emu.Cpu.GetRegister(reg))
		if addr%ALIGNMENT != 0 {
			err = &ErrAlignment{Reg: reg, Addr: addr}
			return
		}
	}

	return
}

// Tick performs a single instruction of the emulator.
// done is set once the instruction pointer is past the end of the program.
// On error the instruction pointer does not advance.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	dbg := emu.Program.Debug(emu.ip)
	if dbg.Opcode == nil {
		done = true
		return
	}

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: dbg.Opcode.LineNo, Err: err}
		}
	}()

	err = emu.checkAlignment(dbg.Instruction)
	if err != nil {
		return
	}

	err = emu.Cpu.Execute(dbg.Opcode.Code)
	if err != nil {
		return
	}

	emu.ip++

	return
}

// Run ticks until the end of the program, or the first error.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
