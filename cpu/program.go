package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"

	ioimage "github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/io"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction word.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Code   uint32
}

// Preset is a register value applied before the program runs.
type Preset struct {
	LineNo   int
	Register Reg
	Value    int32
}

// Data is a run of words stored in memory before the program runs.
type Data struct {
	LineNo int
	Addr   uint32
	Words  []int32
}

// Bytes returns the little-endian memory form of the data.
func (data Data) Bytes() (out []byte) {
	out = make([]byte, 0, len(data.Words)*WORD_BYTES)
	for _, word := range data.Words {
		out = ioimage.AppendWord(out, word)
	}
	return
}

// Program is an assembled instruction stream and its initial machine state.
type Program struct {
	Opcodes []Opcode
	Presets []Preset
	Data    []Data
}

type Debug struct {
	*Opcode
	Instruction Instruction
}

// Debug returns the opcode at ip. The Opcode is nil if ip is outside the program.
// An opcode's Ip is its index in Opcodes.
func (prog *Program) Debug(ip int) (dbg Debug) {
	if ip < 0 || ip >= len(prog.Opcodes) {
		return
	}

	op := &prog.Opcodes[ip]
	dbg = Debug{
		Opcode:      op,
		Instruction: Decode(op.Code),
	}

	return
}

// Binary returns the instruction words of the program.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over the instruction index and word of every opcode.
func (prog *Program) Codes() iter.Seq2[int, uint32] {
	return func(yield func(ip int, code uint32) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}

// Listing writes the assembled listing: index, word, disassembly and source.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, data := range prog.Data {
		_, err = fmt.Fprintf(w, "%4d: .data 0x%08x %v\n", data.LineNo, data.Addr, data.Words)
		if err != nil {
			return
		}
	}

	for _, preset := range prog.Presets {
		_, err = fmt.Fprintf(w, "%4d: .reg %v 0x%08x\n", preset.LineNo, preset.Register, uint32(preset.Value))
		if err != nil {
			return
		}
	}

	for _, op := range prog.Opcodes {
		_, err = fmt.Fprintf(w, "%4d: %04x %08x  %-24v ; %v\n", op.LineNo, op.Ip, op.Code, Decode(op.Code), strings.Join(op.Words, " "))
		if err != nil {
			return
		}
	}

	return
}
