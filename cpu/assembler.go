package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strings"
)

// EQUATE_DEPTH limits how many equates are followed when resolving a word.
const EQUATE_DEPTH = 8

// Predefined system equates
var _sys_equates = map[string]string{
	"LINENO":              "0",
	"OPCODE_MATMUL":       fmt.Sprintf("%#x", OPCODE_MATMUL),
	"FUNC3_MATMUL":        fmt.Sprintf("%#x", FUNC3_MATMUL),
	"FUNC7_MATMUL":        fmt.Sprintf("%#x", FUNC7_MATMUL),
	"MATRIX_BYTES":        fmt.Sprintf("%v", MATRIX_BYTES),
	"MEMORY_SIZE_DEFAULT": fmt.Sprintf("%#x", MEMORY_SIZE_DEFAULT),
}

// Assembler is a single pass macro assembler for the MATMUL core.
//
// Syntax, one statement per line, ';' or '#' starts a comment and operands
// are separated by spaces or commas:
//
//	matmul RD, RS1, RS2           ; product of [RS1] and [RS2] stored at [RD]
//	.word VALUE...                ; raw instruction words
//	.reg REG VALUE                ; register preset
//	.matrix ADDR M00 M01 M10 M11  ; matrix preset
//	.data ADDR WORD...            ; memory preset
//	.equ NAME VALUE               ; equate
//	.macro NAME ARG... / .endm    ; macro, '@' expands to a unique prefix
//
// $(expr) is evaluated at assembly time, with the integer equates in scope.
// 'c' is the value of a character.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.
	Preset  []Preset // List of register presets.
	Data    []Data   // List of memory presets.

	Equate map[string]string // Map of equates.
	Macro  map[string]*Macro // Map of macros.

	predefine map[string]string
	recording *Macro // Macro whose body is being read.
	depth     int    // Macro expansion depth.
}

// Predefine defines an equate for every following Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

// splitWords splits a line on spaces and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// stripComment removes a trailing ';' or '#' comment.
func stripComment(text string) string {
	if n := strings.IndexAny(text, ";#"); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSpace(text)
}

// resolve replaces a word by its equate, following equates of equates.
func (asm *Assembler) resolve(word string) string {
	for range EQUATE_DEPTH {
		equate, ok := asm.Equate[word]
		if !ok || equate == word {
			break
		}
		word = equate
	}
	return word
}

// reset prepares the assembler for a new source.
func (asm *Assembler) reset() {
	asm.Opcode = asm.Opcode[:0]
	asm.Preset = asm.Preset[:0]
	asm.Data = asm.Data[:0]

	asm.Macro = make(map[string]*Macro)
	asm.recording = nil
	asm.depth = 0

	asm.Equate = maps.Clone(_sys_equates)
	maps.Copy(asm.Equate, asm.predefine)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		// Character literals may be ';' or '#'.
		line = stripComment(expandChars(text))

		err = asm.scanLine(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.recording != nil {
		err = ErrMacroLonely
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Presets: slices.Clone(asm.Preset),
		Data:    slices.Clone(asm.Data),
	}

	return
}

// scanLine handles macro recording, and assembles every other line.
func (asm *Assembler) scanLine(line string, lineno int) (err error) {
	words := splitWords(line)
	if len(words) > 0 {
		switch words[0] {
		case ".macro":
			return asm.beginMacro(words[1:], lineno)
		case ".endm":
			return asm.endMacro()
		}
	}

	if asm.recording != nil {
		asm.recording.Lines = append(asm.recording.Lines, line)
		return
	}

	return asm.assembleLine(line, lineno)
}

// assembleLine expands and assembles a single line.
func (asm *Assembler) assembleLine(line string, lineno int) (err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line, err = asm.expandExprs(expandChars(line))
	if err != nil {
		return
	}

	words := splitWords(line)
	if len(words) == 0 {
		return
	}

	// .equ NAME VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if _, ok := asm.Equate[words[1]]; ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for n, word := range words {
		words[n] = asm.resolve(word)
	}

	if macro, ok := asm.Macro[words[0]]; ok {
		return asm.expandMacro(words[0], macro, words[1:], lineno)
	}

	return asm.assemble(words, lineno)
}

// numbers returns the values of a list of words.
func numbers(words []string) (values []int32, err error) {
	for _, word := range words {
		var value uint32
		value, err = number(word)
		if err != nil {
			return
		}
		values = append(values, int32(value))
	}

	return
}

// assemble emits the opcode or preset for a resolved statement.
func (asm *Assembler) assemble(words []string, lineno int) (err error) {
	op := strings.ToLower(words[0])
	args := words[1:]

	switch op {
	case "matmul":
		if len(args) < 3 {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		var regs [3]Reg
		for n, word := range args {
			regs[n], err = ParseReg(word)
			if err != nil {
				return
			}
		}
		asm.emit(lineno, words, EncodeMatmul(regs[0], regs[1], regs[2]))
	case ".word":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		var values []int32
		values, err = numbers(args)
		if err != nil {
			return
		}
		for _, value := range values {
			asm.emit(lineno, words, uint32(value))
		}
	case ".reg":
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var reg Reg
		reg, err = ParseReg(args[0])
		if err != nil {
			return
		}
		var value uint32
		value, err = number(args[1])
		if err != nil {
			return
		}
		asm.Preset = append(asm.Preset, Preset{LineNo: lineno, Register: reg, Value: int32(value)})
	case ".matrix", ".data":
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if op == ".matrix" && len(args) != 1+MATRIX_SIZE {
			err = ErrDirectiveSyntax
			return
		}
		var addr uint32
		addr, err = number(args[0])
		if err != nil {
			return
		}
		var values []int32
		values, err = numbers(args[1:])
		if err != nil {
			return
		}
		asm.Data = append(asm.Data, Data{LineNo: lineno, Addr: addr, Words: values})
	default:
		err = ErrInstructionInvalid
	}

	return
}

// emit appends an instruction word at the next ip.
func (asm *Assembler) emit(lineno int, words []string, code uint32) {
	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Ip:     len(asm.Opcode),
		Words:  slices.Clone(words),
		Code:   code,
	})
}
