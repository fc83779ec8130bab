package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(prog.Presets))
	assert.Equal(0, len(prog.Data))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%#x", OPCODE_MATMUL), asm.Equate["OPCODE_MATMUL"])
	assert.Equal(fmt.Sprintf("%#x", FUNC3_MATMUL), asm.Equate["FUNC3_MATMUL"])
	assert.Equal(fmt.Sprintf("%#x", FUNC7_MATMUL), asm.Equate["FUNC7_MATMUL"])
	assert.Equal(fmt.Sprintf("%v", MATRIX_BYTES), asm.Equate["MATRIX_BYTES"])
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerMatmul(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"matmul x1, x2, x3",
		"  MATMUL ra sp gp   ; ABI names",
		"matmul x31,x0,x17 # no spaces",
		"",
		"; comment only",
		"matmul fp, a0, t6",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{1, 0, []string{"matmul", "x1", "x2", "x3"}, 0x023170AB},
		{2, 1, []string{"MATMUL", "ra", "sp", "gp"}, 0x023170AB},
		{3, 2, []string{"matmul", "x31", "x0", "x17"}, EncodeMatmul(31, 0, 17)},
		{6, 3, []string{"matmul", "fp", "a0", "t6"}, EncodeMatmul(8, 10, 31)},
	}

	opEqual(t, expected, prog.Opcodes)
	assert.Equal([]uint32{0x023170AB, 0x023170AB, EncodeMatmul(31, 0, 17), EncodeMatmul(8, 10, 31)}, prog.Binary())
}

func TestAssemblerWord(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".word 0x003100b3",
		".word 0 0xffffffff",
		".word -1",
		".word ~0x2b",
		".word $((FUNC7_MATMUL << 25) | (3 << 20) | (2 << 15) | (FUNC3_MATMUL << 12) | (1 << 7) | OPCODE_MATMUL)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]uint32{0x003100b3, 0, 0xffffffff, 0xffffffff, 0xffffffd4, 0x023170AB}, prog.Binary())
	assert.Equal(2, prog.Opcodes[1].LineNo)
	assert.Equal(2, prog.Opcodes[2].LineNo)
	assert.Equal(2, prog.Opcodes[2].Ip)
}

func TestAssemblerPresets(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".matrix 0x1000 1 2 3 4",
		".matrix 0x1020, -1, 2, -3, 4",
		".data 0x2000 0x12345678",
		".reg x1 0x1040",
		".reg a0 -1",
		"matmul x1 x2 x3",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]Data{
		{LineNo: 1, Addr: 0x1000, Words: []int32{1, 2, 3, 4}},
		{LineNo: 2, Addr: 0x1020, Words: []int32{-1, 2, -3, 4}},
		{LineNo: 3, Addr: 0x2000, Words: []int32{0x12345678}},
	}, prog.Data)

	assert.Equal([]Preset{
		{LineNo: 4, Register: 1, Value: 0x1040},
		{LineNo: 5, Register: 10, Value: -1},
	}, prog.Presets)

	assert.Equal(1, len(prog.Opcodes))
	assert.Equal(MatrixOf(-1, 2, -3, 4).Bytes(), prog.Data[1].Bytes())
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x1000")
	asm.Predefine("OUT", "x1")

	program := []string{
		".equ A BASE",
		".equ B $(BASE + 2 * MATRIX_BYTES)",
		".equ LHS x2",
		".matrix A 1 2 3 4",
		".matrix B 5 6 7 8",
		".reg OUT $(B + 2 * MATRIX_BYTES)",
		".reg LHS A",
		".reg x3 B",
		".data $(LINENO * 0x100) 'a' '\\n'",
		"matmul OUT LHS x3",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(uint32(0x1000), prog.Data[0].Addr)
	assert.Equal(uint32(0x1020), prog.Data[1].Addr)
	assert.Equal(uint32(0x900), prog.Data[2].Addr)
	assert.Equal([]int32{'a', '\n'}, prog.Data[2].Words)
	assert.Equal([]Preset{
		{LineNo: 6, Register: 1, Value: 0x1040},
		{LineNo: 7, Register: 2, Value: 0x1000},
		{LineNo: 8, Register: 3, Value: 0x1020},
	}, prog.Presets)
	assert.Equal([]uint32{0x023170AB}, prog.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		".macro SQUARE REG ADDR",
		".equ @ADDR ADDR",
		".reg REG @ADDR",
		"matmul REG REG REG",
		".endm",
		"SQUARE x5 0x100",
		"SQUARE x6 0x200",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]uint32{EncodeMatmul(5, 5, 5), EncodeMatmul(6, 6, 6)}, prog.Binary())
	assert.Equal([]Preset{
		{LineNo: 3, Register: 5, Value: 0x100},
		{LineNo: 3, Register: 6, Value: 0x200},
	}, prog.Presets)

	// Macro arguments do not leak.
	_, ok := asm.Equate["REG"]
	assert.False(ok)
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
		err  error
	}){
		{"matmul", 1, ErrOpcodeMissing},
		{"matmul x1 x2", 1, ErrOpcodeMissing},
		{"matmul x1 x2 x3 x4", 1, ErrOpcodeExtraArgs},
		{"matmul x1 x2 x32", 1, ErrRegisterInvalid},
		{"matmul r1 x2 x3", 1, ErrRegisterInvalid},
		{"\n\nadd x1 x2 x3", 3, ErrInstructionInvalid},
		{".word", 1, ErrOpcodeValueMissing},
		{".word nothing", 1, nil},
		{".word 0x100000000", 1, nil},
		{".word $(\"aaa\")", 1, nil},
		{".word $(more(\"aaa\"))", 1, nil},
		{".word $(0x10000000000000000)", 1, nil},
		{".word $(1 << 32)", 1, nil},
		{".word $(-(1 << 31) - 1)", 1, nil},
		{".reg x1", 1, ErrOpcodeValueMissing},
		{".reg x1 1 2", 1, ErrOpcodeExtraArgs},
		{".reg q1 1", 1, ErrRegisterInvalid},
		{".reg x1 q1", 1, nil},
		{".matrix 0x1000 1 2 3", 1, ErrDirectiveSyntax},
		{".matrix 0x1000 1 2 3 4 5", 1, ErrDirectiveSyntax},
		{".matrix 0x1000", 1, ErrOpcodeValueMissing},
		{".data 0x1000 one", 1, nil},
		{".equ", 1, ErrEquateSyntax},
		{".equ A", 1, ErrEquateSyntax},
		{".equ A 1\n.equ A 2\n", 2, ErrEquateDuplicate},
		{".macro A B C\n.endm\nA 1\n", 3, ErrMacroSyntax},
		{".macro A B C\nB C\n.endm\nA matmul x1\nA invalid word\n", 4, ErrOpcodeMissing},
		{".macro A B\n.macro C\n.endm\n.endm", 2, ErrMacroNesting},
		{".macro A B\n.endm\n.macro A\n.endm\n", 3, ErrMacroDuplicate},
		{".macro A B\n.endm\n.endm\n", 3, ErrMacroLonelyEndm},
		{".macro A\nmatmul x1 x2 x3\n", 2, ErrMacroLonely},
		{".macro\n", 1, ErrMacroSyntax},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
			if entry.err != nil {
				assert.ErrorIs(err, entry.err, entry.prog)
			}
		}
	}
}

func TestAssemblerErrMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := ".macro BAD\nmatmul x1 x2 x99\n.endm\nBAD\n"
	_, err := asm.Parse(strings.NewReader(program))

	var em *ErrMacro
	assert.True(errors.As(err, &em))
	assert.Equal("BAD", em.Macro)
	assert.Equal(2, em.Line)
	assert.ErrorIs(err, ErrRegisterInvalid)

	// A single ErrSyntax, at the invocation line, wraps the macro error.
	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(4, se.LineNo)
	assert.Equal("BAD", se.Line)
	_, ok := se.Err.(*ErrMacro)
	assert.True(ok)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog1, err := asm.Parse(strings.NewReader(".equ A 1\n.reg x1 A\nmatmul x1 x1 x1\n"))
	assert.NoError(err)

	prog2, err := asm.Parse(strings.NewReader(".equ A 2\n.reg x2 A\n"))
	assert.NoError(err)

	assert.Equal(1, len(prog1.Opcodes))
	assert.Equal(1, len(prog1.Presets))
	assert.Equal(int32(1), prog1.Presets[0].Value)

	assert.Equal(0, len(prog2.Opcodes))
	assert.Equal(1, len(prog2.Presets))
	assert.Equal(int32(2), prog2.Presets[0].Value)
}

func TestAssemblerMacroRecursion(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader(".macro R\nR\n.endm\nR\n"))
	assert.ErrorIs(err, ErrMacroDepth)
	assert.NotErrorIs(err, ErrMacroNesting)

	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(4, se.LineNo)
}

func TestAssemblerExprRange(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(".word $((1 << 32) - 1) $(-(1 << 31))\n"))
	assert.NoError(err)
	assert.Equal([]uint32{0xffffffff, 0x80000000}, prog.Binary())

	for _, text := range []string{
		".word $(1 << 32)",
		".word $(1 << 40)",
		".word $(more(\"aaa\"))",
		".word $(\"aaa\")",
	} {
		_, err := asm.Parse(strings.NewReader(text))
		var epe ErrParseExpression
		assert.True(errors.As(err, &epe), text)
	}
}

func TestAssemblerCharComment(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(".word ';' '#' ; a comment\n.word 'A' # another\n"))
	assert.NoError(err)
	assert.Equal([]uint32{';', '#', 'A'}, prog.Binary())

	prog, err = asm.Parse(strings.NewReader(".macro SEMI\n.word ';'\n.endm\nSEMI\n"))
	assert.NoError(err)
	assert.Equal([]uint32{';'}, prog.Binary())
}

func TestNumber(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word     string
		expected uint32
	}){
		{"0", 0},
		{"42", 42},
		{"0x2b", 0x2b},
		{"0b101", 5},
		{"0o17", 15},
		{"-1", 0xffffffff},
		{"-0x80000000", 0x80000000},
		{"0xffffffff", 0xffffffff},
		{"~0", 0xffffffff},
		{"~-1", 0},
	}

	for _, entry := range table {
		value, err := number(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.expected, value, entry.word)
	}

	for _, bad := range []string{"", "~", "x1", "0x100000000", "-0x80000001", "1.5"} {
		_, err := number(bad)
		var epn ErrParseNumber
		assert.True(errors.As(err, &epn), bad)
	}
}

func TestExpandChars(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(".word 65 66", expandChars(".word 'A' 'B'"))
	assert.Equal("10 92 27 9 13", expandChars(`'\n' '\\' '\e' '\t' '\r'`))
	assert.Equal(`'\q'`, expandChars(`'\q'`))
	assert.Equal("''", expandChars("''"))
}
