package cpu

import (
	"errors"

	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrUnrecognized = errors.New(f("unrecognized instruction"))
	ErrOpcodeMatmul = errors.New(f("matmul"))
	ErrMatrixSize   = errors.New(f("matrix size"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDepth         = errors.New(f("macro expansion too deep"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrDirectiveSyntax    = errors.New(f("directive syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrAllocation is returned when a memory of the requested size cannot be
// created.
type ErrAllocation uint

func (ea ErrAllocation) Error() string {
	return f("unable to allocate %v bytes of memory", uint(ea))
}

func (ea ErrAllocation) Is(err error) (ok bool) {
	_, ok = err.(ErrAllocation)
	return
}

// ErrOutOfBounds is returned when a memory access extends past the end of
// memory.
type ErrOutOfBounds struct {
	Addr  uint64 // Address of the access.
	Width int    // Width of the access, in bytes.
	Size  int    // Size of the memory, in bytes.
}

func (err ErrOutOfBounds) Error() string {
	return f("memory access of %v bytes at 0x%x out of bounds (size 0x%x)", err.Width, err.Addr, err.Size)
}

func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}

// ErrOpcode reports the raw instruction word that failed.
type ErrOpcode uint32

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Decode(uint32(eo)).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrParseRegister) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
