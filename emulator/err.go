package emulator

import (
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/cpu"
	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrAlignment reports a MATMUL operand address that is not word aligned.
type ErrAlignment struct {
	Reg  cpu.Reg
	Addr uint32
}

func (err *ErrAlignment) Error() string {
	return f("%v address 0x%08x is not aligned", err.Reg, err.Addr)
}

func (err *ErrAlignment) Is(target error) (ok bool) {
	_, ok = target.(*ErrAlignment)
	return
}
