package io

import (
	"errors"

	"github.com/yashodipmore/RISC-V-Matrix-Extension-with-SAIL-to-CGEN-Translation-Pipeline/translate"
)

var f = translate.From

var (
	// Image errors
	ErrSegmentEmpty = errors.New(f("segment empty"))
)

// ErrSegment indicates the image segment that failed.
type ErrSegment struct {
	Addr uint32
	Err  error
}

func (err *ErrSegment) Error() string {
	return f("segment 0x%08x %v", err.Addr, err.Err)
}

func (err *ErrSegment) Unwrap() error {
	return err.Err
}
