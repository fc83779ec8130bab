package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	REGISTER_COUNT = 32 // Size of the register file.
	REGISTER_BITS  = 5  // Bits in a register operand field.
)

// Reg is a register operand index, x0 through x31.
type Reg uint8

// ABI names of the registers, indexed by register.
var _reg_abi = [REGISTER_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// String returns the architectural name, x0 through x31.
func (r Reg) String() string {
	return fmt.Sprintf("x%d", uint8(r))
}

// Abi returns the ABI name of the register.
func (r Reg) Abi() string {
	if int(r) >= len(_reg_abi) {
		return r.String()
	}
	return _reg_abi[r]
}

// ParseReg parses an architectural (x0-x31) or ABI register name.
// The frame pointer alias fp is accepted for s0.
func ParseReg(name string) (r Reg, err error) {
	name = strings.ToLower(name)

	if num, ok := strings.CutPrefix(name, "x"); ok {
		var index uint64
		index, err = strconv.ParseUint(num, 10, 8)
		if err != nil || index >= REGISTER_COUNT {
			err = ErrParseRegister(name)
			return
		}
		r = Reg(index)
		return
	}

	if name == "fp" {
		name = "s0"
	}

	for n, abi := range _reg_abi {
		if abi == name {
			r = Reg(n)
			return
		}
	}

	err = ErrParseRegister(name)
	return
}
