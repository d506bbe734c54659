package insn

import "fmt"

// Reg is an integer register index in the 5-bit rd/rs1/rs2 fields.
type Reg uint8

const (
	X0 Reg = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	X31
)

// ABI aliases for the registers the issuance layer binds operands to.
// Outputs come back in a0; inputs take a0 then a1 in operand order, except
// that a load's address moves to a1 so the result can land in a0.
const (
	Zero = X0
	A0   = X10
	A1   = X11
)

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func (r Reg) String() string {
	if r > X31 {
		return fmt.Sprintf("x?%d", uint8(r))
	}
	return regNames[r]
}
