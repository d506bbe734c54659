package insn

// Functions to parse the instruction field values from 32-bit RISC-V
// instruction words. Field layout is shared by all uncompressed formats.

func ParseOpcode(instr uint32) uint32 {
	return instr & 0x7F
}

func ParseRd(instr uint32) Reg {
	return Reg((instr >> 7) & 0x1F)
}

func ParseFunct3(instr uint32) uint32 {
	return (instr >> 12) & 0x7
}

func ParseRs1(instr uint32) Reg {
	return Reg((instr >> 15) & 0x1F)
}

func ParseRs2(instr uint32) Reg {
	return Reg((instr >> 20) & 0x1F)
}

func ParseFunct7(instr uint32) uint32 {
	return instr >> 25
}

// ParseImmTypeI returns the raw 12-bit I-type immediate, without sign
// extension. The system instructions in this catalogue use it as a
// function code, not as a signed offset.
func ParseImmTypeI(instr uint32) uint32 {
	return instr >> 20
}
