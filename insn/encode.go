package insn

// Opcode, funct and immediate constants for the privileged and hinting
// instructions this layer issues. Several of these instructions are newer
// than generic assembler support; their encodings below are the literal
// binary contract and are not derived from anything.
const (
	OpcodeMiscMem = 0x0F // 000_1111: fence, fence.i, pause
	OpcodeOpImm   = 0x13 // 001_0011: addi (nop)
	OpcodeSystem  = 0x73 // 111_0011: privileged and CSR instructions

	// funct3 values under OpcodeSystem
	Funct3Priv  = 0x0 // sfence/sinval/hfence/hinval families, wfi
	Funct3CSRRW = 0x1
	Funct3CSRRS = 0x2
	Funct3HLX   = 0x4 // hypervisor virtual-machine load/store family

	// funct7 values for the R-type system instructions (funct3 = 0)
	Funct7SfenceVMA  = 0x09
	Funct7SinvalVMA  = 0x0B
	Funct7HfenceVVMA = 0x11
	Funct7HinvalVVMA = 0x13
	Funct7HfenceGVMA = 0x31
	Funct7HinvalGVMA = 0x33

	// funct7 values for the hypervisor stores (funct3 = 0x4)
	Funct7HsvB = 0x31
	Funct7HsvH = 0x33
	Funct7HsvW = 0x35

	// 12-bit immediates for the I-type system instructions (funct3 = 0)
	ImmWfi           = 0x105
	ImmSfenceWInval  = 0x180
	ImmSfenceInvalIR = 0x181

	// 12-bit immediates for the hypervisor loads (funct3 = 0x4)
	ImmHlvB   = 0x600
	ImmHlvBu  = 0x601
	ImmHlvH   = 0x640
	ImmHlvHu  = 0x641
	ImmHlvxHu = 0x643
	ImmHlvW   = 0x680
	ImmHlvxWu = 0x683

	// 12-bit immediate for the pause hint (fence with fm=0, pred=W, succ=0)
	ImmPause = 0x010

	// floating-point control and status register numbers
	CSRFflags = 0x001
	CSRFrm    = 0x002
	CSRFcsr   = 0x003
)

// EncodeR encodes an R-type instruction word.
func EncodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 Reg) uint32 {
	return funct7<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}

// EncodeI encodes an I-type instruction word. Only the low 12 bits of imm
// are representable.
func EncodeI(opcode, funct3 uint32, rd, rs1 Reg, imm uint32) uint32 {
	return (imm&0xFFF)<<20 | uint32(rs1)<<15 | funct3<<12 | uint32(rd)<<7 | opcode
}
