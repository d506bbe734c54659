package insn

// Options declare the side effects an issued instruction is excluded from.
// They mirror the exclusions the instruction's architectural definition
// grants: an instruction issued with NoMem must not access memory, NoStack
// must not use the stack, and ReadOnly may read but not write memory.
type Options uint8

const (
	NoMem Options = 1 << iota
	NoStack
	ReadOnly
)

func (o Options) Has(flag Options) bool { return o&flag == flag }

// Input binds an operand value to the register named in the instruction
// word. The execution environment writes the value to the register before
// the instruction executes.
type Input struct {
	Reg   Reg
	Value uint64
}

// Issuance is one literal machine instruction together with its operand
// bindings and declared side-effect exclusions. It is the unit the
// execution environment accepts: the word is emitted bit-exactly, inputs
// are bound first, and the value of Out is returned after execution.
// Out is X0 when the instruction produces no result.
type Issuance struct {
	Word uint32
	In   []Input
	Out  Reg
	Opts Options
}

// privR builds an R-type system instruction with funct3=0 and rd=x0,
// the shared shape of the fence and invalidation families.
func privR(funct7 uint32, rs1, rs2 Reg, in []Input) Issuance {
	return Issuance{
		Word: EncodeR(OpcodeSystem, Funct3Priv, funct7, X0, rs1, rs2),
		In:   in,
		Out:  X0,
		Opts: NoStack,
	}
}

// scoped builds one member of a four-way scope variant family: a fence or
// invalidation taking an optional address and an optional identifier.
// An absent operand encodes the hardwired-zero register in its field,
// never a register that happens to hold zero; the two encodings select
// different hardware behavior.
func scoped(funct7 uint32, addr uint64, hasAddr bool, id uint64, hasID bool) Issuance {
	rs1, rs2 := X0, X0
	var in []Input
	if hasAddr {
		rs1 = A0
		in = append(in, Input{A0, addr})
	}
	if hasID {
		rs2 = A1
		in = append(in, Input{A1, id})
	}
	return privR(funct7, rs1, rs2, in)
}

// Ordering and hint instructions.

// Pause is the PAUSE hint: a fence with fm=0, pred=W, succ=0.
func Pause() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeMiscMem, 0, X0, X0, ImmPause),
		Out:  X0,
		Opts: NoMem | NoStack,
	}
}

// Nop is ADDI x0, x0, 0.
func Nop() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeOpImm, 0, X0, X0, 0),
		Out:  X0,
		Opts: NoMem | NoStack,
	}
}

func Wfi() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3Priv, X0, X0, ImmWfi),
		Out:  X0,
		Opts: NoMem | NoStack,
	}
}

func FenceI() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeMiscMem, 1, X0, X0, 0),
		Out:  X0,
		Opts: NoStack,
	}
}

// Supervisor TLB instructions.

func SfenceVMA(vaddr, asid uint64) Issuance {
	return scoped(Funct7SfenceVMA, vaddr, true, asid, true)
}

func SfenceVMAVaddr(vaddr uint64) Issuance {
	return scoped(Funct7SfenceVMA, vaddr, true, 0, false)
}

func SfenceVMAASID(asid uint64) Issuance {
	return scoped(Funct7SfenceVMA, 0, false, asid, true)
}

func SfenceVMAAll() Issuance {
	return scoped(Funct7SfenceVMA, 0, false, 0, false)
}

func SinvalVMA(vaddr, asid uint64) Issuance {
	return scoped(Funct7SinvalVMA, vaddr, true, asid, true)
}

func SinvalVMAVaddr(vaddr uint64) Issuance {
	return scoped(Funct7SinvalVMA, vaddr, true, 0, false)
}

func SinvalVMAASID(asid uint64) Issuance {
	return scoped(Funct7SinvalVMA, 0, false, asid, true)
}

func SinvalVMAAll() Issuance {
	return scoped(Funct7SinvalVMA, 0, false, 0, false)
}

func SfenceWInval() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3Priv, X0, X0, ImmSfenceWInval),
		Out:  X0,
		Opts: NoStack,
	}
}

func SfenceInvalIR() Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3Priv, X0, X0, ImmSfenceInvalIR),
		Out:  X0,
		Opts: NoStack,
	}
}

// Hypervisor virtual-machine load/store instructions. Loads return their
// result in rd and only ever read memory; stores carry the value in rs2.

func hlv(imm uint32, addr uint64) Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3HLX, A0, A1, imm),
		In:   []Input{{A1, addr}},
		Out:  A0,
		Opts: ReadOnly | NoStack,
	}
}

func hsv(funct7 uint32, addr, value uint64) Issuance {
	return Issuance{
		Word: EncodeR(OpcodeSystem, Funct3HLX, funct7, X0, A0, A1),
		In:   []Input{{A0, addr}, {A1, value}},
		Out:  X0,
		Opts: NoStack,
	}
}

func HlvB(addr uint64) Issuance   { return hlv(ImmHlvB, addr) }
func HlvBu(addr uint64) Issuance  { return hlv(ImmHlvBu, addr) }
func HlvH(addr uint64) Issuance   { return hlv(ImmHlvH, addr) }
func HlvHu(addr uint64) Issuance  { return hlv(ImmHlvHu, addr) }
func HlvxHu(addr uint64) Issuance { return hlv(ImmHlvxHu, addr) }
func HlvW(addr uint64) Issuance   { return hlv(ImmHlvW, addr) }
func HlvxWu(addr uint64) Issuance { return hlv(ImmHlvxWu, addr) }

func HsvB(addr, value uint64) Issuance { return hsv(Funct7HsvB, addr, value) }
func HsvH(addr, value uint64) Issuance { return hsv(Funct7HsvH, addr, value) }
func HsvW(addr, value uint64) Issuance { return hsv(Funct7HsvW, addr, value) }

// Hypervisor TLB instructions. The gvma forms take the guest physical
// address pre-shifted right by 2 bits; the value is bound as supplied.

func HfenceVVMA(vaddr, asid uint64) Issuance {
	return scoped(Funct7HfenceVVMA, vaddr, true, asid, true)
}

func HfenceVVMAVaddr(vaddr uint64) Issuance {
	return scoped(Funct7HfenceVVMA, vaddr, true, 0, false)
}

func HfenceVVMAASID(asid uint64) Issuance {
	return scoped(Funct7HfenceVVMA, 0, false, asid, true)
}

func HfenceVVMAAll() Issuance {
	return scoped(Funct7HfenceVVMA, 0, false, 0, false)
}

func HinvalVVMA(vaddr, asid uint64) Issuance {
	return scoped(Funct7HinvalVVMA, vaddr, true, asid, true)
}

func HinvalVVMAVaddr(vaddr uint64) Issuance {
	return scoped(Funct7HinvalVVMA, vaddr, true, 0, false)
}

func HinvalVVMAASID(asid uint64) Issuance {
	return scoped(Funct7HinvalVVMA, 0, false, asid, true)
}

func HinvalVVMAAll() Issuance {
	return scoped(Funct7HinvalVVMA, 0, false, 0, false)
}

func HfenceGVMA(gaddr, vmid uint64) Issuance {
	return scoped(Funct7HfenceGVMA, gaddr, true, vmid, true)
}

func HfenceGVMAGaddr(gaddr uint64) Issuance {
	return scoped(Funct7HfenceGVMA, gaddr, true, 0, false)
}

func HfenceGVMAVMID(vmid uint64) Issuance {
	return scoped(Funct7HfenceGVMA, 0, false, vmid, true)
}

func HfenceGVMAAll() Issuance {
	return scoped(Funct7HfenceGVMA, 0, false, 0, false)
}

func HinvalGVMA(gaddr, vmid uint64) Issuance {
	return scoped(Funct7HinvalGVMA, gaddr, true, vmid, true)
}

func HinvalGVMAGaddr(gaddr uint64) Issuance {
	return scoped(Funct7HinvalGVMA, gaddr, true, 0, false)
}

func HinvalGVMAVMID(vmid uint64) Issuance {
	return scoped(Funct7HinvalGVMA, 0, false, vmid, true)
}

func HinvalGVMAAll() Issuance {
	return scoped(Funct7HinvalGVMA, 0, false, 0, false)
}

// Floating-point CSR instructions. Reads encode as CSRRS with rs1=x0,
// swaps as CSRRW; both return the prior register value in rd.

func csrRead(csr uint32) Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3CSRRS, A0, X0, csr),
		Out:  A0,
		Opts: NoMem | NoStack,
	}
}

func csrSwap(csr uint32, value uint64) Issuance {
	return Issuance{
		Word: EncodeI(OpcodeSystem, Funct3CSRRW, A0, A1, csr),
		In:   []Input{{A1, value}},
		Out:  A0,
		Opts: NoMem | NoStack,
	}
}

func Frcsr() Issuance             { return csrRead(CSRFcsr) }
func Fscsr(value uint64) Issuance { return csrSwap(CSRFcsr, value) }

func Frrm() Issuance             { return csrRead(CSRFrm) }
func Fsrm(value uint64) Issuance { return csrSwap(CSRFrm, value) }

func Frflags() Issuance             { return csrRead(CSRFflags) }
func Fsflags(value uint64) Issuance { return csrSwap(CSRFflags, value) }
