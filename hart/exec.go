package hart

import (
	"encoding/binary"

	"github.com/hartkit/rvhart/insn"
)

// Issue executes one issued instruction: operand values are written to the
// registers their bindings name, the instruction word is decoded and
// executed against the hart's state, and the value of the output register
// is returned. A trap aborts the instruction, leaves the trap pending on
// the hart, and yields a zero result; Issue itself never fails, matching
// the hardware's view that a trap is not a return value.
func (h *Hart) Issue(op insn.Issuance) (out uint64) {
	defer func() {
		if r := recover(); r != nil {
			t, ok := r.(*Trap)
			if !ok {
				panic(r)
			}
			h.trap = t
			out = 0
		}
	}()

	for _, in := range op.In {
		h.writeRegister(in.Reg, in.Value)
	}
	h.trace = append(h.trace, op)
	h.execute(op.Word)
	return h.loadRegister(op.Out)
}

func (h *Hart) execute(instr uint32) {
	opcode := insn.ParseOpcode(instr)
	rd := insn.ParseRd(instr)
	funct3 := insn.ParseFunct3(instr)
	rs1 := insn.ParseRs1(instr)
	rs2 := insn.ParseRs2(instr)
	funct7 := insn.ParseFunct7(instr)

	switch opcode {
	case 0x0F: // 000_1111: fence family
		switch funct3 {
		case 0: // FENCE / PAUSE: ordering and retirement-rate hints; no pipeline here
		case 1: // FENCE.I: single hart, fetches already observe prior stores
		default:
			panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
		}
	case 0x13: // 001_0011: ADDI; the catalogue only issues its NOP form
		imm := signExtend(uint64(insn.ParseImmTypeI(instr)), 11)
		h.writeRegister(rd, h.loadRegister(rs1)+imm)
	case 0x73: // 111_0011: privileged and CSR instructions
		switch funct3 {
		case 0:
			h.executePriv(instr, rs1, rs2, funct7)
		case 1, 2, 3: // CSRRW / CSRRS / CSRRC
			num := insn.ParseImmTypeI(instr)
			h.writeRegister(rd, h.updateCSR(num, h.loadRegister(rs1), funct3, rs1, instr))
		case 4:
			h.executeGuestAccess(instr, rd, rs1, rs2, funct7)
		default:
			panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
		}
	default:
		panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
	}
}

// executePriv handles the funct3=0 system instructions: the fence and
// invalidation families plus wfi. The register fields select the scope:
// a field holding x0 widens the scope to all addresses or all identifiers,
// which is not the same instruction as one whose operand register holds
// the value zero.
func (h *Hart) executePriv(instr uint32, rs1, rs2 insn.Reg, funct7 uint32) {
	hasAddr := rs1 != insn.X0
	hasID := rs2 != insn.X0
	addr := h.loadRegister(rs1)
	id := h.loadRegister(rs2)

	switch funct7 {
	case 0x09: // SFENCE.VMA: order PTE accesses and invalidate, per scope
		h.STLB.invalidate(addr>>PageAddrSize, hasAddr, id, hasID)
	case 0x0B: // SINVAL.VMA: invalidate the same entries, without ordering
		h.STLB.invalidate(addr>>PageAddrSize, hasAddr, id, hasID)
	case 0x11: // HFENCE.VVMA
		h.VSTLB.invalidate(addr>>PageAddrSize, hasAddr, id, hasID)
	case 0x13: // HINVAL.VVMA
		h.VSTLB.invalidate(addr>>PageAddrSize, hasAddr, id, hasID)
	case 0x31: // HFENCE.GVMA: address operand arrives shifted right by 2
		h.GTLB.invalidate(addr>>(PageAddrSize-2), hasAddr, id, hasID)
	case 0x33: // HINVAL.GVMA
		h.GTLB.invalidate(addr>>(PageAddrSize-2), hasAddr, id, hasID)
	default:
		switch insn.ParseImmTypeI(instr) {
		case insn.ImmWfi:
			// stall hint; implementing it as a no-op is architecturally legal,
			// and there is no interrupt source to wait on here
		case insn.ImmSfenceWInval:
			// orders prior stores before subsequent SINVAL.VMA; nothing to
			// reorder in this model
		case insn.ImmSfenceInvalIR:
			// orders prior SINVAL.VMA before implicit MMU reads; same
		default:
			panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
		}
	}
}

// executeGuestAccess handles the funct3=4 system instructions: the HLV/HLVX
// loads (I-type, selected by the full 12-bit immediate) and the HSV stores
// (R-type, odd funct7).
func (h *Hart) executeGuestAccess(instr uint32, rd, rs1, rs2 insn.Reg, funct7 uint32) {
	switch funct7 {
	case insn.Funct7HsvB:
		h.guestStore(instr, h.loadRegister(rs1), 1, h.loadRegister(rs2))
	case insn.Funct7HsvH:
		h.guestStore(instr, h.loadRegister(rs1), 2, h.loadRegister(rs2))
	case insn.Funct7HsvW:
		h.guestStore(instr, h.loadRegister(rs1), 4, h.loadRegister(rs2))
	default:
		addr := h.loadRegister(rs1)
		var v uint64
		switch insn.ParseImmTypeI(instr) {
		case insn.ImmHlvB:
			v = h.guestLoad(instr, addr, 1, true)
		case insn.ImmHlvBu:
			v = h.guestLoad(instr, addr, 1, false)
		case insn.ImmHlvH:
			v = h.guestLoad(instr, addr, 2, true)
		case insn.ImmHlvHu:
			v = h.guestLoad(instr, addr, 2, false)
		case insn.ImmHlvxHu:
			v = h.guestFetch(instr, addr, 2)
		case insn.ImmHlvW:
			v = h.guestLoad(instr, addr, 4, true)
		case insn.ImmHlvxWu:
			v = h.guestFetch(instr, addr, 4)
		default:
			panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
		}
		h.writeRegister(rd, v)
	}
}

// guestLoad performs an explicit load under the guest's translation and
// protection. Read permission is required.
func (h *Hart) guestLoad(instr uint32, addr, size uint64, signed bool) uint64 {
	perm, mapped := h.GuestMem.Perm(addr, size)
	if !mapped || perm&PermR == 0 {
		panic(&Trap{Cause: CauseLoadGuestPageFault, Addr: addr, Insn: instr})
	}
	return h.guestRead(addr, size, signed)
}

// guestFetch reads guest memory as an instruction fetch would: the range
// must be executable, but read permission is not required.
func (h *Hart) guestFetch(instr uint32, addr, size uint64) uint64 {
	perm, mapped := h.GuestMem.Perm(addr, size)
	if !mapped || perm&PermX == 0 {
		panic(&Trap{Cause: CauseInstructionGuestPageFault, Addr: addr, Insn: instr})
	}
	return h.guestRead(addr, size, false)
}

func (h *Hart) guestRead(addr, size uint64, signed bool) uint64 {
	var buf [8]byte
	h.GuestMem.GetUnaligned(addr, buf[:size])
	v := binary.LittleEndian.Uint64(buf[:])
	if signed {
		v = signExtend(v, size*8-1)
	}
	return v
}

func (h *Hart) guestStore(instr uint32, addr, size, value uint64) {
	perm, mapped := h.GuestMem.Perm(addr, size)
	if !mapped || perm&PermW == 0 {
		panic(&Trap{Cause: CauseStoreGuestPageFault, Addr: addr, Insn: instr})
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	h.GuestMem.SetUnaligned(addr, buf[:size])
}

// updateCSR applies one CSR instruction and returns the prior value.
// CSRRS/CSRRC with rs1=x0 are pure reads and skip the write, so reading a
// CSR never perturbs it.
func (h *Hart) updateCSR(num uint32, v uint64, mode uint32, rs1 insn.Reg, instr uint32) uint64 {
	out := h.readCSR(num, instr)
	switch mode {
	case 1: // CSRRW
	case 2: // CSRRS
		if rs1 == insn.X0 {
			return out
		}
		v = out | v
	case 3: // CSRRC
		if rs1 == insn.X0 {
			return out
		}
		v = out &^ v
	}
	h.writeCSR(num, v, instr)
	return out
}

func signExtend(v uint64, bit uint64) uint64 {
	if v&(1<<bit) == 0 {
		return v & ((1 << (bit + 1)) - 1)
	}
	return v | ^((1 << (bit + 1)) - 1)
}
