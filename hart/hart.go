package hart

import (
	"fmt"

	"github.com/hartkit/rvhart/insn"
)

// Trap cause codes, matching the architectural exception numbering.
const (
	CauseIllegalInstruction        = 2
	CauseInstructionGuestPageFault = 20
	CauseLoadGuestPageFault        = 21
	CauseStoreGuestPageFault       = 23
)

// Trap records a hardware exception raised while executing an issued
// instruction. The issuance layer never observes traps; they are pending
// hart state, visible to whoever owns the hart.
type Trap struct {
	Cause uint64 `json:"cause"`
	Addr  uint64 `json:"addr"`
	Insn  uint32 `json:"insn"`
}

func (t *Trap) String() string {
	return fmt.Sprintf("trap cause=%d addr=%016x insn=%08x", t.Cause, t.Addr, t.Insn)
}

// Hart is an emulated RV64 hart reduced to the architectural state the
// privileged catalogue touches: the integer register file, the
// floating-point control and status register, the guest address space the
// hypervisor accessors dereference, and the three translation caches.
type Hart struct {
	Registers [32]uint64 `json:"registers"`

	// fcsr: fflags in bits [4:0], frm in bits [7:5], rest reserved
	Fcsr uint32 `json:"fcsr"`

	GuestMem *Memory `json:"guestMem"`

	STLB  TLB `json:"stlb"`  // supervisor cache, keyed by virtual page and ASID
	VSTLB TLB `json:"vstlb"` // VS-stage cache, keyed by guest virtual page and guest ASID
	GTLB  TLB `json:"gtlb"`  // G-stage cache, keyed by pre-shifted guest physical page and VMID

	trace []insn.Issuance
	trap  *Trap
}

func New() *Hart {
	return &Hart{
		GuestMem: NewMemory(),
	}
}

// Trace returns every issuance executed on this hart, in order.
func (h *Hart) Trace() []insn.Issuance {
	return h.trace
}

// LastIssued returns the most recent issuance.
func (h *Hart) LastIssued() insn.Issuance {
	return h.trace[len(h.trace)-1]
}

// Trap returns the pending trap, or nil.
func (h *Hart) Trap() *Trap {
	return h.trap
}

func (h *Hart) ClearTrap() {
	h.trap = nil
}

func (h *Hart) loadRegister(reg insn.Reg) uint64 {
	if reg == insn.X0 {
		return 0
	}
	return h.Registers[reg]
}

func (h *Hart) writeRegister(reg insn.Reg, v uint64) {
	if reg == insn.X0 {
		return // the zero register swallows writes
	}
	h.Registers[reg] = v
}

const (
	fflagsMask = 0x1F
	frmMask    = 0x7
	frmShift   = 5
	fcsrMask   = 0xFF
)

func (h *Hart) readCSR(num uint32, instr uint32) uint64 {
	switch num {
	case insn.CSRFflags:
		return uint64(h.Fcsr & fflagsMask)
	case insn.CSRFrm:
		return uint64((h.Fcsr >> frmShift) & frmMask)
	case insn.CSRFcsr:
		return uint64(h.Fcsr & fcsrMask)
	default:
		panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
	}
}

func (h *Hart) writeCSR(num uint32, v uint64, instr uint32) {
	switch num {
	case insn.CSRFflags:
		h.Fcsr = h.Fcsr&^uint32(fflagsMask) | uint32(v)&fflagsMask
	case insn.CSRFrm:
		h.Fcsr = h.Fcsr&^uint32(frmMask<<frmShift) | (uint32(v)&frmMask)<<frmShift
	case insn.CSRFcsr:
		h.Fcsr = uint32(v) & fcsrMask
	default:
		panic(&Trap{Cause: CauseIllegalInstruction, Insn: instr})
	}
}
