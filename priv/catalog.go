package priv

import (
	"github.com/hartkit/rvhart/insn"
)

type Group string

const (
	GroupHint          Group = "hint"
	GroupSupervisorTLB Group = "supervisor-tlb"
	GroupGuestAccess   Group = "guest-access"
	GroupHypervisorTLB Group = "hypervisor-tlb"
	GroupFpCSR         Group = "fp-csr"
)

// Entry describes one catalogue primitive for tooling and encoding tests:
// the Go name, the assembly mnemonic, the group it belongs to, whether it
// is in the safe set, and the issuance it produces with all operands zero.
type Entry struct {
	Name     string
	Mnemonic string
	Group    Group
	Safe     bool
	Template insn.Issuance
}

// Catalog enumerates the complete catalogue. The template words are the
// binary compatibility contract: for operand-taking primitives the
// operand registers are bound but hold zero, so the word's register
// fields are exactly those every call emits.
func Catalog() []Entry {
	return []Entry{
		{"Pause", "pause", GroupHint, true, insn.Pause()},
		{"Nop", "nop", GroupHint, true, insn.Nop()},
		{"Wfi", "wfi", GroupHint, false, insn.Wfi()},
		{"FenceI", "fence.i", GroupHint, false, insn.FenceI()},

		{"SfenceVma", "sfence.vma a0, a1", GroupSupervisorTLB, false, insn.SfenceVMA(0, 0)},
		{"SfenceVmaVaddr", "sfence.vma a0, zero", GroupSupervisorTLB, false, insn.SfenceVMAVaddr(0)},
		{"SfenceVmaAsid", "sfence.vma zero, a1", GroupSupervisorTLB, false, insn.SfenceVMAASID(0)},
		{"SfenceVmaAll", "sfence.vma", GroupSupervisorTLB, false, insn.SfenceVMAAll()},
		{"SinvalVma", "sinval.vma a0, a1", GroupSupervisorTLB, false, insn.SinvalVMA(0, 0)},
		{"SinvalVmaVaddr", "sinval.vma a0, zero", GroupSupervisorTLB, false, insn.SinvalVMAVaddr(0)},
		{"SinvalVmaAsid", "sinval.vma zero, a1", GroupSupervisorTLB, false, insn.SinvalVMAASID(0)},
		{"SinvalVmaAll", "sinval.vma zero, zero", GroupSupervisorTLB, false, insn.SinvalVMAAll()},
		{"SfenceWInval", "sfence.w.inval", GroupSupervisorTLB, false, insn.SfenceWInval()},
		{"SfenceInvalIR", "sfence.inval.ir", GroupSupervisorTLB, false, insn.SfenceInvalIR()},

		{"HlvB", "hlv.b a0, (a1)", GroupGuestAccess, false, insn.HlvB(0)},
		{"HlvBu", "hlv.bu a0, (a1)", GroupGuestAccess, false, insn.HlvBu(0)},
		{"HlvH", "hlv.h a0, (a1)", GroupGuestAccess, false, insn.HlvH(0)},
		{"HlvHu", "hlv.hu a0, (a1)", GroupGuestAccess, false, insn.HlvHu(0)},
		{"HlvxHu", "hlvx.hu a0, (a1)", GroupGuestAccess, false, insn.HlvxHu(0)},
		{"HlvW", "hlv.w a0, (a1)", GroupGuestAccess, false, insn.HlvW(0)},
		{"HlvxWu", "hlvx.wu a0, (a1)", GroupGuestAccess, false, insn.HlvxWu(0)},
		{"HsvB", "hsv.b a1, (a0)", GroupGuestAccess, false, insn.HsvB(0, 0)},
		{"HsvH", "hsv.h a1, (a0)", GroupGuestAccess, false, insn.HsvH(0, 0)},
		{"HsvW", "hsv.w a1, (a0)", GroupGuestAccess, false, insn.HsvW(0, 0)},

		{"HfenceVvma", "hfence.vvma a0, a1", GroupHypervisorTLB, false, insn.HfenceVVMA(0, 0)},
		{"HfenceVvmaVaddr", "hfence.vvma a0, zero", GroupHypervisorTLB, false, insn.HfenceVVMAVaddr(0)},
		{"HfenceVvmaAsid", "hfence.vvma zero, a1", GroupHypervisorTLB, false, insn.HfenceVVMAASID(0)},
		{"HfenceVvmaAll", "hfence.vvma", GroupHypervisorTLB, false, insn.HfenceVVMAAll()},
		{"HinvalVvma", "hinval.vvma a0, a1", GroupHypervisorTLB, false, insn.HinvalVVMA(0, 0)},
		{"HinvalVvmaVaddr", "hinval.vvma a0, zero", GroupHypervisorTLB, false, insn.HinvalVVMAVaddr(0)},
		{"HinvalVvmaAsid", "hinval.vvma zero, a1", GroupHypervisorTLB, false, insn.HinvalVVMAASID(0)},
		{"HinvalVvmaAll", "hinval.vvma", GroupHypervisorTLB, false, insn.HinvalVVMAAll()},
		{"HfenceGvma", "hfence.gvma a0, a1", GroupHypervisorTLB, false, insn.HfenceGVMA(0, 0)},
		{"HfenceGvmaGaddr", "hfence.gvma a0, zero", GroupHypervisorTLB, false, insn.HfenceGVMAGaddr(0)},
		{"HfenceGvmaVmid", "hfence.gvma zero, a1", GroupHypervisorTLB, false, insn.HfenceGVMAVMID(0)},
		{"HfenceGvmaAll", "hfence.gvma", GroupHypervisorTLB, false, insn.HfenceGVMAAll()},
		{"HinvalGvma", "hinval.gvma a0, a1", GroupHypervisorTLB, false, insn.HinvalGVMA(0, 0)},
		{"HinvalGvmaGaddr", "hinval.gvma a0, zero", GroupHypervisorTLB, false, insn.HinvalGVMAGaddr(0)},
		{"HinvalGvmaVmid", "hinval.gvma zero, a1", GroupHypervisorTLB, false, insn.HinvalGVMAVMID(0)},
		{"HinvalGvmaAll", "hinval.gvma", GroupHypervisorTLB, false, insn.HinvalGVMAAll()},

		{"Frcsr", "frcsr a0", GroupFpCSR, true, insn.Frcsr()},
		{"Fscsr", "fscsr a0, a1", GroupFpCSR, true, insn.Fscsr(0)},
		{"Frrm", "frrm a0", GroupFpCSR, true, insn.Frrm()},
		{"Fsrm", "fsrm a0, a1", GroupFpCSR, true, insn.Fsrm(0)},
		{"Frflags", "frflags a0", GroupFpCSR, true, insn.Frflags()},
		{"Fsflags", "fsflags a0, a1", GroupFpCSR, true, insn.Fsflags(0)},
	}
}
