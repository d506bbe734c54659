package priv

import (
	"github.com/hartkit/rvhart/insn"
)

// Unsafe is the privileged half of the catalogue. See the package
// documentation for what a caller takes on by using it.
type Unsafe struct {
	env Issuer
}

// Wfi hints that the hart can be stalled until an interrupt might need
// servicing. A legal implementation may treat it as a nop, so callers
// must not rely on it blocking; relying on it with interrupts masked can
// stall the hart indefinitely.
func (u *Unsafe) Wfi() {
	u.env.Issue(insn.Wfi())
}

// FenceI ensures a subsequent instruction fetch on this hart observes the
// hart's own prior data stores. It does not order other harts' fetches;
// cross-hart instruction-cache coherence needs an external protocol.
func (u *Unsafe) FenceI() {
	u.env.Issue(insn.FenceI())
}

// SfenceVma orders reads and writes to leaf page table entries for vaddr
// in the address space asid, and invalidates matching translation-cache
// entries, except entries for global mappings.
func (u *Unsafe) SfenceVma(vaddr, asid uint64) {
	u.env.Issue(insn.SfenceVMA(vaddr, asid))
}

// SfenceVmaVaddr is SfenceVma for vaddr across all address spaces,
// including global mappings.
func (u *Unsafe) SfenceVmaVaddr(vaddr uint64) {
	u.env.Issue(insn.SfenceVMAVaddr(vaddr))
}

// SfenceVmaAsid is SfenceVma for every address in the address space asid.
// Note that issuing SfenceVma with asid 0 is the narrower, ASID-0-only
// instruction; widening the scope requires this form.
func (u *Unsafe) SfenceVmaAsid(asid uint64) {
	u.env.Issue(insn.SfenceVMAASID(asid))
}

// SfenceVmaAll is SfenceVma for all addresses and all address spaces. Its
// effect is a superset of every narrower variant.
func (u *Unsafe) SfenceVmaAll() {
	u.env.Issue(insn.SfenceVMAAll())
}

// SinvalVma invalidates the translation-cache entries an SfenceVma with
// the same operands would, but is not a fence by itself: bracket batches
// with SfenceWInval and SfenceInvalIR.
func (u *Unsafe) SinvalVma(vaddr, asid uint64) {
	u.env.Issue(insn.SinvalVMA(vaddr, asid))
}

func (u *Unsafe) SinvalVmaVaddr(vaddr uint64) {
	u.env.Issue(insn.SinvalVMAVaddr(vaddr))
}

func (u *Unsafe) SinvalVmaAsid(asid uint64) {
	u.env.Issue(insn.SinvalVMAASID(asid))
}

func (u *Unsafe) SinvalVmaAll() {
	u.env.Issue(insn.SinvalVMAAll())
}

// SfenceWInval guarantees stores already visible to this hart are ordered
// before subsequent SinvalVma instructions it executes.
func (u *Unsafe) SfenceWInval() {
	u.env.Issue(insn.SfenceWInval())
}

// SfenceInvalIR guarantees this hart's previous SinvalVma instructions are
// ordered before its subsequent implicit references to the
// memory-management data structures.
func (u *Unsafe) SfenceInvalIR() {
	u.env.Issue(insn.SfenceInvalIR())
}

// HlvB loads a sign-extended byte from guest memory as though executing
// with V=1: the guest's address translation, protection and endianness
// apply. The address is dereferenced under a translation regime the
// caller does not control; an unmapped or forbidden guest address traps.
func (u *Unsafe) HlvB(addr uint64) int8 {
	return int8(u.env.Issue(insn.HlvB(addr)))
}

// HlvBu is HlvB without sign extension.
func (u *Unsafe) HlvBu(addr uint64) uint8 {
	return uint8(u.env.Issue(insn.HlvBu(addr)))
}

// HlvH loads a sign-extended halfword from guest memory.
func (u *Unsafe) HlvH(addr uint64) int16 {
	return int16(u.env.Issue(insn.HlvH(addr)))
}

// HlvHu loads a zero-extended halfword from guest memory.
func (u *Unsafe) HlvHu(addr uint64) uint16 {
	return uint16(u.env.Issue(insn.HlvHu(addr)))
}

// HlvxHu reads a halfword from guest memory as an instruction fetch
// would: the memory must be executable in both translation stages, but
// read permission is not required.
func (u *Unsafe) HlvxHu(addr uint64) uint16 {
	return uint16(u.env.Issue(insn.HlvxHu(addr)))
}

// HlvW loads a sign-extended word from guest memory.
func (u *Unsafe) HlvW(addr uint64) int32 {
	return int32(u.env.Issue(insn.HlvW(addr)))
}

// HlvxWu reads a word from guest memory with instruction-fetch
// permission semantics, zero-extended.
func (u *Unsafe) HlvxWu(addr uint64) uint32 {
	return uint32(u.env.Issue(insn.HlvxWu(addr)))
}

// HsvB stores a byte to guest memory as though executing with V=1.
func (u *Unsafe) HsvB(addr uint64, value int8) {
	u.env.Issue(insn.HsvB(addr, uint64(uint8(value))))
}

// HsvH stores a halfword to guest memory.
func (u *Unsafe) HsvH(addr uint64, value int16) {
	u.env.Issue(insn.HsvH(addr, uint64(uint16(value))))
}

// HsvW stores a word to guest memory.
func (u *Unsafe) HsvW(addr uint64, value int32) {
	u.env.Issue(insn.HsvW(addr, uint64(uint32(value))))
}

// HfenceVvma guarantees stores already visible to this hart are ordered
// before subsequent implicit VS-stage translation reads for the guest
// virtual address vaddr in guest address space asid, and invalidates
// matching entries.
func (u *Unsafe) HfenceVvma(vaddr, asid uint64) {
	u.env.Issue(insn.HfenceVVMA(vaddr, asid))
}

func (u *Unsafe) HfenceVvmaVaddr(vaddr uint64) {
	u.env.Issue(insn.HfenceVVMAVaddr(vaddr))
}

func (u *Unsafe) HfenceVvmaAsid(asid uint64) {
	u.env.Issue(insn.HfenceVVMAASID(asid))
}

func (u *Unsafe) HfenceVvmaAll() {
	u.env.Issue(insn.HfenceVVMAAll())
}

// HinvalVvma invalidates the entries an HfenceVvma with the same operands
// would, without being a fence; the SfenceWInval / SfenceInvalIR pairing
// discipline applies.
func (u *Unsafe) HinvalVvma(vaddr, asid uint64) {
	u.env.Issue(insn.HinvalVVMA(vaddr, asid))
}

func (u *Unsafe) HinvalVvmaVaddr(vaddr uint64) {
	u.env.Issue(insn.HinvalVVMAVaddr(vaddr))
}

func (u *Unsafe) HinvalVvmaAsid(asid uint64) {
	u.env.Issue(insn.HinvalVVMAASID(asid))
}

func (u *Unsafe) HinvalVvmaAll() {
	u.env.Issue(insn.HinvalVVMAAll())
}

// HfenceGvma guarantees stores already visible to this hart are ordered
// before subsequent implicit G-stage translation reads for the guest
// physical address gaddr in virtual machine vmid, and invalidates
// matching entries. gaddr must be the physical address shifted right by
// 2 bits; this layer never shifts it.
func (u *Unsafe) HfenceGvma(gaddr, vmid uint64) {
	u.env.Issue(insn.HfenceGVMA(gaddr, vmid))
}

// HfenceGvmaGaddr is HfenceGvma for gaddr (pre-shifted) across all
// virtual machines.
func (u *Unsafe) HfenceGvmaGaddr(gaddr uint64) {
	u.env.Issue(insn.HfenceGVMAGaddr(gaddr))
}

func (u *Unsafe) HfenceGvmaVmid(vmid uint64) {
	u.env.Issue(insn.HfenceGVMAVMID(vmid))
}

func (u *Unsafe) HfenceGvmaAll() {
	u.env.Issue(insn.HfenceGVMAAll())
}

// HinvalGvma invalidates the entries an HfenceGvma with the same operands
// would, without being a fence. gaddr is pre-shifted right by 2 bits.
func (u *Unsafe) HinvalGvma(gaddr, vmid uint64) {
	u.env.Issue(insn.HinvalGVMA(gaddr, vmid))
}

func (u *Unsafe) HinvalGvmaGaddr(gaddr uint64) {
	u.env.Issue(insn.HinvalGVMAGaddr(gaddr))
}

func (u *Unsafe) HinvalGvmaVmid(vmid uint64) {
	u.env.Issue(insn.HinvalGVMAVMID(vmid))
}

func (u *Unsafe) HinvalGvmaAll() {
	u.env.Issue(insn.HinvalGVMAAll())
}
