package hart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hartkit/rvhart/insn"
)

func TestCSRAccess(t *testing.T) {
	t.Run("fcsr swap masks to defined bits", func(t *testing.T) {
		h := New()
		prev := h.Issue(insn.Fscsr(0xFFFF_FFFF))
		require.Equal(t, uint64(0), prev)
		require.Equal(t, uint64(0xFF), h.Issue(insn.Frcsr()), "reserved bits read as zero")
	})

	t.Run("frm write preserves fflags", func(t *testing.T) {
		h := New()
		h.Issue(insn.Fsflags(0x15))
		prev := h.Issue(insn.Fsrm(0b011))
		require.Equal(t, uint64(0), prev)
		require.Equal(t, uint64(0b011), h.Issue(insn.Frrm()))
		require.Equal(t, uint64(0x15), h.Issue(insn.Frflags()), "fflags unchanged by frm write")
		require.Equal(t, uint64(0b011<<5|0x15), h.Issue(insn.Frcsr()))
	})

	t.Run("fflags write preserves frm", func(t *testing.T) {
		h := New()
		h.Issue(insn.Fsrm(0b100))
		prev := h.Issue(insn.Fsflags(0x1F))
		require.Equal(t, uint64(0), prev)
		require.Equal(t, uint64(0b100), h.Issue(insn.Frrm()), "frm unchanged by fflags write")
		require.Equal(t, uint64(0x1F), h.Issue(insn.Frflags()))
	})

	t.Run("reads do not write", func(t *testing.T) {
		h := New()
		h.Issue(insn.Fscsr(0xA5))
		h.Issue(insn.Frcsr())
		h.Issue(insn.Frrm())
		h.Issue(insn.Frflags())
		require.Equal(t, uint64(0xA5), h.Issue(insn.Frcsr()))
	})

	t.Run("unknown CSR traps", func(t *testing.T) {
		h := New()
		h.Issue(insn.Issuance{
			Word: insn.EncodeI(insn.OpcodeSystem, insn.Funct3CSRRS, insn.A0, insn.X0, 0x7C0),
			Out:  insn.A0,
		})
		require.NotNil(t, h.Trap())
		require.Equal(t, uint64(CauseIllegalInstruction), h.Trap().Cause)
	})
}

func TestGuestAccess(t *testing.T) {
	t.Run("load traps on unmapped page", func(t *testing.T) {
		h := New()
		v := h.Issue(insn.HlvW(0x4000))
		require.Equal(t, uint64(0), v)
		require.NotNil(t, h.Trap())
		require.Equal(t, uint64(CauseLoadGuestPageFault), h.Trap().Cause)
		require.Equal(t, uint64(0x4000), h.Trap().Addr)
	})

	t.Run("store traps on read-only page", func(t *testing.T) {
		h := New()
		h.GuestMem.SetUnaligned(0x4000, []byte{1})
		h.GuestMem.SetPerm(0x4000, PermR)
		h.Issue(insn.HsvW(0x4000, 7))
		require.NotNil(t, h.Trap())
		require.Equal(t, uint64(CauseStoreGuestPageFault), h.Trap().Cause)
	})

	t.Run("fetch needs execute, not read", func(t *testing.T) {
		h := New()
		h.GuestMem.SetUnaligned(0x4000, []byte{0x73, 0x00, 0x50, 0x10})
		h.GuestMem.SetPerm(0x4000, PermX)

		v := h.Issue(insn.HlvxWu(0x4000))
		require.Nil(t, h.Trap())
		require.Equal(t, uint64(0x10500073), v)

		h.Issue(insn.HlvW(0x4000))
		require.NotNil(t, h.Trap())
		require.Equal(t, uint64(CauseLoadGuestPageFault), h.Trap().Cause)
		h.ClearTrap()

		// and the converse: a readable, non-executable page loads but
		// does not fetch
		h.GuestMem.SetPerm(0x4000, PermR)
		h.Issue(insn.HlvxHu(0x4000))
		require.NotNil(t, h.Trap())
		require.Equal(t, uint64(CauseInstructionGuestPageFault), h.Trap().Cause)
	})

	t.Run("little endian", func(t *testing.T) {
		h := New()
		h.GuestMem.SetUnaligned(0x4000, []byte{0x78, 0x56, 0x34, 0x12})
		require.Equal(t, uint64(0x12345678), h.Issue(insn.HlvW(0x4000)))
		require.Equal(t, uint64(0x5678), h.Issue(insn.HlvHu(0x4000)))
	})

	t.Run("trap aborts before the store lands", func(t *testing.T) {
		h := New()
		h.GuestMem.SetUnaligned(0x4000, []byte{9})
		h.GuestMem.SetPerm(0x4000, PermR)
		h.Issue(insn.HsvB(0x4000, 1))
		require.NotNil(t, h.Trap())
		var b [1]byte
		h.GuestMem.GetUnaligned(0x4000, b[:])
		require.Equal(t, uint8(9), b[0])
	})
}

func TestTLBInvalidation(t *testing.T) {
	seed := func(tlb *TLB) {
		tlb.Insert(TLBEntry{Page: 1, ID: 7})
		tlb.Insert(TLBEntry{Page: 1, ID: 8})
		tlb.Insert(TLBEntry{Page: 2, ID: 7})
		tlb.Insert(TLBEntry{Page: 3, ID: 9, Global: true})
	}

	t.Run("addr and asid", func(t *testing.T) {
		h := New()
		seed(&h.STLB)
		h.Issue(insn.SfenceVMA(1<<PageAddrSize, 7))
		require.Equal(t, 3, h.STLB.Len())
		require.False(t, h.STLB.Contains(1, 7))
		require.True(t, h.STLB.Contains(1, 8))
	})

	t.Run("addr only hits global mappings too", func(t *testing.T) {
		h := New()
		seed(&h.STLB)
		h.Issue(insn.SfenceVMAVaddr(3 << PageAddrSize))
		require.Equal(t, 3, h.STLB.Len())
		require.False(t, h.STLB.Contains(3, 9))
	})

	t.Run("asid only spares global mappings", func(t *testing.T) {
		h := New()
		seed(&h.STLB)
		h.STLB.Insert(TLBEntry{Page: 4, ID: 7, Global: true})
		h.Issue(insn.SfenceVMAASID(7))
		require.Equal(t, 3, h.STLB.Len())
		require.True(t, h.STLB.Contains(4, 7), "global entry survives asid-scoped fence")
	})

	t.Run("asid zero is not all", func(t *testing.T) {
		h := New()
		h.STLB.Insert(TLBEntry{Page: 1, ID: 0})
		h.STLB.Insert(TLBEntry{Page: 1, ID: 7})
		h.Issue(insn.SfenceVMA(1<<PageAddrSize, 0))
		require.False(t, h.STLB.Contains(1, 0))
		require.True(t, h.STLB.Contains(1, 7), "asid 0 operand must not widen to all address spaces")
	})

	t.Run("all is a superset", func(t *testing.T) {
		h := New()
		seed(&h.STLB)
		h.Issue(insn.SfenceVMAAll())
		require.Equal(t, 0, h.STLB.Len())
	})

	t.Run("sinval invalidates like sfence", func(t *testing.T) {
		h := New()
		seed(&h.STLB)
		h.Issue(insn.SfenceWInval())
		h.Issue(insn.SinvalVMA(1<<PageAddrSize, 7))
		h.Issue(insn.SfenceInvalIR())
		require.False(t, h.STLB.Contains(1, 7))
		require.Equal(t, 3, h.STLB.Len())
	})

	t.Run("hypervisor caches are distinct", func(t *testing.T) {
		h := New()
		h.VSTLB.Insert(TLBEntry{Page: 1, ID: 7})
		h.GTLB.Insert(TLBEntry{Page: 1, ID: 7})
		h.STLB.Insert(TLBEntry{Page: 1, ID: 7})
		h.Issue(insn.HfenceVVMAAll())
		require.Equal(t, 0, h.VSTLB.Len())
		require.Equal(t, 1, h.GTLB.Len())
		require.Equal(t, 1, h.STLB.Len())
	})

	t.Run("gvma operand is pre-shifted", func(t *testing.T) {
		h := New()
		// entry for guest physical page 1, i.e. byte address 0x1000
		h.GTLB.Insert(TLBEntry{Page: 1, ID: 3})
		h.Issue(insn.HfenceGVMA(0x1000>>2, 3))
		require.Equal(t, 0, h.GTLB.Len(), "0x400 selects the page of physical address 0x1000")
	})
}

func TestHints(t *testing.T) {
	h := New()
	h.GuestMem.SetUnaligned(0, []byte{1, 2, 3})
	before := *h

	h.Issue(insn.Pause())
	h.Issue(insn.Nop())
	h.Issue(insn.Wfi())
	h.Issue(insn.FenceI())

	require.Nil(t, h.Trap())
	require.Len(t, h.Trace(), 4)
	require.Equal(t, before.Fcsr, h.Fcsr)
	require.Equal(t, before.Registers, h.Registers)
	require.Equal(t, 1, h.GuestMem.PageCount())
}

func TestIssueTrace(t *testing.T) {
	h := New()
	h.Issue(insn.SfenceVMAAll())
	last := h.LastIssued()
	require.Equal(t, uint32(0x12000073), last.Word)
	require.Equal(t, insn.X0, insn.ParseRs1(last.Word))
	require.Equal(t, insn.X0, insn.ParseRs2(last.Word))
}

func TestIllegalInstruction(t *testing.T) {
	h := New()
	h.Issue(insn.Issuance{Word: 0xFFFF_FFFF})
	require.NotNil(t, h.Trap())
	require.Equal(t, uint64(CauseIllegalInstruction), h.Trap().Cause)
	h.ClearTrap()
	require.Nil(t, h.Trap())
}
