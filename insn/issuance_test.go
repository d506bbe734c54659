package insn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// fields is the decoded view of a word, for whole-struct comparisons.
type fields struct {
	Opcode uint32
	Rd     Reg
	Funct3 uint32
	Rs1    Reg
	Rs2    Reg
	Funct7 uint32
}

func decode(word uint32) fields {
	return fields{
		Opcode: ParseOpcode(word),
		Rd:     ParseRd(word),
		Funct3: ParseFunct3(word),
		Rs1:    ParseRs1(word),
		Rs2:    ParseRs2(word),
		Funct7: ParseFunct7(word),
	}
}

func TestFixedWords(t *testing.T) {
	// The exact words of the operand-less forms are part of the binary
	// compatibility contract.
	cases := []struct {
		name string
		iss  Issuance
		word uint32
	}{
		{"pause", Pause(), 0x0100000F},
		{"nop", Nop(), 0x00000013},
		{"wfi", Wfi(), 0x10500073},
		{"fence.i", FenceI(), 0x0000100F},
		{"sfence.vma all", SfenceVMAAll(), 0x12000073},
		{"sinval.vma all", SinvalVMAAll(), 0x16000073},
		{"sfence.w.inval", SfenceWInval(), 0x18000073},
		{"sfence.inval.ir", SfenceInvalIR(), 0x18100073},
		{"hfence.vvma all", HfenceVVMAAll(), 0x22000073},
		{"hinval.vvma all", HinvalVVMAAll(), 0x26000073},
		{"hfence.gvma all", HfenceGVMAAll(), 0x62000073},
		{"hinval.gvma all", HinvalGVMAAll(), 0x66000073},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.word, tc.iss.Word)
		})
	}
}

func TestScopedFamilies(t *testing.T) {
	// Each four-way family must encode x0, not an operand register, in
	// each elided field.
	families := []struct {
		name   string
		funct7 uint32
		both   Issuance
		addr   Issuance
		id     Issuance
		all    Issuance
	}{
		{"sfence.vma", Funct7SfenceVMA, SfenceVMA(1, 2), SfenceVMAVaddr(1), SfenceVMAASID(2), SfenceVMAAll()},
		{"sinval.vma", Funct7SinvalVMA, SinvalVMA(1, 2), SinvalVMAVaddr(1), SinvalVMAASID(2), SinvalVMAAll()},
		{"hfence.vvma", Funct7HfenceVVMA, HfenceVVMA(1, 2), HfenceVVMAVaddr(1), HfenceVVMAASID(2), HfenceVVMAAll()},
		{"hinval.vvma", Funct7HinvalVVMA, HinvalVVMA(1, 2), HinvalVVMAVaddr(1), HinvalVVMAASID(2), HinvalVVMAAll()},
		{"hfence.gvma", Funct7HfenceGVMA, HfenceGVMA(1, 2), HfenceGVMAGaddr(1), HfenceGVMAVMID(2), HfenceGVMAAll()},
		{"hinval.gvma", Funct7HinvalGVMA, HinvalGVMA(1, 2), HinvalGVMAGaddr(1), HinvalGVMAVMID(2), HinvalGVMAAll()},
	}
	for _, f := range families {
		t.Run(f.name, func(t *testing.T) {
			base := fields{Opcode: OpcodeSystem, Funct3: Funct3Priv, Funct7: f.funct7}

			both := base
			both.Rs1, both.Rs2 = A0, A1
			require.Empty(t, cmp.Diff(both, decode(f.both.Word)))
			require.Equal(t, []Input{{A0, 1}, {A1, 2}}, f.both.In)

			addrOnly := base
			addrOnly.Rs1 = A0
			require.Empty(t, cmp.Diff(addrOnly, decode(f.addr.Word)))
			require.Equal(t, []Input{{A0, 1}}, f.addr.In)

			idOnly := base
			idOnly.Rs2 = A1
			require.Empty(t, cmp.Diff(idOnly, decode(f.id.Word)))
			require.Equal(t, []Input{{A1, 2}}, f.id.In)

			require.Empty(t, cmp.Diff(base, decode(f.all.Word)))
			require.Empty(t, f.all.In)
		})
	}
}

func TestGuestAccessEncodings(t *testing.T) {
	t.Run("loads", func(t *testing.T) {
		loads := []struct {
			name string
			iss  Issuance
			imm  uint32
		}{
			{"hlv.b", HlvB(0x1234), ImmHlvB},
			{"hlv.bu", HlvBu(0x1234), ImmHlvBu},
			{"hlv.h", HlvH(0x1234), ImmHlvH},
			{"hlv.hu", HlvHu(0x1234), ImmHlvHu},
			{"hlvx.hu", HlvxHu(0x1234), ImmHlvxHu},
			{"hlv.w", HlvW(0x1234), ImmHlvW},
			{"hlvx.wu", HlvxWu(0x1234), ImmHlvxWu},
		}
		for _, tc := range loads {
			t.Run(tc.name, func(t *testing.T) {
				require.Equal(t, uint32(OpcodeSystem), ParseOpcode(tc.iss.Word))
				require.Equal(t, uint32(Funct3HLX), ParseFunct3(tc.iss.Word))
				require.Equal(t, tc.imm, ParseImmTypeI(tc.iss.Word))
				require.Equal(t, A0, ParseRd(tc.iss.Word))
				require.Equal(t, A1, ParseRs1(tc.iss.Word))
				require.Equal(t, []Input{{A1, 0x1234}}, tc.iss.In)
				require.Equal(t, A0, tc.iss.Out)
				require.True(t, tc.iss.Opts.Has(ReadOnly))
			})
		}
	})
	t.Run("stores", func(t *testing.T) {
		stores := []struct {
			name   string
			iss    Issuance
			funct7 uint32
		}{
			{"hsv.b", HsvB(0x1234, 0xAB), Funct7HsvB},
			{"hsv.h", HsvH(0x1234, 0xAB), Funct7HsvH},
			{"hsv.w", HsvW(0x1234, 0xAB), Funct7HsvW},
		}
		for _, tc := range stores {
			t.Run(tc.name, func(t *testing.T) {
				want := fields{
					Opcode: OpcodeSystem,
					Funct3: Funct3HLX,
					Funct7: tc.funct7,
					Rd:     X0,
					Rs1:    A0,
					Rs2:    A1,
				}
				require.Empty(t, cmp.Diff(want, decode(tc.iss.Word)))
				require.Equal(t, []Input{{A0, 0x1234}, {A1, 0xAB}}, tc.iss.In)
				require.Equal(t, X0, tc.iss.Out)
				require.False(t, tc.iss.Opts.Has(ReadOnly))
			})
		}
	})
}

func TestCSREncodings(t *testing.T) {
	reads := []struct {
		name string
		iss  Issuance
		csr  uint32
	}{
		{"frcsr", Frcsr(), CSRFcsr},
		{"frrm", Frrm(), CSRFrm},
		{"frflags", Frflags(), CSRFflags},
	}
	for _, tc := range reads {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, uint32(Funct3CSRRS), ParseFunct3(tc.iss.Word))
			require.Equal(t, X0, ParseRs1(tc.iss.Word), "reads must encode rs1=x0 to not write the CSR")
			require.Equal(t, tc.csr, ParseImmTypeI(tc.iss.Word))
			require.Equal(t, A0, tc.iss.Out)
			require.True(t, tc.iss.Opts.Has(NoMem))
		})
	}
	swaps := []struct {
		name string
		iss  Issuance
		csr  uint32
	}{
		{"fscsr", Fscsr(5), CSRFcsr},
		{"fsrm", Fsrm(5), CSRFrm},
		{"fsflags", Fsflags(5), CSRFflags},
	}
	for _, tc := range swaps {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, uint32(Funct3CSRRW), ParseFunct3(tc.iss.Word))
			require.Equal(t, A1, ParseRs1(tc.iss.Word))
			require.Equal(t, tc.csr, ParseImmTypeI(tc.iss.Word))
			require.Equal(t, []Input{{A1, 5}}, tc.iss.In)
			require.Equal(t, A0, tc.iss.Out)
		})
	}
}

func TestHintOptions(t *testing.T) {
	// pure hints declare no memory operand at all
	for _, iss := range []Issuance{Pause(), Nop(), Wfi()} {
		require.True(t, iss.Opts.Has(NoMem))
		require.Empty(t, iss.In)
		require.Equal(t, X0, iss.Out)
	}
	// fence.i orders fetches against stores, so it may not declare NoMem
	require.False(t, FenceI().Opts.Has(NoMem))
}
