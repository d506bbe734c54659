package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/hartkit/rvhart/hart"
	"github.com/hartkit/rvhart/insn"
	"github.com/hartkit/rvhart/priv"
)

var OutFilePerm = os.FileMode(0o644)

type tracedIssuance struct {
	Step     int              `json:"step"`
	Word     HexU32           `json:"word"`
	Name     string           `json:"name,omitempty"`
	Inputs   []hexutil.Uint64 `json:"inputs,omitempty"`
	NoMem    bool             `json:"nomem"`
	ReadOnly bool             `json:"readonly"`
}

// demo drives one pass over every functional group: a CSR swap pair, a
// guest memory round-trip, an sfence-bracketed invalidation batch and the
// hypervisor fences.
func demo(h *hart.Hart, p *priv.Priv) {
	p.Pause()
	p.Nop()

	prev := p.Fscsr(0b010<<5 | 0b00001)
	p.Fsrm(0b001)
	p.Fsflags(0)
	p.Fscsr(prev)

	u := p.Unsafe()

	h.GuestMem.SetUnaligned(0x4000, []byte{0, 0, 0, 0})
	u.HsvW(0x4000, -123)
	u.HlvW(0x4000)
	u.HlvB(0x4000)

	h.STLB.Insert(hart.TLBEntry{Page: 0x8000 >> hart.PageAddrSize, ID: 4})
	u.SfenceWInval()
	u.SinvalVma(0x8000, 4)
	u.SfenceInvalIR()
	u.SfenceVmaAll()

	h.VSTLB.Insert(hart.TLBEntry{Page: 1, ID: 7})
	u.HfenceVvma(1<<hart.PageAddrSize, 7)
	h.GTLB.Insert(hart.TLBEntry{Page: 1, ID: 3})
	u.HfenceGvmaGaddr(0x1000 >> 2)
	u.FenceI()
}

func runTrace(ctx *cli.Context) error {
	if ctx.Bool("pprof.cpu") {
		defer profile.Start(profile.NoShutdownHook, profile.ProfilePath("."), profile.CPUProfile).Stop()
	}

	l := Logger(os.Stderr, levelFromString(ctx.String("log.level")))

	names := make(map[uint32]string)
	for _, e := range priv.Catalog() {
		names[e.Template.Word] = e.Name
	}

	h := hart.New()
	p := priv.New(h)
	demo(h, p)

	if t := h.Trap(); t != nil {
		return fmt.Errorf("demo sequence trapped: %v", t)
	}

	var traced []tracedIssuance
	for i, iss := range h.Trace() {
		entry := tracedIssuance{
			Step:     i,
			Word:     HexU32(iss.Word),
			Name:     names[iss.Word],
			NoMem:    iss.Opts.Has(insn.NoMem),
			ReadOnly: iss.Opts.Has(insn.ReadOnly),
		}
		for _, in := range iss.In {
			entry.Inputs = append(entry.Inputs, hexutil.Uint64(in.Value))
		}
		traced = append(traced, entry)
		l.Info("issued",
			"step", i,
			"word", entry.Word,
			"name", entry.Name,
			"fcsr", HexU32(h.Fcsr),
		)
	}
	l.Info("demo done",
		"steps", len(traced),
		"stlb", h.STLB.Len(),
		"vstlb", h.VSTLB.Len(),
		"gtlb", h.GTLB.Len(),
		"guest-mem", h.GuestMem.Usage(),
	)

	if out := ctx.Path("output"); out != "" {
		dat, err := json.MarshalIndent(traced, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode trace: %w", err)
		}
		if err := os.WriteFile(out, dat, OutFilePerm); err != nil {
			return fmt.Errorf("failed to write trace output: %w", err)
		}
	}
	return nil
}

var TraceCommand = &cli.Command{
	Name:        "trace",
	Usage:       "Run a demonstration sequence on a fresh hart and log every issued instruction.",
	Description: "Run a scripted pass over every functional group of the catalogue on an emulated hart, logging each issued instruction word. Optionally write the trace as JSON.",
	Action:      runTrace,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:  "output",
			Usage: "Write the issuance trace to this JSON file",
		},
		&cli.BoolFlag{
			Name:  "pprof.cpu",
			Usage: "Profile CPU usage of the run",
		},
	},
}
