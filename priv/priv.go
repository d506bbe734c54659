package priv

import (
	"github.com/hartkit/rvhart/insn"
)

// Issuer is the instruction-issuance primitive the execution environment
// supplies: it emits one literal instruction word with its operand
// bindings and declared side-effect exclusions, and returns the value of
// the output register.
type Issuer interface {
	Issue(insn.Issuance) uint64
}

// Priv exposes the safe half of the catalogue: hints and hart-local
// floating-point CSR accesses, callable without restriction.
type Priv struct {
	env Issuer
}

func New(env Issuer) *Priv {
	return &Priv{env: env}
}

// Unsafe returns the privileged half of the catalogue. Calling it is the
// explicit acknowledgment that the caller has verified the preconditions
// of whatever it is about to issue.
func (p *Priv) Unsafe() *Unsafe {
	return &Unsafe{env: p.env}
}

// Pause hints that the hart's rate of instruction retirement should be
// temporarily reduced or paused. The duration of the effect is bounded
// and may be zero.
func (p *Priv) Pause() {
	p.env.Issue(insn.Pause())
}

// Nop changes no architecturally visible state beyond advancing the pc.
func (p *Priv) Nop() {
	p.env.Issue(insn.Nop())
}

// Frcsr reads the floating-point control and status register fcsr:
// fflags in bits [4:0], frm in bits [7:5], the rest reserved.
func (p *Priv) Frcsr() uint32 {
	return uint32(p.env.Issue(insn.Frcsr()))
}

// Fscsr swaps fcsr, returning the value it held before the write.
func (p *Priv) Fscsr(value uint32) uint32 {
	return uint32(p.env.Issue(insn.Fscsr(uint64(value))))
}

// Frrm reads the 3-bit floating-point rounding mode.
func (p *Priv) Frrm() uint32 {
	return uint32(p.env.Issue(insn.Frrm()))
}

// Fsrm installs the three least-significant bits of value as the rounding
// mode and returns the prior mode. The accrued exception flags are
// unchanged.
func (p *Priv) Fsrm(value uint32) uint32 {
	return uint32(p.env.Issue(insn.Fsrm(uint64(value))))
}

// Frflags reads the 5-bit accrued floating-point exception flags.
func (p *Priv) Frflags() uint32 {
	return uint32(p.env.Issue(insn.Frflags()))
}

// Fsflags installs the five least-significant bits of value as the accrued
// exception flags and returns the prior flags. The rounding mode is
// unchanged.
func (p *Priv) Fsflags(value uint32) uint32 {
	return uint32(p.env.Issue(insn.Fsflags(uint64(value))))
}
