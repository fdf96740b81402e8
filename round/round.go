// Package round implements the generic rounder: it takes an
// over-precise unpacked value in the extended format Fmt(e+1, s+2) plus a
// rounding mode and produces a correctly-rounded value in the target
// Fmt(e, s), handling overflow, underflow, and the subnormal flush.
package round

import (
	"math/big"

	"github.com/bitfloat/fpbv/bv"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// Extended is an over-precise unpacked value: sig carries the target
// format's s bits of precision plus a guard bit (bit 1) and a sticky bit
// (bit 0) below them, for a total width of s+2. Exp is wide enough to
// represent exponents that have overflowed or underflowed the target
// format without wrapping (the unpacked exponent width of Fmt(e+1, s+2)).
type Extended struct {
	Sign core.Prop
	Exp  core.SBV
	Sig  core.UBV
}

// CustomRounderInfo lets a caller that can statically prove some branches
// impossible elide them. The result
// must equal the generic rounder's on every input for which the flags
// are actually true; RoundCustom does not check that the caller's claims
// are honest, the way a caller bug never arises from adversarial but
// well-typed SMT input.
type CustomRounderInfo struct {
	NoOverflow            bool
	NoUnderflow           bool
	Exact                 bool
	NoSignificandOverflow bool
	SubnormalExact        bool
}

func extFmt(f core.Fmt) core.Fmt { return core.NewFmt(f.E()+1, f.S()+2) }

func sconst(be core.Backend, w uint32, v int64) core.SBV {
	return be.ConstSBV(w, big.NewInt(v))
}

// Round is the generic rounder: RoundCustom with every elision flag false.
func Round(be core.Backend, f core.Fmt, rmv core.RMV, x Extended) unpacked.Unpacked {
	return RoundCustom(be, f, rmv, x, CustomRounderInfo{})
}

// RoundCustom implements the full rounding pipeline. The rounding mode is
// a backend value, so it may itself be symbolic (an IteRM over mode
// constants); every mode-dependent decision below is a 5-way RMBit case
// split rather than a Go-level branch.
func RoundCustom(be core.Backend, f core.Fmt, rmv core.RMV, x Extended, info CustomRounderInfo) unpacked.Unpacked {
	s := f.S()
	ew := extFmt(f).UnpackedExpWidth()
	exp := widenExp(be, x.Exp, ew)
	sig := x.Sig // width s+2

	minNormal := sconst(be, ew, f.MinNormalExp())
	maxNormal := sconst(be, ew, f.MaxNormalExp())
	minSubnormal := sconst(be, ew, f.MinSubnormalExp())

	// --- step 2: subnormal alignment ---
	belowNormal := be.LtS(exp, minNormal)
	kRaw := be.SubS(minNormal, exp) // only meaningful when belowNormal holds
	kClamped := bv.CollarS(be, kRaw, sconst(be, ew, 0), sconst(be, ew, int64(s+2)))
	k := fitShiftAmt(be, be.AsUBV(kClamped), s+2)

	var shiftedSticky core.Prop
	var shiftedSig core.UBV
	if info.SubnormalExact {
		shiftedSig = sig
		shiftedSticky = be.ConstProp(false)
	} else {
		shiftedSig, shiftedSticky = bv.StickyShiftRightU(be, sig, k)
	}
	sig = be.IteUBV(belowNormal, shiftedSig, sig)
	alignedExp := be.IteSBV(belowNormal, minNormal, exp)

	// k >= s+2 means every precision bit (and guard) was shifted away.
	kAtLimit := be.EqS(kClamped, sconst(be, ew, int64(s+2)))

	// --- step 3: guard and sticky ---
	guard := be.EqU(be.Extract(sig, 1, 1), be.OneUBV(1))
	stickyBit := be.Or(be.EqU(be.Extract(sig, 0, 0), be.OneUBV(1)), shiftedSticky)
	stickyBit = be.IteProp(belowNormal, stickyBit, be.EqU(be.Extract(sig, 0, 0), be.OneUBV(1)))

	truncated := be.Extract(sig, s+1, 2) // width s
	lsb := be.EqU(be.Extract(truncated, 0, 0), be.OneUBV(1))

	// --- step 4: round decision ---
	var inc core.Prop
	if info.Exact {
		inc = be.ConstProp(false)
	} else {
		rne := be.And(be.RMBit(rmv, core.RNE), be.And(guard, be.Or(lsb, stickyBit)))
		rna := be.And(be.RMBit(rmv, core.RNA), guard)
		rtp := be.And(be.RMBit(rmv, core.RTP), be.And(be.Not(x.Sign), be.Or(guard, stickyBit)))
		rtn := be.And(be.RMBit(rmv, core.RTN), be.And(x.Sign, be.Or(guard, stickyBit)))
		inc = be.Or(be.Or(rne, rna), be.Or(rtp, rtn))
	}

	// --- step 5: increment, possible significand overflow ---
	incremented := bv.ConditionalIncrement(be, inc, truncated)
	var sigOverflow core.Prop
	if info.NoSignificandOverflow {
		sigOverflow = be.ConstProp(false)
	} else {
		// truncated's MSB was 1 (normalised); a carry out of the top bit
		// during increment clears it, signalling significand overflow.
		sigOverflow = be.And(be.EqU(be.Extract(truncated, s-1, s-1), be.OneUBV(1)),
			be.EqU(be.Extract(incremented, s-1, s-1), be.ZeroUBV(1)))
	}
	shiftedDown := be.ShrU(incremented, be.OneUBV(s))
	finalSig := be.IteUBV(sigOverflow, shiftedDown, incremented)
	finalSigWithHidden := be.IteUBV(sigOverflow,
		be.OrU(finalSig, be.ShlU(be.OneUBV(s), be.ConstUBV(s, big.NewInt(int64(s-1))))),
		finalSig)
	roundedExp := be.IteSBV(sigOverflow, be.AddS(alignedExp, sconst(be, ew, 1)), alignedExp)

	// --- step 6: overflow / underflow detection ---
	var overflows core.Prop
	if info.NoOverflow {
		overflows = be.ConstProp(false)
	} else {
		overflows = be.LtS(maxNormal, roundedExp)
	}
	var underflows core.Prop
	if info.NoUnderflow {
		underflows = be.ConstProp(false)
	} else {
		underflows = be.Or(kAtLimit, be.LtS(roundedExp, minSubnormal))
	}

	roundUpMagnitudeAtOverflow := overflowRoundsToInf(be, rmv, x.Sign)
	infResult := unpacked.MakeInf(be, f, x.Sign)
	maxNormalResult := maxNormalValue(be, f, x.Sign)
	overflowResult := unpacked.Ite(be, roundUpMagnitudeAtOverflow, infResult, maxNormalResult)

	roundUpMagnitudeAtUnderflow := underflowRoundsToMinSubnormal(be, rmv, x.Sign)
	zeroResult := unpacked.MakeZero(be, f, x.Sign)
	minSubnormalResult := minSubnormalValue(be, f, x.Sign)
	underflowResult := unpacked.Ite(be, roundUpMagnitudeAtUnderflow, minSubnormalResult, zeroResult)

	// --- normal/subnormal in-range result ---
	// A subnormal result leaves the alignment step with the significand's
	// MSB clear; normalising back up restores the MSB-set representation
	// (lowering the exponent below minNormal by the renormalisation
	// distance, which also re-establishes the trailing-zero abbreviation).
	// Normal results already have the MSB set and pass through unchanged.
	narrowedExp := narrowExp(be, f, roundedExp)
	normExp, normSig := unpacked.NormaliseUp(be, narrowedExp, finalSigWithHidden)
	inRange := unpacked.Unpacked{
		F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false), Zero: be.ConstProp(false),
		Sign: x.Sign, Exp: normExp, Sig: normSig,
	}
	// Every discarded bit of an all-zero significand was zero too, so the
	// rounded value is an exact signed zero.
	sigZero := be.EqU(finalSigWithHidden, be.ZeroUBV(s))
	inRange = unpacked.Ite(be, sigZero, unpacked.MakeZero(be, f, x.Sign), inRange)

	result := unpacked.Ite(be, underflows, underflowResult, inRange)
	result = unpacked.Ite(be, overflows, overflowResult, result)
	return result
}

func widenExp(be core.Backend, x core.SBV, w uint32) core.SBV {
	if x.W == w {
		return x
	}
	return be.SignExtend(x, w)
}

// fitShiftAmt brings an already-collared shift amount to the width of the
// vector being shifted; the collar guarantees the dropped high bits are
// zero when narrowing.
func fitShiftAmt(be core.Backend, x core.UBV, w uint32) core.UBV {
	if x.W == w {
		return x
	}
	if x.W > w {
		return be.Extract(x, w-1, 0)
	}
	return be.ZeroExtend(x, w)
}

func narrowExp(be core.Backend, f core.Fmt, x core.SBV) core.SBV {
	tw := f.UnpackedExpWidth()
	if x.W == tw {
		return x
	}
	u := be.AsUBV(x)
	return be.AsSBV(be.Extract(u, tw-1, 0))
}

// overflowRoundsToInf reports whether, on overflow, the rounding mode
// produces ±Inf rather than clamping to the largest finite magnitude.
func overflowRoundsToInf(be core.Backend, rmv core.RMV, sign core.Prop) core.Prop {
	rne := be.RMBit(rmv, core.RNE)
	rna := be.RMBit(rmv, core.RNA)
	rtpInf := be.And(be.RMBit(rmv, core.RTP), be.Not(sign))
	rtnInf := be.And(be.RMBit(rmv, core.RTN), sign)
	return be.Or(be.Or(rne, rna), be.Or(rtpInf, rtnInf))
}

// underflowRoundsToMinSubnormal mirrors overflowRoundsToInf for the
// underflow-to-zero-or-minSubnormal decision. Only RTP (positive) and RTN
// (negative) round up to min-subnormal; RNE/RNA never do, because
// underflow is flagged only once every bit, guard included, has been
// shifted out, so the discarded magnitude is below half a min-subnormal
// step.
func underflowRoundsToMinSubnormal(be core.Backend, rmv core.RMV, sign core.Prop) core.Prop {
	rtpUp := be.And(be.RMBit(rmv, core.RTP), be.Not(sign))
	rtnUp := be.And(be.RMBit(rmv, core.RTN), sign)
	return be.Or(rtpUp, rtnUp)
}

func maxNormalValue(be core.Backend, f core.Fmt, sign core.Prop) unpacked.Unpacked {
	ew := f.UnpackedExpWidth()
	exp := sconst(be, ew, f.MaxNormalExp())
	sig := be.AllOnesUBV(f.S())
	return unpacked.Unpacked{F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false),
		Zero: be.ConstProp(false), Sign: sign, Exp: exp, Sig: sig}
}

func minSubnormalValue(be core.Backend, f core.Fmt, sign core.Prop) unpacked.Unpacked {
	ew := f.UnpackedExpWidth()
	exp := sconst(be, ew, f.MinSubnormalExp())
	// the smallest subnormal normalises to MSB-set, every other bit zero
	// (the abbreviation invariant's k = s-1 zero low bits).
	sig := be.ConstUBV(f.S(), big.NewInt(int64(f.DefaultSig())))
	return unpacked.Unpacked{F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false),
		Zero: be.ConstProp(false), Sign: sign, Exp: exp, Sig: sig}
}
