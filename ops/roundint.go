package ops

import (
	"math/big"

	"github.com/bitfloat/fpbv/bv"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// RoundToIntegral rounds a to the nearest representable
// integer under rm. When exp >= s-1 every bit of the significand already
// has integer weight (the fast path: no fractional bits to touch).
// Otherwise the low s-1-exp bits are fractional; they are folded into a
// guard/sticky pair and rounded off the same way the generic rounder
// folds precision beyond a target format, with the |a| < 1 case handled
// separately since then the kept integer part is entirely zero.
func RoundToIntegral(be core.Backend, f core.Fmt, rmv core.RMV, a unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	ew := f.UnpackedExpWidth()

	threshold := sconstW(be, ew, int64(s-1))
	isIntegral := be.LeS(threshold, a.Exp)
	magnitudeLessThanOne := be.LtS(a.Exp, sconstW(be, ew, 0))

	kRaw := be.SubS(threshold, a.Exp) // meaningful only when !isIntegral
	kClamped := bv.CollarS(be, kRaw, sconstW(be, ew, 0), sconstW(be, ew, int64(s+1)))
	k := be.AsUBV(kClamped)

	sigPad := be.Concat(a.Sig, be.ZeroUBV(2))
	shifted, extraSticky := bv.StickyShiftRightU(be, sigPad, fitWidth(be, k, sigPad.W))
	truncated := be.Extract(shifted, s+1, 2)
	guard := be.EqU(be.Extract(shifted, 1, 1), be.OneUBV(1))
	sticky := be.Or(be.EqU(be.Extract(shifted, 0, 0), be.OneUBV(1)), extraSticky)

	lsb := be.EqU(be.Extract(truncated, 0, 0), be.OneUBV(1))
	rne := be.And(be.RMBit(rmv, core.RNE), be.And(guard, be.Or(lsb, sticky)))
	rna := be.And(be.RMBit(rmv, core.RNA), guard)
	rtp := be.And(be.RMBit(rmv, core.RTP), be.And(be.Not(a.Sign), be.Or(guard, sticky)))
	rtn := be.And(be.RMBit(rmv, core.RTN), be.And(a.Sign, be.Or(guard, sticky)))
	inc := be.Or(be.Or(rne, rna), be.Or(rtp, rtn))

	incremented := bv.ConditionalIncrement(be, inc, truncated)
	// incremented holds the rounded result as a plain integer in its low
	// bits (its magnitude, not a normalised significand): the same shape
	// UBVToFloat normalises from, via the same fixed exponent s-1.
	roundedExp, roundedSig := unpacked.NormaliseUp(be, sconstW(be, ew, int64(s-1)), incremented)

	becomesZero := be.And(magnitudeLessThanOne, be.Not(inc))
	roundsToOne := be.And(magnitudeLessThanOne, inc)

	zeroResult := unpacked.MakeZero(be, f, a.Sign)
	oneResult := unpacked.Unpacked{
		F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false), Zero: be.ConstProp(false),
		Sign: a.Sign, Exp: sconstW(be, ew, 0), Sig: be.ConstUBV(s, big.NewInt(int64(f.DefaultSig()))),
	}
	rounded := unpacked.Unpacked{
		F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false), Zero: be.ConstProp(false),
		Sign: a.Sign, Exp: roundedExp, Sig: roundedSig,
	}

	result := unpacked.Ite(be, roundsToOne, oneResult, rounded)
	result = unpacked.Ite(be, becomesZero, zeroResult, result)
	result = unpacked.Ite(be, isIntegral, a, result)

	needsSpecial := unpacked.IsSpecial(be, a)
	return unpacked.Ite(be, needsSpecial, a, result)
}
