package ops

import (
	"math/big"

	"github.com/bitfloat/fpbv/bv"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

func sconstW(be core.Backend, w uint32, v int64) core.SBV {
	return be.ConstSBV(w, big.NewInt(v))
}

// Add implements IEEE addition. Sub is Add with isAdd=false:
// add(rm, a, negate(b)), done directly here by threading isAdd through
// rather than literally negating b, preserving the signed-zero
// semantics of a true subtraction.
func Add(be core.Backend, f core.Fmt, rmv core.RMV, a, b unpacked.Unpacked) unpacked.Unpacked {
	return addSub(be, f, rmv, true, a, b)
}

// Sub implements IEEE subtraction: add(rm, a, negate(b)).
func Sub(be core.Backend, f core.Fmt, rmv core.RMV, a, b unpacked.Unpacked) unpacked.Unpacked {
	return addSub(be, f, rmv, false, a, b)
}

func addSub(be core.Backend, f core.Fmt, rmv core.RMV, isAdd bool, a, b unpacked.Unpacked) unpacked.Unpacked {
	aw := round.ExtExpWidth(f)
	s := f.S()

	ea := signExtendTo(be, a.Exp, aw)
	eb := signExtendTo(be, b.Exp, aw)

	effectiveAdd := be.XorP(be.XorP(a.Sign, b.Sign), be.ConstProp(isAdd))

	// lexicographic (exponent, significand) compare: a >= b in magnitude order
	aGEb := be.Or(be.LtS(eb, ea), be.And(be.EqS(ea, eb), be.LeU(b.Sig, a.Sig)))

	// b enters a subtraction negated, so its sign flips when it is the
	// larger operand.
	bSign := be.XorP(b.Sign, be.ConstProp(!isAdd))
	largeSign := be.IteProp(aGEb, a.Sign, bSign)
	largeExp := be.IteSBV(aGEb, ea, eb)
	smallExp := be.IteSBV(aGEb, eb, ea)
	largeSig := be.IteUBV(aGEb, a.Sig, b.Sig)
	smallSig := be.IteUBV(aGEb, b.Sig, a.Sig)

	diff := be.SubS(largeExp, smallExp)

	padWidth := s + 3
	largeSigPad := be.Concat(be.ZeroExtend(largeSig, s+1), be.ZeroUBV(2))
	smallSigPad := be.Concat(be.ZeroExtend(smallSig, s+1), be.ZeroUBV(2))
	smallSigPadNeg := bv.ConditionalNegateU(be, be.Not(effectiveAdd), smallSigPad)

	diffClamped := bv.CollarS(be, diff, sconstW(be, aw, 0), sconstW(be, aw, int64(padWidth)))
	diffU := fitWidth(be, be.AsUBV(diffClamped), padWidth)
	// The smaller operand was negated before the shift so that the
	// arithmetic shift's sign-extension keeps the two's-complement value
	// consistent; the sticky bit is carried separately and only OR'd in
	// after normalisation, or a left shift could promote it to the guard.
	shiftedSmall := be.AsUBV(be.ShrS(be.AsSBV(smallSigPadNeg), diffU))
	alignSticky := bv.RightShiftStickyBit(be, smallSigPadNeg, diffU)

	sumSig := be.AddU(largeSigPad, shiftedSmall)

	carryBit := be.EqU(be.Extract(sumSig, padWidth-1, padWidth-1), be.OneUBV(1))
	hiddenPos := padWidth - 2
	oneBitCancel := be.And(be.Not(effectiveAdd), be.EqU(be.Extract(sumSig, hiddenPos, hiddenPos), be.ZeroUBV(1)))
	majorCancel := be.And(be.Not(effectiveAdd), be.LeS(diff, sconstW(be, aw, 1)))

	// carry-out: shift right 1, exponent += 1
	rightShifted := be.ShrU(sumSig, be.OneUBV(padWidth))
	expPlus1 := be.AddS(largeExp, sconstW(be, aw, 1))

	// cancellation of exactly one bit: shift left 1, exponent -= 1
	leftShifted := be.ShlU(sumSig, be.OneUBV(padWidth))
	expMinus1 := be.SubS(largeExp, sconstW(be, aw, 1))

	// major cancellation: fully renormalise
	normExp, normSig := unpacked.NormaliseUp(be, largeExp, widenFromPad(be, sumSig, s))

	sigAfterCarry := be.IteUBV(carryBit, rightShifted, sumSig)
	expAfterCarry := be.IteSBV(carryBit, expPlus1, largeExp)

	sigAfterCancel := be.IteUBV(oneBitCancel, leftShifted, sigAfterCarry)
	expAfterCancel := be.IteSBV(oneBitCancel, expMinus1, expAfterCarry)

	finalSigPad := be.IteUBV(majorCancel, padFromWide(be, normSig, padWidth), sigAfterCancel)
	finalExp := be.IteSBV(majorCancel, normExp, expAfterCancel)

	// drop the carry bit, keep the low s+2 bits (precision + guard + sticky),
	// then fold in the alignment sticky plus the bit the carry-out shift
	// discarded.
	stickyExtra := be.Or(alignSticky, be.And(carryBit, be.EqU(be.Extract(sumSig, 0, 0), be.OneUBV(1))))
	stickyMask := be.IteUBV(stickyExtra, be.OneUBV(1), be.ZeroUBV(1))
	resultSig := be.OrU(be.Extract(finalSigPad, s+1, 0), be.ZeroExtend(stickyMask, s+2))

	// The customRounderInfo derivation (noOverflow = ¬effectiveAdd, ...)
	// depends on effectiveAdd/diff symbolically in the general case, so this
	// reference implementation takes the always-sound generic rounder path
	// and leaves the per-case elision as a documented optimisation
	// opportunity rather than encoding it.
	extended := round.Extended{Sign: largeSign, Exp: finalExp, Sig: resultSig}
	arithmetic := round.Round(be, f, rmv, extended)

	// Exact cancellation of equal magnitudes sums to all-zero bits; the
	// result is +0 in every rounding mode except RTN, where it is -0,
	// independent of which operand supplied largeSign.
	cancelZero := be.EqU(sumSig, be.ZeroUBV(padWidth))
	arithmetic = unpacked.Ite(be, cancelZero,
		unpacked.MakeZero(be, f, be.RMBit(rmv, core.RTN)), arithmetic)

	special := addSpecial(be, f, rmv, isAdd, a, b)
	needsSpecial := be.Or(unpacked.IsSpecial(be, a), unpacked.IsSpecial(be, b))
	return unpacked.Ite(be, needsSpecial, special, arithmetic)
}

func signExtendTo(be core.Backend, x core.SBV, w uint32) core.SBV {
	if x.W == w {
		return x
	}
	return be.SignExtend(x, w)
}

func widenFromPad(be core.Backend, sumSig core.UBV, s uint32) core.UBV {
	// sumSig has width s+3; NormaliseUp works over the top s+2 bits
	// (dropping the carry bit) so exponent bookkeeping matches the rest
	// of the function.
	return be.Extract(sumSig, s+1, 0)
}

func padFromWide(be core.Backend, sig core.UBV, padWidth uint32) core.UBV {
	if sig.W == padWidth {
		return sig
	}
	return be.ZeroExtend(sig, padWidth)
}

// addSpecial implements the IEEE special-case table.
func addSpecial(be core.Backend, f core.Fmt, rmv core.RMV, isAdd bool, a, b unpacked.Unpacked) unpacked.Unpacked {
	bIsAddOperand := b
	if !isAdd {
		bIsAddOperand = unpacked.Negate(be, b)
	}

	anyNaN := be.Or(a.NaN, b.NaN)

	bothInf := be.And(a.Inf, bIsAddOperand.Inf)
	signsCompatible := be.EqP(a.Sign, bIsAddOperand.Sign)
	infNaN := be.And(bothInf, be.Not(signsCompatible))

	aInfOnly := be.And(a.Inf, be.Not(bIsAddOperand.Inf))
	bInfOnly := be.And(bIsAddOperand.Inf, be.Not(a.Inf))
	infResult := unpacked.Ite(be, aInfOnly, unpacked.MakeInf(be, f, a.Sign),
		unpacked.MakeInf(be, f, bIsAddOperand.Sign))
	bothInfSame := be.And(bothInf, signsCompatible)
	infResult = unpacked.Ite(be, bothInfSame, unpacked.MakeInf(be, f, a.Sign), infResult)
	isInfCase := be.Or(be.Or(aInfOnly, bInfOnly), bothInfSame)

	// zero + zero
	bothZero := be.And(a.Zero, bIsAddOperand.Zero)
	bothNeg := be.And(a.Sign, bIsAddOperand.Sign)
	isRTN := be.RMBit(rmv, core.RTN)
	rtnNegZero := be.And(isRTN, be.Or(a.Sign, bIsAddOperand.Sign))
	zeroSignNeg := be.IteProp(isRTN, rtnNegZero, bothNeg)
	zeroZeroResult := unpacked.MakeZero(be, f, zeroSignNeg)

	// x + 0 = x ; 0 + x = x (non-zero x with a zero operand)
	aZeroOnly := be.And(a.Zero, be.Not(bIsAddOperand.Zero))
	bZeroOnly := be.And(bIsAddOperand.Zero, be.Not(a.Zero))
	identityWithB := bIsAddOperand
	identityResult := unpacked.Ite(be, aZeroOnly, identityWithB, a)
	isIdentityCase := be.Or(aZeroOnly, bZeroOnly)

	hasNaNOrIncompatInf := be.Or(anyNaN, infNaN)
	withoutNaN := unpacked.Ite(be, isInfCase, infResult, unpacked.MakeNaN(be, f))
	withoutNaN = unpacked.Ite(be, bothZero, zeroZeroResult, withoutNaN)
	withoutNaN = unpacked.Ite(be, isIdentityCase, identityResult, withoutNaN)
	return unpacked.Ite(be, hasNaNOrIncompatInf, unpacked.MakeNaN(be, f), withoutNaN)
}
