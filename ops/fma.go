package ops

import (
	"github.com/bitfloat/fpbv/bv"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

// Fma implements the IEEE-754 fused multiply-add: a*b is formed
// exactly (no intermediate rounding), aligned against c at full width,
// and the sum is rounded once. Whenever any operand is NaN, infinite, or
// zero the exact-arithmetic fast path below is skipped in favour of
// composing the already-correct Mul and Add special-case tables
// (fmaSpecial): double rounding only changes a finite result near a
// precision boundary, and special values carry no precision to lose.
func Fma(be core.Backend, f core.Fmt, rmv core.RMV, a, b, c unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	faw := round.ExtExpWidth(f) + 1

	productSign := be.XorP(a.Sign, b.Sign)
	ea := signExtendTo(be, a.Exp, faw)
	eb := signExtendTo(be, b.Exp, faw)
	ec := signExtendTo(be, c.Exp, faw)

	productExpRaw := be.AddS(be.AddS(ea, eb), sconstW(be, faw, 1))
	rawProduct := be.MulU(be.ZeroExtend(a.Sig, 2*s), be.ZeroExtend(b.Sig, 2*s))
	topBit := be.EqU(be.Extract(rawProduct, 2*s-1, 2*s-1), be.OneUBV(1))
	normalisedProduct := be.IteUBV(topBit, rawProduct, be.ShlU(rawProduct, be.OneUBV(2*s)))
	productExp := be.IteSBV(topBit, productExpRaw, be.SubS(productExpRaw, sconstW(be, faw, 1)))

	// common top-aligned register wide enough to hold the 2s-bit exact
	// product and the s-bit c with headroom for alignment shifts.
	w := 3*s + 6
	productPad := be.Concat(normalisedProduct, be.ZeroUBV(w-2*s))
	cPad := be.Concat(c.Sig, be.ZeroUBV(w-s))

	aGEb := be.Or(be.LtS(ec, productExp), be.And(be.EqS(productExp, ec), be.LeU(cPad, productPad)))

	largeSign := be.IteProp(aGEb, productSign, c.Sign)
	largeExp := be.IteSBV(aGEb, productExp, ec)
	smallExp := be.IteSBV(aGEb, ec, productExp)
	largeMag := be.IteUBV(aGEb, productPad, cPad)
	smallMag := be.IteUBV(aGEb, cPad, productPad)

	effectiveAdd := be.Not(be.XorP(productSign, c.Sign))
	diff := be.SubS(largeExp, smallExp)

	totalW := w + 2
	// One carry bit above and one spare bit below, so both operands' leading
	// bits sit at hiddenPos (totalW-2).
	largePad := be.Concat(be.ZeroUBV(1), be.Concat(largeMag, be.ZeroUBV(1)))
	smallPad := be.Concat(be.ZeroUBV(1), be.Concat(smallMag, be.ZeroUBV(1)))
	smallNeg := bv.ConditionalNegateU(be, be.Not(effectiveAdd), smallPad)

	diffClamped := bv.CollarS(be, diff, sconstW(be, faw, 0), sconstW(be, faw, int64(totalW)))
	shiftAmt := fitWidth(be, be.AsUBV(diffClamped), totalW)
	// The smaller operand was negated before the shift so that the
	// arithmetic shift's sign-extension keeps the two's-complement value
	// consistent; the sticky bit is carried separately and only OR'd in
	// after normalisation, or a left shift could promote it to the guard.
	shiftedSmall := be.AsUBV(be.ShrS(be.AsSBV(smallNeg), shiftAmt))
	alignSticky := bv.RightShiftStickyBit(be, smallNeg, shiftAmt)

	sumPad := be.AddU(largePad, shiftedSmall)

	carryBit := be.EqU(be.Extract(sumPad, totalW-1, totalW-1), be.OneUBV(1))
	hiddenPos := totalW - 2
	oneBitCancel := be.And(be.Not(effectiveAdd), be.EqU(be.Extract(sumPad, hiddenPos, hiddenPos), be.ZeroUBV(1)))
	majorCancel := be.And(be.Not(effectiveAdd), be.LeS(diff, sconstW(be, faw, 1)))

	rightShifted := be.ShrU(sumPad, be.OneUBV(totalW))
	expPlus1 := be.AddS(largeExp, sconstW(be, faw, 1))

	leftShifted := be.ShlU(sumPad, be.OneUBV(totalW))
	expMinus1 := be.SubS(largeExp, sconstW(be, faw, 1))

	normExp, normSig := unpacked.NormaliseUp(be, largeExp, be.Extract(sumPad, hiddenPos, 0))

	sigAfterCarry := be.IteUBV(carryBit, rightShifted, sumPad)
	expAfterCarry := be.IteSBV(carryBit, expPlus1, largeExp)

	sigAfterCancel := be.IteUBV(oneBitCancel, leftShifted, sigAfterCarry)
	expAfterCancel := be.IteSBV(oneBitCancel, expMinus1, expAfterCarry)

	finalSig := be.IteUBV(majorCancel, be.ZeroExtend(normSig, totalW), sigAfterCancel)
	finalExp := be.IteSBV(majorCancel, normExp, expAfterCancel)

	precisionAndGuard := be.Extract(finalSig, hiddenPos, hiddenPos-s)
	tailWidth := hiddenPos - s
	tail := be.Extract(finalSig, tailWidth-1, 0)
	carryLostBit := be.And(carryBit, be.EqU(be.Extract(sumPad, 0, 0), be.OneUBV(1)))
	stickyFold := be.Or(be.Not(be.EqU(tail, be.ZeroUBV(tailWidth))),
		be.Or(alignSticky, carryLostBit))
	stickyVal := be.IteUBV(stickyFold, be.OneUBV(1), be.ZeroUBV(1))
	resultSig := be.Concat(precisionAndGuard, stickyVal)

	extended := round.Extended{Sign: largeSign, Exp: narrowSBV(be, finalExp, round.ExtExpWidth(f)), Sig: resultSig}
	arithmetic := round.Round(be, f, rmv, extended)

	// Exact cancellation of a*b against c sums to all-zero bits; the
	// result is +0 in every rounding mode except RTN, where it is -0.
	cancelZero := be.EqU(sumPad, be.ZeroUBV(totalW))
	arithmetic = unpacked.Ite(be, cancelZero,
		unpacked.MakeZero(be, f, be.RMBit(rmv, core.RTN)), arithmetic)

	special := fmaSpecial(be, f, rmv, a, b, c)
	needsSpecial := be.Or(be.Or(unpacked.IsSpecial(be, a), unpacked.IsSpecial(be, b)), unpacked.IsSpecial(be, c))
	return unpacked.Ite(be, needsSpecial, special, arithmetic)
}

// narrowSBV drops high bits down to width w, the inverse of SignExtend.
func narrowSBV(be core.Backend, x core.SBV, w uint32) core.SBV {
	if x.W == w {
		return x
	}
	return be.AsSBV(be.Extract(be.AsUBV(x), w-1, 0))
}

// fmaSpecial handles any NaN/Inf/Zero operand by composing the already
// IEEE-correct Mul and Add special tables: round(a*b) first, then add c.
// Double rounding is not observable here because a special operand fixes
// the result independent of precision.
func fmaSpecial(be core.Backend, f core.Fmt, rmv core.RMV, a, b, c unpacked.Unpacked) unpacked.Unpacked {
	product := Mul(be, f, rmv, a, b)
	return Add(be, f, rmv, product, c)
}
