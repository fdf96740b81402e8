package ops

import (
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

// Div implements IEEE division via an unrolled restoring
// divider: s+2 quotient bits (precision + guard + sticky) are produced
// by s+2 shift-subtract-compare steps against the divisor, the way a
// hardware restoring divider is unrolled into a fixed-depth combinational
// circuit. The number of steps is fixed by the format (known at
// term-construction time), never by the value
// of the inputs.
func Div(be core.Backend, f core.Fmt, rmv core.RMV, a, b unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	aw := round.ExtExpWidth(f)

	sign := be.XorP(a.Sign, b.Sign)
	ea := signExtendTo(be, a.Exp, aw)
	eb := signExtendTo(be, b.Exp, aw)
	exp := be.SubS(ea, eb)

	quotient, remNonZero := restoringDivide(be, a.Sig, b.Sig, s+2)

	topBit := be.EqU(be.Extract(quotient, s+1, s+1), be.OneUBV(1))
	normalised := be.IteUBV(topBit, quotient, be.ShlU(quotient, be.OneUBV(s+2)))
	exp = be.IteSBV(topBit, exp, be.SubS(exp, sconstW(be, aw, 1)))

	stickyBit := be.Or(be.EqU(be.Extract(normalised, 0, 0), be.OneUBV(1)), remNonZero)
	stickyVal := be.IteUBV(stickyBit, be.OneUBV(1), be.ZeroUBV(1))
	resultSig := be.Concat(be.Extract(normalised, s+1, 1), stickyVal)

	extended := round.Extended{Sign: sign, Exp: exp, Sig: resultSig}
	arithmetic := round.Round(be, f, rmv, extended)

	special := divSpecial(be, f, sign, a, b)
	needsSpecial := be.Or(unpacked.IsSpecial(be, a), unpacked.IsSpecial(be, b))
	return unpacked.Ite(be, needsSpecial, special, arithmetic)
}

// restoringDivide computes the nBits-bit fixed-point quotient of num/den
// (both normalised significands, so the ratio lies in (1/2, 2)): the
// first quotient bit is the ratio's integer bit and each following bit
// halves in weight, giving floor((num/den) * 2^(nBits-1)) MSB first. It
// also reports whether the remainder after those bits is nonzero (folded
// sticky information beyond the computed precision).
func restoringDivide(be core.Backend, num, den core.UBV, nBits uint32) (core.UBV, core.Prop) {
	w := den.W + 1
	rem := be.ZeroExtend(num, w)
	denWide := be.ZeroExtend(den, w)

	bits := make([]core.Prop, nBits)
	for i := uint32(0); i < nBits; i++ {
		ge := be.LeU(denWide, rem)
		bits[i] = ge
		rem = be.IteUBV(ge, be.SubU(rem, denWide), rem)
		rem = be.ShlU(rem, be.OneUBV(w))
	}

	q := bits[0]
	qVal := be.IteUBV(q, be.OneUBV(1), be.ZeroUBV(1))
	for i := uint32(1); i < nBits; i++ {
		nextVal := be.IteUBV(bits[i], be.OneUBV(1), be.ZeroUBV(1))
		qVal = be.Concat(qVal, nextVal)
	}
	remNonZero := be.Not(be.EqU(rem, be.ZeroUBV(w)))
	return qVal, remNonZero
}

func divSpecial(be core.Backend, f core.Fmt, sign core.Prop, a, b unpacked.Unpacked) unpacked.Unpacked {
	zeroByZero := be.And(a.Zero, b.Zero)
	infByInf := be.And(a.Inf, b.Inf)
	anyNaN := be.Or(a.NaN, b.NaN)
	undefined := be.Or(anyNaN, be.Or(zeroByZero, infByInf))

	finiteByZero := be.And(be.Not(a.Inf), be.And(be.Not(a.NaN), b.Zero))
	aInfOnly := be.And(a.Inf, be.Not(b.Inf))
	bZeroOnly := be.And(be.Not(b.Inf), finiteByZero)
	isInfResult := be.Or(aInfOnly, bZeroOnly)

	result := unpacked.MakeZero(be, f, sign)
	result = unpacked.Ite(be, isInfResult, unpacked.MakeInf(be, f, sign), result)
	result = unpacked.Ite(be, undefined, unpacked.MakeNaN(be, f), result)
	return result
}
