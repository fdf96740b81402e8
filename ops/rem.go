package ops

import (
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// Rem implements the IEEE-754 remainder operation: a - n*b where
// n is the integer nearest a/b, ties to even. The quotient magnitude is
// recovered by an unrolled restoring shift-subtract loop (the same
// fixed-depth window pattern as restoringDivide), one step per possible
// quotient bit position, each step gated on whether that position lies
// within the operands' exponent difference. The leftover is then adjusted
// by one extra divisor when the discarded quotient fraction exceeds one
// half (or equals it with an odd quotient), which is what distinguishes
// the nearest-quotient remainder from a truncating fmod.
func Rem(be core.Backend, f core.Fmt, a, b unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	ew := f.UnpackedExpWidth()
	dw := ew + 1

	ea := signExtendTo(be, a.Exp, dw)
	eb := signExtendTo(be, b.Exp, dw)
	d := be.SubS(ea, eb)

	// Quotient bit positions range over [0, maxNormalExp-minSubnormalExp];
	// the loop depth is fixed by the format alone, never by the inputs.
	maxD := f.MaxNormalExp() - f.MinSubnormalExp()

	lw := s + 1
	r := be.ZeroExtend(a.Sig, lw)
	den := be.ZeroExtend(b.Sig, lw)
	qLSB := be.ConstProp(false)

	for i := maxD; i >= 0; i-- {
		active := be.LeS(sconstW(be, dw, i), d)
		geq := be.LeU(den, r)
		doSub := be.And(active, geq)
		r = be.IteUBV(doSub, be.SubU(r, den), r)
		qLSB = be.IteProp(active, doSub, qLSB)
		if i > 0 {
			r = be.IteUBV(active, be.ShlU(r, be.OneUBV(lw)), r)
		}
	}

	// r is now the truncated-quotient leftover, in units of b's last
	// significand place: 0 <= r < b.Sig. Round the quotient to nearest
	// even: bump it when 2r > b.Sig, or 2r = b.Sig with the quotient odd.
	r2 := be.Concat(r, be.ZeroUBV(1))
	den2 := be.ZeroExtend(den, lw+1)
	above := be.LtU(den2, r2)
	tie := be.EqU(r2, den2)
	bump := be.Or(above, be.And(tie, qLSB))

	corrected := be.IteUBV(bump, be.SubU(den, r), r)
	loopSign := be.IteProp(bump, be.Not(a.Sign), a.Sign)

	// corrected < b.Sig < 2^s, so the carry bit is statically zero.
	mag := be.Extract(corrected, s-1, 0)
	magZero := be.EqU(mag, be.ZeroUBV(s))
	normExp, normSig := unpacked.NormaliseUp(be, b.Exp, mag)

	loopResult := unpacked.Unpacked{
		F:    f,
		NaN:  be.ConstProp(false),
		Inf:  be.ConstProp(false),
		Zero: magZero,
		Sign: loopSign,
		Exp:  normExp,
		Sig:  normSig,
	}
	// An exactly-divisible dividend leaves a zero with the dividend's sign.
	loopResult = unpacked.Ite(be, magZero, unpacked.MakeZero(be, f, a.Sign), loopResult)

	// |a/b| < 1: the quotient is 0 or 1. It is 1 exactly when the
	// exponents differ by one and a's significand exceeds b's (the tie at
	// |a/b| = 1/2 rounds to the even quotient 0, leaving a unchanged).
	halfMag := be.SubU(
		be.ShlU(be.ZeroExtend(b.Sig, lw), be.OneUBV(lw)),
		be.ZeroExtend(a.Sig, lw))
	halfExp, halfSig := unpacked.NormaliseUp(be, a.Exp, be.Extract(halfMag, s-1, 0))
	halfResult := unpacked.Unpacked{
		F:    f,
		NaN:  be.ConstProp(false),
		Inf:  be.ConstProp(false),
		Zero: be.ConstProp(false),
		Sign: be.Not(a.Sign),
		Exp:  halfExp,
		Sig:  halfSig,
	}

	dNonNeg := be.LeS(sconstW(be, dw, 0), d)
	belowHalfStep := be.And(be.EqS(d, sconstW(be, dw, -1)), be.LtU(b.Sig, a.Sig))

	result := a
	result = unpacked.Ite(be, belowHalfStep, halfResult, result)
	result = unpacked.Ite(be, dNonNeg, loopResult, result)

	special := remSpecial(be, f, a, b)
	needsSpecial := be.Or(unpacked.IsSpecial(be, a), unpacked.IsSpecial(be, b))
	return unpacked.Ite(be, needsSpecial, special, result)
}

// fitWidth truncates (keeping the low w bits) or zero-extends x to width
// w. Narrowing is only lossless when the caller has already collared x's
// value below 2^w, which is how every shift-amount call site uses it.
func fitWidth(be core.Backend, x core.UBV, w uint32) core.UBV {
	if x.W == w {
		return x
	}
	if x.W > w {
		return be.Extract(x, w-1, 0)
	}
	return be.ZeroExtend(x, w)
}

func remSpecial(be core.Backend, f core.Fmt, a, b unpacked.Unpacked) unpacked.Unpacked {
	anyNaN := be.Or(a.NaN, b.NaN)
	invalid := be.Or(anyNaN, be.Or(a.Inf, b.Zero))

	result := a // rem(finite, Inf) = a; rem(±0, finite) = ±0
	result = unpacked.Ite(be, invalid, unpacked.MakeNaN(be, f), result)
	return result
}
