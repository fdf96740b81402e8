package ops

import (
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

// Mul implements IEEE multiplication.
func Mul(be core.Backend, f core.Fmt, rmv core.RMV, a, b unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	aw := round.ExtExpWidth(f)

	sign := be.XorP(a.Sign, b.Sign)
	ea := signExtendTo(be, a.Exp, aw)
	eb := signExtendTo(be, b.Exp, aw)
	// exponent of the 2s-wide product is ea+eb+1 for the hidden-bit product
	expSum := be.AddS(be.AddS(ea, eb), sconstW(be, aw, 1))

	product := be.MulU(be.ZeroExtend(a.Sig, 2*s), be.ZeroExtend(b.Sig, 2*s))
	topBit := be.EqU(be.Extract(product, 2*s-1, 2*s-1), be.OneUBV(1))

	// already normalised (top bit set): take the top s+2 bits (s precision
	// + guard + sticky folded) directly; otherwise shift left by 1 and
	// decrement the exponent.
	shiftedUp := be.ShlU(product, be.OneUBV(2*s))
	normalisedProduct := be.IteUBV(topBit, product, shiftedUp)
	exp := be.IteSBV(topBit, expSum, be.SubS(expSum, sconstW(be, aw, 1)))

	precisionAndGuard := be.Extract(normalisedProduct, 2*s-1, 2*s-(s+1))
	tailWidth := 2*s - (s + 1)
	tail := be.Extract(normalisedProduct, tailWidth-1, 0)
	stickyFold := be.Not(be.EqU(tail, be.ZeroUBV(tailWidth)))
	stickyBit1 := be.IteUBV(stickyFold, be.OneUBV(1), be.ZeroUBV(1))
	resultSig := be.Concat(precisionAndGuard, stickyBit1) // width s+2

	extended := round.Extended{Sign: sign, Exp: exp, Sig: resultSig}
	arithmetic := round.Round(be, f, rmv, extended)

	special := mulSpecial(be, f, sign, a, b)
	needsSpecial := be.Or(unpacked.IsSpecial(be, a), unpacked.IsSpecial(be, b))
	return unpacked.Ite(be, needsSpecial, special, arithmetic)
}

func mulSpecial(be core.Backend, f core.Fmt, sign core.Prop, a, b unpacked.Unpacked) unpacked.Unpacked {
	zeroTimesInf := be.Or(be.And(a.Zero, b.Inf), be.And(a.Inf, b.Zero))
	anyNaN := be.Or(a.NaN, b.NaN)
	undefined := be.Or(anyNaN, zeroTimesInf)

	anyInf := be.Or(a.Inf, b.Inf)

	result := unpacked.MakeZero(be, f, sign)
	result = unpacked.Ite(be, anyInf, unpacked.MakeInf(be, f, sign), result)
	result = unpacked.Ite(be, undefined, unpacked.MakeNaN(be, f), result)
	return result
}
