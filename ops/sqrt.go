package ops

import (
	"math/big"

	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

var big2 = big.NewInt(2)

// Sqrt implements IEEE square root, defined only on non-negative
// inputs. The exponent is halved; when it is odd the significand is
// doubled first so only even exponents are ever square-rooted, then the
// significand is extracted bit-by-bit with the standard restoring
// digit recurrence (one root bit per two radicand bits), matching
// divide's unrolled-hardware-algorithm style.
func Sqrt(be core.Backend, f core.Fmt, rmv core.RMV, a unpacked.Unpacked) unpacked.Unpacked {
	s := f.S()
	aw := round.ExtExpWidth(f)

	ea := signExtendTo(be, a.Exp, aw)
	isOdd := be.EqU(be.Extract(be.AsUBV(ea), 0, 0), be.OneUBV(1))

	sigAdj := be.ZeroExtend(a.Sig, s+1)
	sigAdj = be.IteUBV(isOdd, be.ShlU(sigAdj, be.OneUBV(s+1)), sigAdj)
	evenExp := be.IteSBV(isOdd, be.SubS(ea, sconstW(be, aw, 1)), ea)
	halvedExp := be.ShrS(evenExp, be.OneUBV(aw))

	nBits := s + 2
	root, remNonZero := restoringSqrt(be, sigAdj, nBits)

	topBit := be.EqU(be.Extract(root, nBits-1, nBits-1), be.OneUBV(1))
	// root is already in [1,2) scale when topBit holds; otherwise the
	// result needs one more normalising shift, mirroring divide/multiply.
	normalised := be.IteUBV(topBit, root, be.ShlU(root, be.OneUBV(nBits)))
	exp := be.IteSBV(topBit, halvedExp, be.SubS(halvedExp, sconstW(be, aw, 1)))

	stickyBit := be.Or(be.EqU(be.Extract(normalised, 0, 0), be.OneUBV(1)), remNonZero)
	stickyVal := be.IteUBV(stickyBit, be.OneUBV(1), be.ZeroUBV(1))
	resultSig := be.Concat(be.Extract(normalised, nBits-1, 1), stickyVal)

	extended := round.Extended{Sign: be.ConstProp(false), Exp: exp, Sig: resultSig}
	arithmetic := round.Round(be, f, rmv, extended)

	special := sqrtSpecial(be, f, a)
	needsSpecial := be.Or(unpacked.IsSpecial(be, a), be.And(a.Sign, be.Not(a.Zero)))
	return unpacked.Ite(be, needsSpecial, special, arithmetic)
}

// restoringSqrt computes the top nBits bits of sqrt(x) (MSB first) via the
// restoring digit recurrence: bring down two radicand bits, compare
// the accumulated remainder against 4*root+1, and either subtract (root
// bit 1) or not (root bit 0). It also reports whether any radicand bits
// beyond those consumed remain nonzero (folded sticky information).
func restoringSqrt(be core.Backend, x core.UBV, nBits uint32) (core.UBV, core.Prop) {
	regW := 2*nBits + 2
	// Top-align the radicand: the recurrence consumes bit pairs from the
	// top, so the root of x scaled up by an even power of two comes out
	// with its MSB in the highest root bit.
	xWide := x
	if x.W < 2*nBits {
		xWide = be.Concat(x, be.ZeroUBV(2*nBits-x.W))
	} else if x.W > 2*nBits {
		xWide = be.Extract(x, x.W-1, x.W-2*nBits)
	}

	rem := be.ZeroUBV(regW)
	root := be.ZeroUBV(nBits)

	for i := uint32(0); i < nBits; i++ {
		hiIdx := 2*nBits - 1 - 2*i // always odd, so hiIdx-1 never underflows
		twobits := be.Extract(xWide, hiIdx, hiIdx-1)
		rem = be.OrU(be.ShlU(rem, be.ConstUBV(regW, big2)), be.ZeroExtend(twobits, regW))

		trial := be.AddU(be.ShlU(be.ZeroExtend(root, regW), be.ConstUBV(regW, big2)), be.OneUBV(regW))
		ge := be.LeU(trial, rem)
		restored := be.SubU(rem, trial)
		rem = be.IteUBV(ge, restored, rem)

		bit := be.IteUBV(ge, be.OneUBV(1), be.ZeroUBV(1))
		root = be.Concat(be.Extract(root, nBits-2, 0), bit)
	}
	remNonZero := be.Not(be.EqU(rem, be.ZeroUBV(regW)))
	return root, remNonZero
}

func sqrtSpecial(be core.Backend, f core.Fmt, a unpacked.Unpacked) unpacked.Unpacked {
	// any negative operand other than -0 (finite or -Inf) is NaN.
	negativeNonZero := be.And(a.Sign, be.Not(a.Zero))
	result := a // +0, -0, +Inf pass through unchanged
	result = unpacked.Ite(be, a.NaN, unpacked.MakeNaN(be, f), result)
	result = unpacked.Ite(be, negativeNonZero, unpacked.MakeNaN(be, f), result)
	return result
}
