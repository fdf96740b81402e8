package ops

import (
	"math/big"

	"github.com/bitfloat/fpbv/bv"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/internal/assert"
	"github.com/bitfloat/fpbv/round"
	"github.com/bitfloat/fpbv/unpacked"
)

// RealParts is the metadata tuple the Float→Real conversion produces:
// sign, unbiased exponent, and integer significand, collected by an
// external real-number theory encoder into sign*(sig/2^(s-1))*2^exp
// (sig carries its leading bit explicitly).
// No arithmetic is performed here; this function only disassembles.
type RealParts struct {
	Sign core.Prop
	Exp  core.SBV
	Sig  core.UBV
}

// adaptSig reshapes a top-aligned, MSB-set significand of width srcW into
// the extended s+2 form (precision+guard+sticky) a target format of
// precision s expects, losslessly when s >= srcW and with a folded
// guard/sticky otherwise. The branch is on a compile-time width, not a
// symbolic value, so an ordinary Go if is correct here (ite is only needed
// for value-dependent branches).
func adaptSig(be core.Backend, sig core.UBV, s uint32) core.UBV {
	srcW := sig.W
	if s >= srcW {
		padded := sig
		if s > srcW {
			padded = be.Concat(sig, be.ZeroUBV(s-srcW))
		}
		return be.Concat(padded, be.ZeroUBV(2))
	}
	shift := srcW - s
	truncated := be.Extract(sig, srcW-1, shift)
	guard := be.Extract(sig, shift-1, shift-1)
	stickyVal := be.ZeroUBV(1)
	if shift > 1 {
		rest := be.Extract(sig, shift-2, 0)
		stickyFold := be.Not(be.EqU(rest, be.ZeroUBV(shift-1)))
		stickyVal = be.IteUBV(stickyFold, be.OneUBV(1), be.ZeroUBV(1))
	}
	return be.Concat(be.Concat(truncated, guard), stickyVal)
}

func adaptExpWidth(be core.Backend, x core.SBV, w uint32) core.SBV {
	if x.W == w {
		return x
	}
	if w > x.W {
		return be.SignExtend(x, w)
	}
	return narrowSBV(be, x, w)
}

// FloatToFloat implements Float→Float conversion: adapt the
// significand and exponent width to the destination format's extended
// precision and run the generic rounder. When the destination strictly
// widens both fields the adaptation is exact (guard/sticky come out
// zero) so rounding is a no-op; no separate fast path is coded since the
// rounder already behaves that way.
func FloatToFloat(be core.Backend, dstF core.Fmt, rmv core.RMV, a unpacked.Unpacked) unpacked.Unpacked {
	exp := adaptExpWidth(be, a.Exp, round.ExtExpWidth(dstF))
	sig := adaptSig(be, a.Sig, dstF.S())
	extended := round.Extended{Sign: a.Sign, Exp: exp, Sig: sig}
	arithmetic := round.Round(be, dstF, rmv, extended)

	special := unpacked.MakeNaN(be, dstF)
	special = unpacked.Ite(be, a.Inf, unpacked.MakeInf(be, dstF, a.Sign), special)
	special = unpacked.Ite(be, a.Zero, unpacked.MakeZero(be, dstF, a.Sign), special)
	return unpacked.Ite(be, unpacked.IsSpecial(be, a), special, arithmetic)
}

// UBVToFloat implements UBV→Float: x is embedded as an unpacked
// value (sign 0, exponent width(x)-decimalPointPosition, significand x),
// normalised up, then handed through FloatToFloat's rounding path.
func UBVToFloat(be core.Backend, dstF core.Fmt, rmv core.RMV, x core.UBV, decimalPointPosition uint32) unpacked.Unpacked {
	assert.Holds(decimalPointPosition <= x.W, "UBVToFloat: decimalPointPosition %d > width %d", decimalPointPosition, x.W)

	ew := round.ExtExpWidth(dstF)
	exp := sconstW(be, ew, int64(x.W)-int64(decimalPointPosition))
	normExp, normSig := unpacked.NormaliseUp(be, exp, x)

	zero := be.EqU(x, be.ZeroUBV(x.W))
	extended := round.Extended{Sign: be.ConstProp(false), Exp: normExp, Sig: adaptSig(be, normSig, dstF.S())}
	arithmetic := round.Round(be, dstF, rmv, extended)
	return unpacked.Ite(be, zero, unpacked.MakeZero(be, dstF, be.ConstProp(false)), arithmetic)
}

// SBVToFloat implements SBV→Float: take the absolute value in
// one extra bit, remember the sign, and proceed as UBV→Float.
func SBVToFloat(be core.Backend, dstF core.Fmt, rmv core.RMV, x core.SBV, decimalPointPosition uint32) unpacked.Unpacked {
	sign := be.LtS(x, sconstW(be, x.W, 0))
	widened := be.SignExtend(x, x.W+1)
	magnitude := be.AsUBV(bv.AbsS(be, widened))
	result := UBVToFloat(be, dstF, rmv, magnitude, decimalPointPosition+1)
	result.Sign = be.IteProp(result.Zero, be.ConstProp(false), sign)
	return result
}

// FloatToUBV implements Float→BV (unsigned half): reject NaN,
// Inf, negative non-zero values, and exponents at or above width, then
// round to an integer (reusing RoundToIntegral) and shift the rounded
// significand into position. undefinedVal is the caller-chosen sentinel
// returned (alongside Defined=false) on any rejected or out-of-range input.
func FloatToUBV(be core.Backend, f core.Fmt, rmv core.RMV, a unpacked.Unpacked, width uint32, undefinedVal core.UBV) Partial[core.UBV] {
	s := f.S()
	assert.Holds(width >= s, "FloatToUBV: width %d smaller than precision %d", width, s)
	ew := f.UnpackedExpWidth()

	rounded := RoundToIntegral(be, f, rmv, a)

	// Range and sign checks run on the rounded value: rounding can carry a
	// value just below 2^width over the top, and can bring a small negative
	// down to the representable zero.
	negativeNonzero := be.And(rounded.Sign, be.Not(rounded.Zero))
	tooLarge := be.Not(be.LtS(rounded.Exp, sconstW(be, ew, int64(width))))
	invalid := be.Or(be.Or(a.NaN, a.Inf), be.Or(negativeNonzero, tooLarge))
	shiftAmt := be.SubS(rounded.Exp, sconstW(be, ew, int64(s-1)))
	shiftAmtClamped := bv.CollarS(be, shiftAmt, sconstW(be, ew, 0), sconstW(be, ew, int64(width)))
	sigWide := be.ZeroExtend(rounded.Sig, width)
	shifted := be.ShlU(sigWide, fitWidth(be, be.AsUBV(shiftAmtClamped), width))
	// Below exponent s-1 the low significand bits are fractional (zero after
	// rounding), so the integer comes from a right shift instead.
	downAmt := bv.CollarS(be, be.NegS(shiftAmt), sconstW(be, ew, 0), sconstW(be, ew, int64(s-1)))
	shiftedDown := be.ShrU(sigWide, fitWidth(be, be.AsUBV(downAmt), width))
	shifted = be.IteUBV(be.LtS(shiftAmt, sconstW(be, ew, 0)), shiftedDown, shifted)
	result := be.IteUBV(rounded.Zero, be.ZeroUBV(width), shifted)

	return Partial[core.UBV]{Value: be.IteUBV(invalid, undefinedVal, result), Defined: be.Not(invalid)}
}

// FloatToSBV is FloatToUBV's signed counterpart: the range check uses
// width-1 (room for the sign bit) and the final magnitude is negated
// when the input was negative.
func FloatToSBV(be core.Backend, f core.Fmt, rmv core.RMV, a unpacked.Unpacked, width uint32, undefinedVal core.SBV) Partial[core.SBV] {
	s := f.S()
	assert.Holds(width > s, "FloatToSBV: width %d too small for precision %d", width, s)
	ew := f.UnpackedExpWidth()

	rounded := RoundToIntegral(be, f, rmv, a)

	// The asymmetric two's-complement range: exponents below width-1 always
	// fit, and -2^(width-1) itself (negative, exponent exactly width-1,
	// significand a bare leading one) is the one value on the boundary that
	// does. Checked on the rounded value, as in the unsigned half.
	expFits := be.LtS(rounded.Exp, sconstW(be, ew, int64(width-1)))
	tailZero := be.EqU(be.Extract(rounded.Sig, s-2, 0), be.ZeroUBV(s-1))
	atMostNegative := be.And(be.And(rounded.Sign, tailZero),
		be.EqS(rounded.Exp, sconstW(be, ew, int64(width-1))))
	tooLarge := be.Not(be.Or(expFits, atMostNegative))
	invalid := be.Or(be.Or(a.NaN, a.Inf), tooLarge)
	shiftAmt := be.SubS(rounded.Exp, sconstW(be, ew, int64(s-1)))
	shiftAmtClamped := bv.CollarS(be, shiftAmt, sconstW(be, ew, 0), sconstW(be, ew, int64(width)))
	sigWide := be.ZeroExtend(rounded.Sig, width)
	shifted := be.ShlU(sigWide, fitWidth(be, be.AsUBV(shiftAmtClamped), width))
	downAmt := bv.CollarS(be, be.NegS(shiftAmt), sconstW(be, ew, 0), sconstW(be, ew, int64(s-1)))
	shiftedDown := be.ShrU(sigWide, fitWidth(be, be.AsUBV(downAmt), width))
	shifted = be.IteUBV(be.LtS(shiftAmt, sconstW(be, ew, 0)), shiftedDown, shifted)
	magnitude := be.IteUBV(rounded.Zero, be.ZeroUBV(width), shifted)
	signedResult := bv.ConditionalNegate(be, rounded.Sign, be.AsSBV(magnitude))

	return Partial[core.SBV]{Value: be.IteSBV(invalid, undefinedVal, signedResult), Defined: be.Not(invalid)}
}

// FloatToReal implements Float→Real: pure metadata, undefined on
// NaN/Inf.
func FloatToReal(be core.Backend, a unpacked.Unpacked) Partial[RealParts] {
	invalid := be.Or(a.NaN, a.Inf)
	parts := RealParts{Sign: a.Sign, Exp: a.Exp, Sig: a.Sig}
	return Partial[RealParts]{Value: parts, Defined: be.Not(invalid)}
}

// RealToFloat is the piece left to the surrounding
// solver (the disabled convertFromRealLiteral branch): a rational
// literal num/den, already extracted by the caller, rounded to the
// nearest representable value. num/den are plain *big.Int because a
// rational literal is known in full at the point a term is built, not
// a data-dependent backend value — this function only bit-blasts the
// already-decided rounding, never an REAL→FP rewrite step.
func RealToFloat(be core.Backend, dstF core.Fmt, rmv core.RMV, sign bool, num, den *big.Int) unpacked.Unpacked {
	if num.Sign() == 0 {
		return unpacked.MakeZero(be, dstF, be.ConstProp(sign))
	}
	s := dstF.S()
	ew := round.ExtExpWidth(dstF)

	value := new(big.Rat).SetFrac(new(big.Int).Abs(num), new(big.Int).Abs(den))
	one := big.NewRat(1, 1)
	two := big.NewRat(2, 1)
	e := 0
	for value.Cmp(two) >= 0 {
		value.Quo(value, two)
		e++
	}
	for value.Cmp(one) < 0 {
		value.Mul(value, two)
		e--
	}

	scale := new(big.Int).Lsh(big.NewInt(1), uint(s+1))
	scaled := new(big.Rat).Mul(value, new(big.Rat).SetInt(scale))
	quo, rem := new(big.Int).QuoRem(scaled.Num(), scaled.Denom(), new(big.Int))
	if rem.Sign() != 0 {
		quo.SetBit(quo, 0, 1)
	}

	extended := round.Extended{
		Sign: be.ConstProp(sign),
		Exp:  be.ConstSBV(ew, big.NewInt(int64(e))),
		Sig:  be.ConstUBV(s+2, quo),
	}
	return round.Round(be, dstF, rmv, extended)
}
