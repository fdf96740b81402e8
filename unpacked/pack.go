package unpacked

import (
	"github.com/bitfloat/fpbv/core"
)

// Unpack interprets an (e+s)-wide packed bit vector by its case
// table, producing a well-formed Unpacked value. Any NaN bit pattern
// (exponent all-ones, F != 0) folds to the single canonical quiet NaN.
func Unpack(be core.Backend, f core.Fmt, bv core.UBV) Unpacked {
	e, s := f.E(), f.S()
	total := e + s

	sign := be.EqU(be.Extract(bv, total-1, total-1), be.OneUBV(1))
	expField := be.Extract(bv, s-1+e-1, s-1)
	fField := be.Extract(bv, s-2, 0)

	expAllOnes := be.EqU(expField, be.AllOnesUBV(e))
	expZero := be.EqU(expField, be.ZeroUBV(e))
	fZero := be.EqU(fField, be.ZeroUBV(s-1))

	isInf := be.And(expAllOnes, fZero)
	isNaN := be.And(expAllOnes, be.Not(fZero))
	isZero := be.And(expZero, fZero)
	isSubnormal := be.And(expZero, be.Not(fZero))

	ew := f.UnpackedExpWidth()

	// normal: sig = 1 ‖ F, exp = E - bias
	normalSig := be.Concat(be.OneUBV(1), fField)
	expUnsignedWide := be.ZeroExtend(expField, ew)
	normalExp := be.SubS(be.AsSBV(expUnsignedWide), signedConst(be, f, f.Bias()))

	// subnormal: sig = 0 ‖ F, exp = minNormalExp, then normalise up
	subnormalSig0 := be.Concat(be.ZeroUBV(1), fField)
	subnormalExp0 := signedConst(be, f, f.MinNormalExp())
	subExp, subSig := NormaliseUp(be, subnormalExp0, subnormalSig0)

	nan := MakeNaN(be, f)
	infV := MakeInf(be, f, sign)
	zeroV := MakeZero(be, f, sign)

	normalV := Unpacked{F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false),
		Zero: be.ConstProp(false), Sign: sign, Exp: normalExp, Sig: normalSig}
	subnormalV := Unpacked{F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false),
		Zero: be.ConstProp(false), Sign: sign, Exp: subExp, Sig: subSig}

	result := Ite(be, isNaN, nan, normalV)
	result = Ite(be, isInf, infV, result)
	result = Ite(be, isZero, zeroV, result)
	result = Ite(be, isSubnormal, subnormalV, result)
	return result
}

// Pack is Unpack's inverse: re-bias the exponent, drop the hidden
// bit for normals, shift right by the subnormal amount for subnormals,
// and splice in the NaN/Inf/Zero sentinel encodings. Round-trip
// pack(unpack(bv)) = bv holds for every bv except a non-canonical NaN
// payload, which packs to the canonical NaN.
func Pack(be core.Backend, u Unpacked) core.UBV {
	f := u.F
	e, s := f.E(), f.S()
	ew := f.UnpackedExpWidth()

	signBit := be.IteUBV(u.Sign, be.OneUBV(1), be.ZeroUBV(1))

	// normal encoding
	biasedS := be.AddS(u.Exp, signedConst(be, f, f.Bias()))
	biasedU := be.AsUBV(biasedS)
	normalE := be.Extract(biasedU, e-1, 0)
	normalF := be.Extract(u.Sig, s-2, 0)
	normalPacked := be.Concat(be.Concat(signBit, normalE), normalF)

	// subnormal encoding: shift sig right by k = minNormalExp - exp
	minNormal := signedConst(be, f, f.MinNormalExp())
	kS := be.SubS(minNormal, u.Exp)
	k := be.AsUBV(kS)
	rawSig := be.ShrU(u.Sig, widenK(be, k, ew, s))
	subF := be.Extract(rawSig, s-2, 0)
	subPacked := be.Concat(be.Concat(signBit, be.ZeroUBV(e)), subF)

	// NaN / Inf / Zero sentinels
	nanF := nonZeroF(be, s)
	nanEnc := be.Concat(be.Concat(be.ZeroUBV(1), be.AllOnesUBV(e)), nanF)
	infEnc := be.Concat(be.Concat(signBit, be.AllOnesUBV(e)), be.ZeroUBV(s-1))
	zeroEnc := be.Concat(be.Concat(signBit, be.ZeroUBV(e)), be.ZeroUBV(s-1))

	isNormalExp := be.And(be.LeS(minNormal, u.Exp), be.LeS(u.Exp, signedConst(be, f, f.MaxNormalExp())))

	result := be.IteUBV(isNormalExp, normalPacked, subPacked)
	result = be.IteUBV(u.Zero, zeroEnc, result)
	result = be.IteUBV(u.Inf, infEnc, result)
	result = be.IteUBV(u.NaN, nanEnc, result)
	return result
}

// nonZeroF is the canonical NaN's trailing significand: only its top
// (quiet) bit is set.
func nonZeroF(be core.Backend, s uint32) core.UBV {
	return be.ShlU(be.OneUBV(s-1), be.ConstUBV(s-1, bigFromInt64(int64(s-2))))
}

func widenK(be core.Backend, k core.UBV, ew, s uint32) core.UBV {
	if ew == s {
		return k
	}
	if ew < s {
		return be.ZeroExtend(k, s)
	}
	return be.Extract(k, s-1, 0)
}
