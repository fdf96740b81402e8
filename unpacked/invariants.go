package unpacked

import "github.com/bitfloat/fpbv/core"

// Invariants checks the well-formedness condition: exactly one of
// the NaN/Inf/Zero/Normal/Subnormal cases holds. It returns a Prop rather
// than a Go bool because the kernel's own operations must be checkable
// symbolically too (Testable Property 3); callers validating a concrete
// value can read the concrete Prop's underlying bool directly.
func Invariants(be core.Backend, u Unpacked) core.Prop {
	f := u.F
	defExp, defSig := defaultExpSig(be, f)
	isDefault := be.And(be.EqS(u.Exp, defExp), be.EqU(u.Sig, defSig))

	nanCase := be.And(u.NaN, be.And(be.Not(u.Inf), be.And(be.Not(u.Zero),
		be.And(be.Not(u.Sign), isDefault))))

	infCase := be.And(u.Inf, be.And(be.Not(u.NaN), be.And(be.Not(u.Zero), isDefault)))

	zeroCase := be.And(u.Zero, be.And(be.Not(u.NaN), be.And(be.Not(u.Inf), isDefault)))

	noFlags := be.And(be.Not(u.NaN), be.And(be.Not(u.Inf), be.Not(u.Zero)))
	sigMSB := be.EqU(be.Extract(u.Sig, f.S()-1, f.S()-1), be.OneUBV(1))

	minNormal := signedConst(be, f, f.MinNormalExp())
	maxNormal := signedConst(be, f, f.MaxNormalExp())
	normalRange := be.And(be.LeS(minNormal, u.Exp), be.LeS(u.Exp, maxNormal))
	normalCase := be.And(noFlags, be.And(normalRange, sigMSB))

	minSub := signedConst(be, f, f.MinSubnormalExp())
	maxSub := signedConst(be, f, f.MaxSubnormalExp())
	subRange := be.And(be.LeS(minSub, u.Exp), be.LeS(u.Exp, maxSub))
	abbreviation := subnormalAbbreviationHolds(be, f, u.Exp, u.Sig)
	subnormalCase := be.And(noFlags, be.And(subRange, be.And(sigMSB, abbreviation)))

	any := nanCase
	any = be.Or(any, infCase)
	any = be.Or(any, zeroCase)
	any = be.Or(any, normalCase)
	any = be.Or(any, subnormalCase)
	return any
}

// subnormalAbbreviationHolds checks that the low k = minNormalExp - exp
// bits of sig are zero, per the subnormal abbreviation invariant. Since
// exp is not generally a compile-time constant, this is evaluated via the
// same sticky-bit test the rounder uses: shifting right by k and back left
// by k must reproduce sig exactly.
func subnormalAbbreviationHolds(be core.Backend, f core.Fmt, exp core.SBV, sig core.UBV) core.Prop {
	minNormal := signedConst(be, f, f.MinNormalExp())
	kS := be.SubS(minNormal, exp) // k = minNormalExp - exp, in [1, s-1] over the subnormal range
	k := fitAmt(be, be.AsUBV(kS), sig.W)
	shifted := be.ShrU(sig, k)
	backUp := be.ShlU(shifted, k)
	return be.EqU(backUp, sig)
}

// fitAmt brings a shift amount to the shifted vector's width. The low-bit
// truncation only matters outside the subnormal range, where the caller
// masks the result anyway.
func fitAmt(be core.Backend, x core.UBV, w uint32) core.UBV {
	if x.W == w {
		return x
	}
	if x.W > w {
		return be.Extract(x, w-1, 0)
	}
	return be.ZeroExtend(x, w)
}

func signedConst(be core.Backend, f core.Fmt, v int64) core.SBV {
	ew := f.UnpackedExpWidth()
	return be.ConstSBV(ew, bigFromInt64(v))
}
