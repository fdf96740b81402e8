package unpacked

import "github.com/bitfloat/fpbv/core"

// NormaliseUp shifts sig left until its MSB is 1 (adjusting exp to
// match), assuming sig is nonzero. Implemented as the logarithmic
// ladder: for each power p of two from the largest power
// strictly below the significand width down to 1, if the top p bits are
// all zero, shift left by p. Uses the modular left shift throughout,
// because an unconditional shift-by-p when no shift is needed would
// destroy data that a non-modular "shift and check for overflow" variant
// would have preserved.
func NormaliseUp(be core.Backend, exp core.SBV, sig core.UBV) (core.SBV, core.UBV) {
	s := sig.W
	for p := largestPowerOfTwoBelow(s); p >= 1; p /= 2 {
		top := be.Extract(sig, s-1, s-p)
		cond := be.EqU(top, be.ZeroUBV(p))
		shifted := be.ShlU(sig, be.ConstUBV(s, bigFromInt64(int64(p))))
		sig = be.IteUBV(cond, shifted, sig)
		exp = be.IteSBV(cond, be.SubS(exp, be.ConstSBV(exp.W, bigFromInt64(int64(p)))), exp)
	}
	return exp, sig
}

func largestPowerOfTwoBelow(s uint32) uint32 {
	p := uint32(1)
	for p*2 < s {
		p *= 2
	}
	return p
}
