// Package unpacked implements the kernel's internal normal form for
// floating-point values and the pack/unpack bijection to the IEEE
// interchange encoding.
//
// Pack and Unpack decompose a packed float into the sign, exponent,
// significand, and class-flag fields the rest of the kernel works with,
// and recompose them.
package unpacked

import (
	"math/big"

	"github.com/bitfloat/fpbv/core"
)

// Unpacked is the working representation of a floating-point value in
// format F. It is immutable: every kernel operation that transforms
// an Unpacked value returns a fresh one.
type Unpacked struct {
	F    core.Fmt
	NaN  core.Prop
	Inf  core.Prop
	Zero core.Prop
	Sign core.Prop
	Exp  core.SBV // width F.UnpackedExpWidth()
	Sig  core.UBV // width F.S()
}

// defaultExpSig returns the (exp, sig) pair shared by the NaN/Inf/Zero
// cases: exp = 0, sig = 1.0 ("defaultExp = 0; defaultSig = 1 <<
// (s-1)").
func defaultExpSig(be core.Backend, f core.Fmt) (core.SBV, core.UBV) {
	ew := f.UnpackedExpWidth()
	exp := be.ConstSBV(ew, big.NewInt(0))
	sig := be.ConstUBV(f.S(), new(big.Int).SetUint64(f.DefaultSig()))
	return exp, sig
}

// MakeNaN builds the canonical quiet NaN in format f ("NaN
// canonicalisation": payload/signalling bits are not modeled, every NaN
// is this one value).
func MakeNaN(be core.Backend, f core.Fmt) Unpacked {
	exp, sig := defaultExpSig(be, f)
	return Unpacked{
		F: f, NaN: be.ConstProp(true), Inf: be.ConstProp(false), Zero: be.ConstProp(false),
		Sign: be.ConstProp(false), Exp: exp, Sig: sig,
	}
}

// MakeInf builds +Inf or -Inf depending on sign.
func MakeInf(be core.Backend, f core.Fmt, sign core.Prop) Unpacked {
	exp, sig := defaultExpSig(be, f)
	return Unpacked{
		F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(true), Zero: be.ConstProp(false),
		Sign: sign, Exp: exp, Sig: sig,
	}
}

// MakeZero builds +0 or -0 depending on sign.
func MakeZero(be core.Backend, f core.Fmt, sign core.Prop) Unpacked {
	exp, sig := defaultExpSig(be, f)
	return Unpacked{
		F: f, NaN: be.ConstProp(false), Inf: be.ConstProp(false), Zero: be.ConstProp(true),
		Sign: sign, Exp: exp, Sig: sig,
	}
}

// IsSpecial reports NaN ∨ Inf ∨ Zero.
func IsSpecial(be core.Backend, u Unpacked) core.Prop {
	return be.Or(be.Or(u.NaN, u.Inf), u.Zero)
}

// Ite selects t if c holds, else e. Callers building special-case
// cascades reach for this instead of a Go if/else on symbolic Props,
// keeping choice materialised as data rather than control flow.
func Ite(be core.Backend, c core.Prop, t, e Unpacked) Unpacked {
	return Unpacked{
		F:    t.F,
		NaN:  be.IteProp(c, t.NaN, e.NaN),
		Inf:  be.IteProp(c, t.Inf, e.Inf),
		Zero: be.IteProp(c, t.Zero, e.Zero),
		Sign: be.IteProp(c, t.Sign, e.Sign),
		Exp:  be.IteSBV(c, t.Exp, e.Exp),
		Sig:  be.IteUBV(c, t.Sig, e.Sig),
	}
}

// Negate flips the sign bit; NaN is unaffected in sign, so the canonical
// NaN keeps the clear sign Invariants requires.
func Negate(be core.Backend, u Unpacked) Unpacked {
	r := u
	r.Sign = be.IteProp(u.NaN, u.Sign, be.Not(u.Sign))
	return r
}

// Abs clears the sign bit.
func Abs(be core.Backend, u Unpacked) Unpacked {
	r := u
	r.Sign = be.ConstProp(false)
	return r
}

// Equal is observational equality (Testable Properties 2, 5-7): every
// field must agree. Two canonical NaNs with the same (don't-care) sign
// compare equal because all their fields are identical by construction.
func Equal(be core.Backend, a, b Unpacked) core.Prop {
	p := be.EqP(a.NaN, b.NaN)
	p = be.And(p, be.EqP(a.Inf, b.Inf))
	p = be.And(p, be.EqP(a.Zero, b.Zero))
	p = be.And(p, be.EqP(a.Sign, b.Sign))
	p = be.And(p, be.EqS(a.Exp, b.Exp))
	p = be.And(p, be.EqU(a.Sig, b.Sig))
	return p
}
