package ops

import (
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// Ordering is a mutually-exclusive set of comparison-result Props (not a
// Go enum): the caller branches on these with Ite, the same way every
// other kernel result is consumed, rather than the kernel ever resolving
// a comparison to a native Go bool. Exactly one of Less, Eq, Greater
// holds whenever Compare's Defined Prop holds.
type Ordering struct {
	Less    core.Prop
	Eq      core.Prop
	Greater core.Prop
}

// Compare implements IEEE-754 comparison: signed zeros compare equal,
// any NaN operand makes the result undefined (neither Less, Eq, nor
// Greater holds), -Inf orders below and +Inf above every other value,
// and finite non-zero values order by sign then the (exponent,
// significand) magnitude pair the way addSub's operand ordering does. The
// class flags gate every exponent/significand comparison,
// since NaN/Inf/Zero carry sentinel field values that must never be
// compared as magnitudes.
func Compare(be core.Backend, a, b unpacked.Unpacked) Partial[Ordering] {
	anyNaN := be.Or(a.NaN, b.NaN)
	defined := be.Not(anyNaN)

	aNegInf := be.And(a.Inf, a.Sign)
	aPosInf := be.And(a.Inf, be.Not(a.Sign))
	bNegInf := be.And(b.Inf, b.Sign)
	bPosInf := be.And(b.Inf, be.Not(b.Sign))
	aOrd := be.And(be.Not(a.Inf), be.Not(a.Zero)) // finite, non-zero (NaN masked by defined)
	bOrd := be.And(be.Not(b.Inf), be.Not(b.Zero))

	bothZero := be.And(a.Zero, b.Zero)
	sameSign := be.EqP(a.Sign, b.Sign)
	magEq := be.And(be.EqS(a.Exp, b.Exp), be.EqU(a.Sig, b.Sig))

	eq := bothZero
	eq = be.Or(eq, be.And(be.And(a.Inf, b.Inf), sameSign))
	eq = be.Or(eq, be.And(be.And(aOrd, bOrd), be.And(sameSign, magEq)))
	eq = be.And(defined, eq)

	aMagLtB := be.Or(be.LtS(a.Exp, b.Exp), be.And(be.EqS(a.Exp, b.Exp), be.LtU(a.Sig, b.Sig)))
	bMagLtA := be.Or(be.LtS(b.Exp, a.Exp), be.And(be.EqS(a.Exp, b.Exp), be.LtU(b.Sig, a.Sig)))

	negLess := be.And(a.Sign, be.Not(b.Sign))
	// same sign, both non-negative: magnitude order is value order;
	// same sign, both negative: magnitude order is reversed.
	sameSignLess := be.IteProp(a.Sign, bMagLtA, aMagLtB)
	finiteLess := be.Or(negLess, be.And(sameSign, sameSignLess))

	less := be.And(aNegInf, be.Not(bNegInf))
	less = be.Or(less, be.And(bPosInf, be.Not(aPosInf)))
	less = be.Or(less, be.And(a.Zero, be.And(bOrd, be.Not(b.Sign))))
	less = be.Or(less, be.And(be.And(aOrd, a.Sign), b.Zero))
	less = be.Or(less, be.And(be.And(aOrd, bOrd), finiteLess))
	less = be.And(defined, less)

	greater := be.And(defined, be.Not(be.Or(less, eq)))

	return Partial[Ordering]{
		Value:   Ordering{Less: less, Eq: eq, Greater: greater},
		Defined: defined,
	}
}
