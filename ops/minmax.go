package ops

import (
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// Min and Max implement the IEEE-partial minimum/maximum: defined
// everywhere except when both operands are zero with differing signs
// (min(+0,-0) and max(+0,-0) are each one of two equally valid answers
// under the standard, so the kernel leaves them to the caller-supplied
// undefined-case value) or either operand is NaN.

// Min returns the smaller of a, b (undefinedVal on a NaN operand or on
// the ±0 tie).
func Min(be core.Backend, a, b unpacked.Unpacked, undefinedVal unpacked.Unpacked) Partial[unpacked.Unpacked] {
	cmp := Compare(be, a, b)
	zeroTie := be.And(be.And(a.Zero, b.Zero), be.Not(be.EqP(a.Sign, b.Sign)))
	invalid := be.Or(be.Not(cmp.Defined), zeroTie)

	result := unpacked.Ite(be, cmp.Value.Less, a, b)
	result = unpacked.Ite(be, invalid, undefinedVal, result)
	return Partial[unpacked.Unpacked]{Value: result, Defined: be.Not(invalid)}
}

// Max returns the larger of a, b (undefinedVal on a NaN operand or on
// the ±0 tie).
func Max(be core.Backend, a, b unpacked.Unpacked, undefinedVal unpacked.Unpacked) Partial[unpacked.Unpacked] {
	cmp := Compare(be, a, b)
	zeroTie := be.And(be.And(a.Zero, b.Zero), be.Not(be.EqP(a.Sign, b.Sign)))
	invalid := be.Or(be.Not(cmp.Defined), zeroTie)

	result := unpacked.Ite(be, cmp.Value.Greater, a, b)
	result = unpacked.Ite(be, invalid, undefinedVal, result)
	return Partial[unpacked.Unpacked]{Value: result, Defined: be.Not(invalid)}
}
