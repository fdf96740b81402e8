// Package bv implements the width-polymorphic bit-vector helpers the
// kernel's operation encoders are built from: collaring, order
// encoding, sticky shifting, conditional branch-free combinators, and
// min/max/abs. Every helper takes a core.Backend first.
package bv

import (
	"math/big"

	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/internal/assert"
)

// CollarU clamps x into [lo, hi] (unsigned). Collar never branches on x:
// it is built from two Ite calls driven by comparisons, so it compiles
// the same way whether x is a literal or a symbolic handle.
func CollarU(be core.Backend, x, lo, hi core.UBV) core.UBV {
	assert.SameWidth(x.W, lo.W)
	assert.SameWidth(x.W, hi.W)
	clampedLow := be.IteUBV(be.LtU(x, lo), lo, x)
	return be.IteUBV(be.LtU(hi, clampedLow), hi, clampedLow)
}

// CollarS is CollarU's signed counterpart.
func CollarS(be core.Backend, x, lo, hi core.SBV) core.SBV {
	assert.SameWidth(x.W, lo.W)
	assert.SameWidth(x.W, hi.W)
	clampedLow := be.IteSBV(be.LtS(x, lo), lo, x)
	return be.IteSBV(be.LtS(hi, clampedLow), hi, clampedLow)
}

// OrderEncode builds the width-w unsigned bit vector with value
// (1 << k) - 1: a unary mask of the low k bits, used to build shift
// masks. k ranges over [0, w]; the result for k == w is AllOnes.
func OrderEncode(be core.Backend, k core.UBV, w uint32) core.UBV {
	one := be.OneUBV(w)
	kw := widenTo(be, k, w)
	shifted := be.ShlU(one, kw)
	return be.SubU(shifted, one)
}

func widenTo(be core.Backend, x core.UBV, w uint32) core.UBV {
	if x.W == w {
		return x
	}
	assert.Holds(x.W < w, "widenTo: target width %d smaller than source %d", w, x.W)
	return be.ZeroExtend(x, w)
}

// RightShiftStickyBit is 1 iff right-shifting x by amt would discard at
// least one set bit: the logical OR of every bit that the shift would
// push out, needed for correct rounding.
func RightShiftStickyBit(be core.Backend, x core.UBV, amt core.UBV) core.Prop {
	w := x.W
	mask := OrderEncode(be, widenTo(be, amt, w), w)
	discarded := be.AndU(x, mask)
	return be.Not(be.EqU(discarded, be.ZeroUBV(w)))
}

// StickyShiftRightU shifts x right by amt (logical) and also returns
// RightShiftStickyBit(x, amt), so callers performing the sticky right
// shift the rounder and the operation encoders perform get both results from one call.
func StickyShiftRightU(be core.Backend, x core.UBV, amt core.UBV) (core.UBV, core.Prop) {
	sticky := RightShiftStickyBit(be, x, amt)
	shifted := be.ShrU(x, widenTo(be, amt, x.W))
	return shifted, sticky
}

// ConditionalNegate returns -x if p holds, else x.
func ConditionalNegate(be core.Backend, p core.Prop, x core.SBV) core.SBV {
	return be.IteSBV(p, be.NegS(x), x)
}

// ConditionalNegateU is ConditionalNegate's unsigned (two's-complement
// bit pattern) counterpart, used when the kernel is negating a magnitude
// represented as an unsigned significand.
func ConditionalNegateU(be core.Backend, p core.Prop, x core.UBV) core.UBV {
	return be.IteUBV(p, be.NegU(x), x)
}

// ConditionalIncrement returns x+1 if p holds, else x.
func ConditionalIncrement(be core.Backend, p core.Prop, x core.UBV) core.UBV {
	return be.IteUBV(p, be.AddU(x, be.OneUBV(x.W)), x)
}

// ConditionalDecrement returns x-1 if p holds, else x.
func ConditionalDecrement(be core.Backend, p core.Prop, x core.UBV) core.UBV {
	return be.IteUBV(p, be.SubU(x, be.OneUBV(x.W)), x)
}

// ConditionalLeftShiftOne returns x<<1 if p holds, else x.
func ConditionalLeftShiftOne(be core.Backend, p core.Prop, x core.UBV) core.UBV {
	return be.IteUBV(p, be.ShlU(x, be.OneUBV(x.W)), x)
}

// ConditionalRightShiftOne returns x>>1 (logical) if p holds, else x.
func ConditionalRightShiftOne(be core.Backend, p core.Prop, x core.UBV) core.UBV {
	return be.IteUBV(p, be.ShrU(x, be.OneUBV(x.W)), x)
}

// ConditionalShiftU returns x<<amt if left, else x>>amt (logical), but
// only when p holds; otherwise x unchanged — a single branch-free gadget
// covering the common "shift only if this case applies" pattern used
// throughout the rounder and the addition core.
func ConditionalShiftU(be core.Backend, p core.Prop, x core.UBV, amt core.UBV, left bool) core.UBV {
	var shifted core.UBV
	if left {
		shifted = be.ShlU(x, widenTo(be, amt, x.W))
	} else {
		shifted = be.ShrU(x, widenTo(be, amt, x.W))
	}
	return be.IteUBV(p, shifted, x)
}

// MaxU returns the larger of x, y (unsigned).
func MaxU(be core.Backend, x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return be.IteUBV(be.LtU(x, y), y, x)
}

// MinU returns the smaller of x, y (unsigned).
func MinU(be core.Backend, x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return be.IteUBV(be.LtU(x, y), x, y)
}

// MaxS returns the larger of x, y (signed).
func MaxS(be core.Backend, x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	return be.IteSBV(be.LtS(x, y), y, x)
}

// MinS returns the smaller of x, y (signed).
func MinS(be core.Backend, x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	return be.IteSBV(be.LtS(x, y), x, y)
}

// AbsS returns the absolute value of x, a width-preserving operation
// (the caller is responsible for having left enough headroom that
// negating the minimum representable value does not overflow, the way
// every operation encoder pads one carry bit before reaching for Abs).
func AbsS(be core.Backend, x core.SBV) core.SBV {
	neg := be.LtS(x, core.SBV{W: x.W, H: be.ConstSBV(x.W, big.NewInt(0)).H})
	return ConditionalNegate(be, neg, x)
}
