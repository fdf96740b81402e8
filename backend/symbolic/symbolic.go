package symbolic

import (
	"math/big"

	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/internal/assert"
)

// Backend is the symbolic term-builder instantiation of core.Backend. It
// holds only a reference to the caller's NodeBuilder: no mutable state of
// its own, so no operation can be cancelled and there is no shared
// mutable state beyond the external DAG.
type Backend struct {
	NB NodeBuilder
}

// New wraps a NodeBuilder as a core.Backend.
func New(nb NodeBuilder) Backend { return Backend{NB: nb} }

func node(h core.Handle) Node { return h.(Node) }

func (b Backend) ConstUBV(w uint32, v *big.Int) core.UBV {
	return core.UBV{W: w, H: b.NB.BVConst(w, v)}
}

func (b Backend) ConstSBV(w uint32, v *big.Int) core.SBV {
	full := new(big.Int).Lsh(big.NewInt(1), uint(w))
	r := new(big.Int).Mod(v, full)
	return core.SBV{W: w, H: b.NB.BVConst(w, r)}
}

func (b Backend) ConstProp(v bool) core.Prop { return core.Prop{H: b.NB.BoolConst(v)} }

// ConstRM folds a rounding-mode constant straight to its bit pattern
//"-style
// constant folding): there is no disabled literal-construction branch
// here, just a direct constant.
func (b Backend) ConstRM(rm core.RM) core.RMV {
	return core.RMV{H: b.NB.BVConst(5, big.NewInt(int64(rm)))}
}

func (b Backend) ZeroUBV(w uint32) core.UBV    { return b.ConstUBV(w, big.NewInt(0)) }
func (b Backend) OneUBV(w uint32) core.UBV     { return b.ConstUBV(w, big.NewInt(1)) }
func (b Backend) AllOnesUBV(w uint32) core.UBV {
	m := new(big.Int).Lsh(big.NewInt(1), uint(w))
	m.Sub(m, big.NewInt(1))
	return b.ConstUBV(w, m)
}

func (b Backend) Extract(x core.UBV, hi, lo uint32) core.UBV {
	assert.Holds(hi < x.W && lo <= hi, "extract out of range: [%d:%d] of width %d", hi, lo, x.W)
	return core.UBV{W: hi - lo + 1, H: b.NB.Extract(node(x.H), hi, lo)}
}

func (b Backend) Concat(hi, lo core.UBV) core.UBV {
	return core.UBV{W: hi.W + lo.W, H: b.NB.Concat(node(hi.H), node(lo.H))}
}

func (b Backend) ZeroExtend(x core.UBV, w uint32) core.UBV {
	assert.Holds(w >= x.W, "zero-extend to smaller width: %d -> %d", x.W, w)
	return core.UBV{W: w, H: b.NB.ZeroExtend(node(x.H), w)}
}

func (b Backend) SignExtend(x core.SBV, w uint32) core.SBV {
	assert.Holds(w >= x.W, "sign-extend to smaller width: %d -> %d", x.W, w)
	return core.SBV{W: w, H: b.NB.SignExtend(node(x.H), w)}
}

func (b Backend) AsUBV(x core.SBV) core.UBV { return core.UBV{W: x.W, H: x.H} }
func (b Backend) AsSBV(x core.UBV) core.SBV { return core.SBV{W: x.W, H: x.H} }

func (b Backend) AddU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpAdd, x.W, node(x.H), node(y.H))}
}

func (b Backend) SubU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpSub, x.W, node(x.H), node(y.H))}
}

func (b Backend) MulU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpMul, x.W, node(x.H), node(y.H))}
}

func (b Backend) NegU(x core.UBV) core.UBV {
	return core.UBV{W: x.W, H: b.NB.BVOp(OpNeg, x.W, node(x.H))}
}

func (b Backend) AddS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	return core.SBV{W: x.W, H: b.NB.BVOp(OpAdd, x.W, node(x.H), node(y.H))}
}

func (b Backend) SubS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	return core.SBV{W: x.W, H: b.NB.BVOp(OpSub, x.W, node(x.H), node(y.H))}
}

func (b Backend) MulS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	return core.SBV{W: x.W, H: b.NB.BVOp(OpMul, x.W, node(x.H), node(y.H))}
}

func (b Backend) NegS(x core.SBV) core.SBV {
	return core.SBV{W: x.W, H: b.NB.BVOp(OpNeg, x.W, node(x.H))}
}

func (b Backend) ShlU(x, amt core.UBV) core.UBV {
	assert.SameWidth(x.W, amt.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpShl, x.W, node(x.H), node(amt.H))}
}

func (b Backend) ShrU(x, amt core.UBV) core.UBV {
	assert.SameWidth(x.W, amt.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpLshr, x.W, node(x.H), node(amt.H))}
}

func (b Backend) ShrS(x core.SBV, amt core.UBV) core.SBV {
	assert.SameWidth(x.W, amt.W)
	return core.SBV{W: x.W, H: b.NB.BVOp(OpAshr, x.W, node(x.H), node(amt.H))}
}

func (b Backend) AndU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpAnd, x.W, node(x.H), node(y.H))}
}

func (b Backend) OrU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpOr, x.W, node(x.H), node(y.H))}
}

func (b Backend) XorU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: b.NB.BVOp(OpXor, x.W, node(x.H), node(y.H))}
}

func (b Backend) NotU(x core.UBV) core.UBV {
	return core.UBV{W: x.W, H: b.NB.BVOp(OpNot, x.W, node(x.H))}
}

func (b Backend) LtU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpLtU, 1, node(x.H), node(y.H))}
}

func (b Backend) LeU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpLeU, 1, node(x.H), node(y.H))}
}

func (b Backend) LtS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpLtS, 1, node(x.H), node(y.H))}
}

func (b Backend) LeS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpLeS, 1, node(x.H), node(y.H))}
}

func (b Backend) EqU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpEq, 1, node(x.H), node(y.H))}
}

func (b Backend) EqS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: b.NB.BVOp(OpEq, 1, node(x.H), node(y.H))}
}

func (b Backend) Not(p core.Prop) core.Prop    { return core.Prop{H: b.NB.Not(node(p.H))} }
func (b Backend) And(p, q core.Prop) core.Prop { return core.Prop{H: b.NB.And(node(p.H), node(q.H))} }
func (b Backend) Or(p, q core.Prop) core.Prop  { return core.Prop{H: b.NB.Or(node(p.H), node(q.H))} }
func (b Backend) XorP(p, q core.Prop) core.Prop {
	return core.Prop{H: b.NB.Xor(node(p.H), node(q.H))}
}

// EqP prefers semantic proposition equality to a width-1 bit-vector
// comparison (preferring semantic equality over emitting a
// BITVECTOR_COMP node), implemented as XNOR.
func (b Backend) EqP(p, q core.Prop) core.Prop {
	return b.Not(b.XorP(p, q))
}

func (b Backend) IteProp(c core.Prop, t, e core.Prop) core.Prop {
	return core.Prop{H: b.NB.Ite(node(c.H), node(t.H), node(e.H))}
}

func (b Backend) IteUBV(c core.Prop, t, e core.UBV) core.UBV {
	assert.SameWidth(t.W, e.W)
	return core.UBV{W: t.W, H: b.NB.Ite(node(c.H), node(t.H), node(e.H))}
}

func (b Backend) IteSBV(c core.Prop, t, e core.SBV) core.SBV {
	assert.SameWidth(t.W, e.W)
	return core.SBV{W: t.W, H: b.NB.Ite(node(c.H), node(t.H), node(e.H))}
}

func (b Backend) IteRM(c core.Prop, t, e core.RMV) core.RMV {
	return core.RMV{H: b.NB.Ite(node(c.H), node(t.H), node(e.H))}
}

func (b Backend) RMBit(v core.RMV, rm core.RM) core.Prop {
	bit := b.Extract(core.UBV{W: 5, H: v.H}, bitIndex(rm), bitIndex(rm))
	return b.EqU(bit, b.OneUBV(1))
}

func bitIndex(rm core.RM) uint32 {
	switch rm {
	case core.RNE:
		return 0
	case core.RNA:
		return 1
	case core.RTP:
		return 2
	case core.RTN:
		return 3
	default: // RTZ
		return 4
	}
}

// ProbabilityAnnotation is the one place the symbolic back-end is
// permitted to do something the concrete back-end does not: attach a
// solver hint. This reference implementation has no metadata channel of
// its own, so it is a pass-through; a real node manager can intercept it
// by wrapping NodeBuilder.
func (b Backend) ProbabilityAnnotation(p core.Prop, _ core.Likeliness) core.Prop {
	return p
}
