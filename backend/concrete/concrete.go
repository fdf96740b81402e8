// Package concrete implements core.Backend as an eager evaluator: every
// bit vector is a *big.Int masked to its declared width, every Prop is a
// bool. It is the "concrete" instantiation of the kernel: given
// literal inputs it computes the literal IEEE result directly, with no
// symbolic term ever built. Every operator reduces to big.Int
// arithmetic modulo 2^width.
package concrete

import (
	"math/big"

	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/internal/assert"
)

// Backend is the stateless concrete evaluator. Its zero value is ready to
// use; it carries no fields because concrete evaluation has no shared
// mutable state.
type Backend struct{}

// New returns a ready-to-use concrete backend.
func New() Backend { return Backend{} }

func mask(w uint32) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(w))
	m.Sub(m, big.NewInt(1))
	return m
}

func maskTo(v *big.Int, w uint32) *big.Int {
	r := new(big.Int).And(v, mask(w))
	return r
}

func big64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

func asU(h core.Handle) *big.Int { return h.(*big.Int) }
func asB(h core.Handle) bool     { return h.(bool) }

// toSigned reinterprets a w-wide unsigned value as two's complement
// signed.
func toSigned(v *big.Int, w uint32) *big.Int {
	top := new(big.Int).Lsh(big.NewInt(1), uint(w-1))
	if v.Cmp(top) >= 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(w))
		return new(big.Int).Sub(v, full)
	}
	return new(big.Int).Set(v)
}

func (Backend) ConstUBV(w uint32, v *big.Int) core.UBV {
	return core.UBV{W: w, H: maskTo(v, w)}
}

func (Backend) ConstSBV(w uint32, v *big.Int) core.SBV {
	full := new(big.Int).Lsh(big.NewInt(1), uint(w))
	r := new(big.Int).Mod(v, full)
	return core.SBV{W: w, H: r}
}

func (Backend) ConstProp(b bool) core.Prop { return core.Prop{H: b} }

func (b Backend) ConstRM(rm core.RM) core.RMV {
	return core.RMV{H: big64(uint64(rm))}
}

func (b Backend) ZeroUBV(w uint32) core.UBV    { return b.ConstUBV(w, big.NewInt(0)) }
func (b Backend) OneUBV(w uint32) core.UBV     { return b.ConstUBV(w, big.NewInt(1)) }
func (b Backend) AllOnesUBV(w uint32) core.UBV { return core.UBV{W: w, H: mask(w)} }

func (Backend) Extract(x core.UBV, hi, lo uint32) core.UBV {
	assert.Holds(hi < x.W && lo <= hi, "extract out of range: [%d:%d] of width %d", hi, lo, x.W)
	v := new(big.Int).Rsh(asU(x.H), uint(lo))
	w := hi - lo + 1
	return core.UBV{W: w, H: maskTo(v, w)}
}

func (Backend) Concat(hi, lo core.UBV) core.UBV {
	v := new(big.Int).Lsh(asU(hi.H), uint(lo.W))
	v.Or(v, asU(lo.H))
	return core.UBV{W: hi.W + lo.W, H: v}
}

func (Backend) ZeroExtend(x core.UBV, w uint32) core.UBV {
	assert.Holds(w >= x.W, "zero-extend to smaller width: %d -> %d", x.W, w)
	return core.UBV{W: w, H: new(big.Int).Set(asU(x.H))}
}

func (Backend) SignExtend(x core.SBV, w uint32) core.SBV {
	assert.Holds(w >= x.W, "sign-extend to smaller width: %d -> %d", x.W, w)
	v := toSigned(asU(x.H), x.W)
	full := new(big.Int).Lsh(big.NewInt(1), uint(w))
	r := new(big.Int).Mod(v, full)
	return core.SBV{W: w, H: r}
}

func (Backend) AsUBV(x core.SBV) core.UBV { return core.UBV{W: x.W, H: new(big.Int).Set(asU(x.H))} }
func (Backend) AsSBV(x core.UBV) core.SBV { return core.SBV{W: x.W, H: new(big.Int).Set(asU(x.H))} }

func (Backend) AddU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	v := new(big.Int).Add(asU(x.H), asU(y.H))
	return core.UBV{W: x.W, H: maskTo(v, x.W)}
}

func (Backend) SubU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	v := new(big.Int).Sub(asU(x.H), asU(y.H))
	return core.UBV{W: x.W, H: maskTo(v, x.W)}
}

func (Backend) MulU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	v := new(big.Int).Mul(asU(x.H), asU(y.H))
	return core.UBV{W: x.W, H: maskTo(v, x.W)}
}

func (b Backend) NegU(x core.UBV) core.UBV {
	return b.SubU(b.ZeroUBV(x.W), x)
}

func (b Backend) addS(x, y core.SBV, w uint32) *big.Int {
	vx := toSigned(asU(x.H), w)
	vy := toSigned(asU(y.H), w)
	return new(big.Int).Add(vx, vy)
}

func (Backend) AddS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	vx := toSigned(asU(x.H), x.W)
	vy := toSigned(asU(y.H), x.W)
	v := new(big.Int).Add(vx, vy)
	full := new(big.Int).Lsh(big.NewInt(1), uint(x.W))
	return core.SBV{W: x.W, H: new(big.Int).Mod(v, full)}
}

func (Backend) SubS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	vx := toSigned(asU(x.H), x.W)
	vy := toSigned(asU(y.H), x.W)
	v := new(big.Int).Sub(vx, vy)
	full := new(big.Int).Lsh(big.NewInt(1), uint(x.W))
	return core.SBV{W: x.W, H: new(big.Int).Mod(v, full)}
}

func (Backend) MulS(x, y core.SBV) core.SBV {
	assert.SameWidth(x.W, y.W)
	vx := toSigned(asU(x.H), x.W)
	vy := toSigned(asU(y.H), x.W)
	v := new(big.Int).Mul(vx, vy)
	full := new(big.Int).Lsh(big.NewInt(1), uint(x.W))
	return core.SBV{W: x.W, H: new(big.Int).Mod(v, full)}
}

func (b Backend) NegS(x core.SBV) core.SBV {
	return b.SubS(core.SBV{W: x.W, H: big.NewInt(0)}, x)
}

func (Backend) ShlU(x core.UBV, amt core.UBV) core.UBV {
	sh := uint(asU(amt.H).Uint64())
	v := new(big.Int).Lsh(asU(x.H), sh)
	return core.UBV{W: x.W, H: maskTo(v, x.W)}
}

func (Backend) ShrU(x core.UBV, amt core.UBV) core.UBV {
	sh := asU(amt.H).Uint64()
	if sh >= uint64(x.W) {
		return core.UBV{W: x.W, H: big.NewInt(0)}
	}
	v := new(big.Int).Rsh(asU(x.H), uint(sh))
	return core.UBV{W: x.W, H: v}
}

func (Backend) ShrS(x core.SBV, amt core.UBV) core.SBV {
	sh := asU(amt.H).Uint64()
	vx := toSigned(asU(x.H), x.W)
	if sh >= uint64(x.W) {
		if vx.Sign() < 0 {
			sh = uint64(x.W) - 1
		} else {
			return core.SBV{W: x.W, H: big.NewInt(0)}
		}
	}
	v := new(big.Int).Rsh(vx, uint(sh))
	full := new(big.Int).Lsh(big.NewInt(1), uint(x.W))
	return core.SBV{W: x.W, H: new(big.Int).Mod(v, full)}
}

func (Backend) AndU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: new(big.Int).And(asU(x.H), asU(y.H))}
}

func (Backend) OrU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: new(big.Int).Or(asU(x.H), asU(y.H))}
}

func (Backend) XorU(x, y core.UBV) core.UBV {
	assert.SameWidth(x.W, y.W)
	return core.UBV{W: x.W, H: new(big.Int).Xor(asU(x.H), asU(y.H))}
}

func (Backend) NotU(x core.UBV) core.UBV {
	return core.UBV{W: x.W, H: new(big.Int).Xor(asU(x.H), mask(x.W))}
}

func (Backend) LtU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: asU(x.H).Cmp(asU(y.H)) < 0}
}

func (Backend) LeU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: asU(x.H).Cmp(asU(y.H)) <= 0}
}

func (Backend) LtS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: toSigned(asU(x.H), x.W).Cmp(toSigned(asU(y.H), y.W)) < 0}
}

func (Backend) LeS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: toSigned(asU(x.H), x.W).Cmp(toSigned(asU(y.H), y.W)) <= 0}
}

func (Backend) EqU(x, y core.UBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: asU(x.H).Cmp(asU(y.H)) == 0}
}

func (Backend) EqS(x, y core.SBV) core.Prop {
	assert.SameWidth(x.W, y.W)
	return core.Prop{H: asU(x.H).Cmp(asU(y.H)) == 0}
}

func (Backend) Not(p core.Prop) core.Prop      { return core.Prop{H: !asB(p.H)} }
func (Backend) And(p, q core.Prop) core.Prop   { return core.Prop{H: asB(p.H) && asB(q.H)} }
func (Backend) Or(p, q core.Prop) core.Prop    { return core.Prop{H: asB(p.H) || asB(q.H)} }
func (Backend) XorP(p, q core.Prop) core.Prop  { return core.Prop{H: asB(p.H) != asB(q.H)} }
func (Backend) EqP(p, q core.Prop) core.Prop   { return core.Prop{H: asB(p.H) == asB(q.H)} }

func (Backend) IteProp(c core.Prop, t, e core.Prop) core.Prop {
	if asB(c.H) {
		return t
	}
	return e
}

func (Backend) IteUBV(c core.Prop, t, e core.UBV) core.UBV {
	assert.SameWidth(t.W, e.W)
	if asB(c.H) {
		return t
	}
	return e
}

func (Backend) IteSBV(c core.Prop, t, e core.SBV) core.SBV {
	assert.SameWidth(t.W, e.W)
	if asB(c.H) {
		return t
	}
	return e
}

func (Backend) IteRM(c core.Prop, t, e core.RMV) core.RMV {
	if asB(c.H) {
		return t
	}
	return e
}

func (Backend) RMBit(v core.RMV, rm core.RM) core.Prop {
	bits := asU(v.H).Uint64()
	return core.Prop{H: bits&uint64(rm) != 0}
}

func (Backend) ProbabilityAnnotation(p core.Prop, _ core.Likeliness) core.Prop {
	return p
}
