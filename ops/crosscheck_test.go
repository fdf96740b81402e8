package ops

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfloat/fpbv/backend/concrete"
	"github.com/bitfloat/fpbv/backend/symbolic"
	"github.com/bitfloat/fpbv/core"
	"github.com/bitfloat/fpbv/unpacked"
)

// evalNode is an eagerly-evaluated symbolic.Node: either a masked unsigned
// bit-vector value with its width, or a boolean proposition. It lets
// symbolic.NodeBuilder be implemented by just computing the answer on the
// spot instead of building a DAG, so the same kernel call run through
// backend/symbolic can be checked against backend/concrete bit-for-bit
// (Testable Property 9).
type evalNode struct {
	isBool bool
	b      bool
	w      uint32
	v      *big.Int
}

func evNum(w uint32, v *big.Int) *evalNode {
	full := new(big.Int).Lsh(big.NewInt(1), uint(w))
	return &evalNode{w: w, v: new(big.Int).Mod(v, full)}
}

func evBool(b bool) *evalNode { return &evalNode{isBool: true, b: b} }

func asEv(n symbolic.Node) *evalNode { return n.(*evalNode) }

func evSigned(n *evalNode) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), uint(n.w-1))
	if n.v.Cmp(half) < 0 {
		return new(big.Int).Set(n.v)
	}
	full := new(big.Int).Lsh(big.NewInt(1), uint(n.w))
	return new(big.Int).Sub(n.v, full)
}

// eagerBuilder implements symbolic.NodeBuilder by evaluating every node as
// soon as it is built, mirroring backend/concrete's arithmetic exactly.
type eagerBuilder struct{}

func (eagerBuilder) BVConst(w uint32, v *big.Int) symbolic.Node { return evNum(w, v) }
func (eagerBuilder) BoolConst(b bool) symbolic.Node              { return evBool(b) }

func (eagerBuilder) BVOp(op symbolic.Op, w uint32, args ...symbolic.Node) symbolic.Node {
	x := asEv(args[0])
	switch op {
	case symbolic.OpNeg:
		return evNum(w, new(big.Int).Neg(x.v))
	case symbolic.OpNot:
		full := new(big.Int).Lsh(big.NewInt(1), uint(w))
		mask := new(big.Int).Sub(full, big.NewInt(1))
		return evNum(w, new(big.Int).Xor(x.v, mask))
	}
	y := asEv(args[1])
	switch op {
	case symbolic.OpAdd:
		return evNum(w, new(big.Int).Add(x.v, y.v))
	case symbolic.OpSub:
		return evNum(w, new(big.Int).Sub(x.v, y.v))
	case symbolic.OpMul:
		return evNum(w, new(big.Int).Mul(x.v, y.v))
	case symbolic.OpShl:
		return evNum(w, new(big.Int).Lsh(x.v, uint(y.v.Uint64())))
	case symbolic.OpLshr:
		sh := y.v.Uint64()
		if sh >= uint64(x.w) {
			return evNum(w, big.NewInt(0))
		}
		return evNum(w, new(big.Int).Rsh(x.v, uint(sh)))
	case symbolic.OpAshr:
		sh := y.v.Uint64()
		signedX := evSigned(x)
		if sh >= uint64(x.w) {
			if signedX.Sign() < 0 {
				return evNum(w, big.NewInt(-1))
			}
			return evNum(w, big.NewInt(0))
		}
		return evNum(w, new(big.Int).Rsh(signedX, uint(sh)))
	case symbolic.OpAnd:
		return evNum(w, new(big.Int).And(x.v, y.v))
	case symbolic.OpOr:
		return evNum(w, new(big.Int).Or(x.v, y.v))
	case symbolic.OpXor:
		return evNum(w, new(big.Int).Xor(x.v, y.v))
	case symbolic.OpLtU:
		return evBool(x.v.Cmp(y.v) < 0)
	case symbolic.OpLeU:
		return evBool(x.v.Cmp(y.v) <= 0)
	case symbolic.OpLtS:
		return evBool(evSigned(x).Cmp(evSigned(y)) < 0)
	case symbolic.OpLeS:
		return evBool(evSigned(x).Cmp(evSigned(y)) <= 0)
	case symbolic.OpEq:
		return evBool(x.v.Cmp(y.v) == 0)
	}
	panic("eagerBuilder: unhandled op")
}

func (eagerBuilder) Extract(x symbolic.Node, hi, lo uint32) symbolic.Node {
	n := asEv(x)
	shifted := new(big.Int).Rsh(n.v, uint(lo))
	return evNum(hi-lo+1, shifted)
}

func (eagerBuilder) Concat(hi, lo symbolic.Node) symbolic.Node {
	h, l := asEv(hi), asEv(lo)
	v := new(big.Int).Lsh(h.v, uint(l.w))
	v.Or(v, l.v)
	return evNum(h.w+l.w, v)
}

func (eagerBuilder) ZeroExtend(x symbolic.Node, w uint32) symbolic.Node {
	n := asEv(x)
	return evNum(w, n.v)
}

func (eagerBuilder) SignExtend(x symbolic.Node, w uint32) symbolic.Node {
	n := asEv(x)
	return evNum(w, evSigned(n))
}

func (eagerBuilder) Not(p symbolic.Node) symbolic.Node { return evBool(!asEv(p).b) }
func (eagerBuilder) And(p, q symbolic.Node) symbolic.Node {
	return evBool(asEv(p).b && asEv(q).b)
}
func (eagerBuilder) Or(p, q symbolic.Node) symbolic.Node {
	return evBool(asEv(p).b || asEv(q).b)
}
func (eagerBuilder) Xor(p, q symbolic.Node) symbolic.Node {
	return evBool(asEv(p).b != asEv(q).b)
}

func (eagerBuilder) Ite(cond, t, e symbolic.Node) symbolic.Node {
	if asEv(cond).b {
		return t
	}
	return e
}

func evalHex32(be symbolic.Backend, h uint32) unpacked.Unpacked {
	bv := be.ConstUBV(32, new(big.Int).SetUint64(uint64(h)))
	return unpacked.Unpack(be, core.Fmt32, bv)
}

func evalToHex32(be symbolic.Backend, u unpacked.Unpacked) uint32 {
	packed := unpacked.Pack(be, u)
	return uint32(asEv(packed.H).v.Uint64())
}

// TestSymbolicAgreesWithConcrete covers Testable Property 9: running the
// same kernel operation through backend/symbolic (here, with an eagerly
// evaluating NodeBuilder standing in for a real solver DAG) on literal
// inputs produces the same packed bit pattern as backend/concrete.
func TestSymbolicAgreesWithConcrete(t *testing.T) {
	assert := require.New(t)
	cbe := concrete.New()
	sbe := symbolic.New(eagerBuilder{})
	f := core.Fmt32

	operands := []uint32{0x3f800000, 0xbf800000, 0x40490fdb, 0x00000000, 0x80000000,
		0x7f800000, 0xff800000, 0x7fc00000, 0x00000001, 0x7f7fffff, 0x3fc00000}

	for _, a := range operands {
		for _, b := range operands {
			concreteResult := toHex32(cbe, Add(cbe, f, cbe.ConstRM(core.RNE), hex32(cbe, a), hex32(cbe, b)))
			symbolicResult := evalToHex32(sbe, Add(sbe, f, sbe.ConstRM(core.RNE), evalHex32(sbe, a), evalHex32(sbe, b)))
			assert.Equal(concreteResult, symbolicResult, "add(%#x,%#x) disagreement", a, b)

			concreteResult = toHex32(cbe, Mul(cbe, f, cbe.ConstRM(core.RNE), hex32(cbe, a), hex32(cbe, b)))
			symbolicResult = evalToHex32(sbe, Mul(sbe, f, sbe.ConstRM(core.RNE), evalHex32(sbe, a), evalHex32(sbe, b)))
			assert.Equal(concreteResult, symbolicResult, "mul(%#x,%#x) disagreement", a, b)
		}
	}

	for _, a := range operands {
		concreteResult := toHex32(cbe, Sqrt(cbe, f, cbe.ConstRM(core.RNE), hex32(cbe, a)))
		symbolicResult := evalToHex32(sbe, Sqrt(sbe, f, sbe.ConstRM(core.RNE), evalHex32(sbe, a)))
		assert.Equal(concreteResult, symbolicResult, "sqrt(%#x) disagreement", a)

		concreteResult = toHex32(cbe, RoundToIntegral(cbe, f, cbe.ConstRM(core.RNE), hex32(cbe, a)))
		symbolicResult = evalToHex32(sbe, RoundToIntegral(sbe, f, sbe.ConstRM(core.RNE), evalHex32(sbe, a)))
		assert.Equal(concreteResult, symbolicResult, "roundToIntegral(%#x) disagreement", a)
	}
}
