package bv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfloat/fpbv/backend/concrete"
	"github.com/bitfloat/fpbv/core"
)

func ubv(be concrete.Backend, w uint32, v int64) core.UBV {
	return be.ConstUBV(w, big.NewInt(v))
}

func sbv(be concrete.Backend, w uint32, v int64) core.SBV {
	return be.ConstSBV(w, big.NewInt(v))
}

func ubvVal(u core.UBV) int64 { return u.H.(*big.Int).Int64() }

// sbvVal reinterprets the backend's unsigned-mod-2^W storage of an SBV as
// a two's-complement signed value (backend/concrete stores SBV handles
// the same way it stores UBV ones, masked non-negative).
func sbvVal(s core.SBV) int64 {
	v := s.H.(*big.Int)
	top := new(big.Int).Lsh(big.NewInt(1), uint(s.W-1))
	if v.Cmp(top) >= 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(s.W))
		return new(big.Int).Sub(v, full).Int64()
	}
	return v.Int64()
}

func propVal(p core.Prop) bool { return p.H.(bool) }

func TestCollarUClampsIntoRange(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	lo, hi := ubv(be, 8, 10), ubv(be, 8, 20)
	assert.Equal(int64(10), ubvVal(CollarU(be, ubv(be, 8, 3), lo, hi)), "below range clamps to lo")
	assert.Equal(int64(20), ubvVal(CollarU(be, ubv(be, 8, 30), lo, hi)), "above range clamps to hi")
	assert.Equal(int64(15), ubvVal(CollarU(be, ubv(be, 8, 15), lo, hi)), "inside range passes through")
}

func TestCollarSClampsIntoRange(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	lo, hi := sbv(be, 8, -5), sbv(be, 8, 5)
	assert.Equal(int64(-5), sbvVal(CollarS(be, sbv(be, 8, -20), lo, hi)), "below range clamps to lo")
	assert.Equal(int64(5), sbvVal(CollarS(be, sbv(be, 8, 20), lo, hi)), "above range clamps to hi")
	assert.Equal(int64(0), sbvVal(CollarS(be, sbv(be, 8, 0), lo, hi)), "inside range passes through")
}

func TestOrderEncodeBuildsUnaryMask(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	assert.Equal(int64(0), ubvVal(OrderEncode(be, ubv(be, 4, 0), 8)), "k=0 masks nothing")
	assert.Equal(int64(0b111), ubvVal(OrderEncode(be, ubv(be, 4, 3), 8)), "k=3 masks low 3 bits")
	assert.Equal(int64(0xff), ubvVal(OrderEncode(be, ubv(be, 4, 8), 8)), "k=w masks everything")
}

func TestRightShiftStickyBitDetectsDiscardedSetBits(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	assert.False(propVal(RightShiftStickyBit(be, ubv(be, 8, 0b10000000), ubv(be, 8, 1))), "shifting out only zero bits is not sticky")
	assert.True(propVal(RightShiftStickyBit(be, ubv(be, 8, 0b00000011), ubv(be, 8, 1))), "shifting out a set bit is sticky")
	assert.False(propVal(RightShiftStickyBit(be, ubv(be, 8, 0b00000010), ubv(be, 8, 1))), "shifting out a clear bit only is not sticky")
}

func TestStickyShiftRightUMatchesShiftAndSticky(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	shifted, sticky := StickyShiftRightU(be, ubv(be, 8, 0b10110101), ubv(be, 8, 2))
	assert.Equal(int64(0b00101101), ubvVal(shifted), "logical shift right by 2")
	assert.True(propVal(sticky), "low 2 discarded bits include a set bit")
}

func TestConditionalCombinators(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	assert.Equal(int64(-5), sbvVal(ConditionalNegate(be, be.ConstProp(true), sbv(be, 8, 5))), "negate when true")
	assert.Equal(int64(5), sbvVal(ConditionalNegate(be, be.ConstProp(false), sbv(be, 8, 5))), "pass through when false")

	assert.Equal(int64(6), ubvVal(ConditionalIncrement(be, be.ConstProp(true), ubv(be, 8, 5))), "increment when true")
	assert.Equal(int64(5), ubvVal(ConditionalIncrement(be, be.ConstProp(false), ubv(be, 8, 5))), "pass through when false")

	assert.Equal(int64(4), ubvVal(ConditionalDecrement(be, be.ConstProp(true), ubv(be, 8, 5))), "decrement when true")
	assert.Equal(int64(10), ubvVal(ConditionalLeftShiftOne(be, be.ConstProp(true), ubv(be, 8, 5))), "shift left when true")
	assert.Equal(int64(2), ubvVal(ConditionalRightShiftOne(be, be.ConstProp(true), ubv(be, 8, 5))), "shift right when true")
}

func TestConditionalShiftU(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	x := ubv(be, 8, 0b00000101)
	amt := ubv(be, 8, 2)
	assert.Equal(int64(0b00010100), ubvVal(ConditionalShiftU(be, be.ConstProp(true), x, amt, true)), "left shift applied")
	assert.Equal(int64(0b00000001), ubvVal(ConditionalShiftU(be, be.ConstProp(true), x, amt, false)), "right shift applied")
	assert.Equal(int64(0b00000101), ubvVal(ConditionalShiftU(be, be.ConstProp(false), x, amt, true)), "unapplied when p false")
}

func TestMinMaxU(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	a, b := ubv(be, 8, 3), ubv(be, 8, 9)
	assert.Equal(int64(9), ubvVal(MaxU(be, a, b)))
	assert.Equal(int64(3), ubvVal(MinU(be, a, b)))
}

func TestMinMaxS(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	a, b := sbv(be, 8, -3), sbv(be, 8, 9)
	assert.Equal(int64(9), sbvVal(MaxS(be, a, b)))
	assert.Equal(int64(-3), sbvVal(MinS(be, a, b)))
}

func TestAbsS(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()

	assert.Equal(int64(5), sbvVal(AbsS(be, sbv(be, 8, -5))), "negative becomes positive")
	assert.Equal(int64(5), sbvVal(AbsS(be, sbv(be, 8, 5))), "positive stays positive")
	assert.Equal(int64(0), sbvVal(AbsS(be, sbv(be, 8, 0))), "zero stays zero")
}
