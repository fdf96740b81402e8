package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfloat/fpbv/backend/concrete"
	"github.com/bitfloat/fpbv/core"
)

// TestFmaEndToEndScenario exercises the fused path on small exact sums:
// fma(1,1,1) = 1*1+1 = 2.0 and fma(1,2,1) = 1*2+1 = 3.0.
func TestFmaEndToEndScenario(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()
	f := core.Fmt32

	one := hex32(be, 0x3f800000)
	two := hex32(be, 0x40000000)

	result := Fma(be, f, be.ConstRM(core.RNE), one, one, one)
	assert.Equal(uint32(0x40000000), toHex32(be, result), "fma(1,1,1) = 2.0")

	result = Fma(be, f, be.ConstRM(core.RNE), one, two, one)
	assert.Equal(uint32(0x40400000), toHex32(be, result), "fma(1,2,1) = 3.0")
}

// TestFmaInfTimesZeroBoundary covers fma(rm, +Inf, 0, x) = NaN regardless
// of x, since it composes Mul (which makes +Inf*0 = NaN) with Add.
func TestFmaInfTimesZeroBoundary(t *testing.T) {
	assert := require.New(t)
	be := concrete.New()
	f := core.Fmt32

	posInf := hex32(be, 0x7f800000)
	zero := hex32(be, 0x00000000)
	for _, x := range []uint32{0x3f800000, 0x00000000, 0x7f800000, 0xbf800000} {
		result := Fma(be, f, be.ConstRM(core.RNE), posInf, zero, hex32(be, x))
		assert.True(propVal(result.NaN), "fma(+Inf,0,%#x) must be NaN", x)
	}
}
