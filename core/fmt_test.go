package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFmt32Fmt64Dimensions checks the two standard interchange formats
// against their well-known e/s widths.
func TestFmt32Fmt64Dimensions(t *testing.T) {
	assert := require.New(t)

	assert.Equal(uint32(8), Fmt32.E())
	assert.Equal(uint32(24), Fmt32.S())
	assert.Equal(uint32(32), Fmt32.PackedWidth())

	assert.Equal(uint32(11), Fmt64.E())
	assert.Equal(uint32(53), Fmt64.S())
	assert.Equal(uint32(64), Fmt64.PackedWidth())
}

// TestFmt32Bias checks the exponent bias and normal/subnormal exponent
// bounds against the well-known binary32 constants.
func TestFmt32Bias(t *testing.T) {
	assert := require.New(t)

	assert.Equal(int64(127), Fmt32.Bias())
	assert.Equal(int64(127), Fmt32.MaxNormalExp())
	assert.Equal(int64(-126), Fmt32.MinNormalExp())
	assert.Equal(int64(-127), Fmt32.MaxSubnormalExp())
	assert.Equal(int64(-149), Fmt32.MinSubnormalExp())
}

// TestDefaultSigIsOneOverlap checks DefaultSig sets only the hidden-bit
// position, the unpacked significand for 1.0.
func TestDefaultSigIsOneOverlap(t *testing.T) {
	assert := require.New(t)

	assert.Equal(uint64(1)<<23, Fmt32.DefaultSig())
	assert.Equal(uint64(1)<<52, Fmt64.DefaultSig())
}

// TestUnpackedExpWidth checks E(e,s) against its known minimal widths for
// the two standard interchange formats.
func TestUnpackedExpWidth(t *testing.T) {
	assert := require.New(t)

	assert.Equal(uint32(9), Fmt32.UnpackedExpWidth())
	assert.Equal(uint32(12), Fmt64.UnpackedExpWidth())
}

// TestFmtLess checks the lexicographic (e, s) total order.
func TestFmtLess(t *testing.T) {
	assert := require.New(t)

	assert.True(NewFmt(4, 8).Less(NewFmt(5, 8)), "smaller e sorts first")
	assert.True(NewFmt(4, 8).Less(NewFmt(4, 9)), "equal e, smaller s sorts first")
	assert.False(NewFmt(4, 8).Less(NewFmt(4, 8)), "equal formats are not less")
}

// TestFmtString checks the human-readable rendering used in test failure
// messages and logging.
func TestFmtString(t *testing.T) {
	assert := require.New(t)

	assert.Equal("Fmt(8,24)", Fmt32.String())
	assert.Equal("Fmt(11,53)", Fmt64.String())
}

// TestNewFmtRejectsNarrowFormats checks the e,s >= 2 precondition aborts
// via internal/assert rather than silently constructing a malformed
// format.
func TestNewFmtRejectsNarrowFormats(t *testing.T) {
	assert := require.New(t)

	assert.Panics(func() { NewFmt(1, 8) }, "exponent width below 2 must panic")
	assert.Panics(func() { NewFmt(8, 1) }, "significand width below 2 must panic")
}
