package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHoldsPassesThroughWhenTrue checks Holds is a no-op when its
// condition holds.
func TestHoldsPassesThroughWhenTrue(t *testing.T) {
	assert := require.New(t)
	assert.NotPanics(func() { Holds(true, "unreachable: %d", 1) })
}

// TestHoldsPanicsWhenFalse checks Holds aborts with a formatted contract
// message when its condition fails.
func TestHoldsPanicsWhenFalse(t *testing.T) {
	assert := require.New(t)
	assert.PanicsWithValue("fpbv: contract violation: width must be 4, got 5", func() {
		Holds(false, "width must be %d, got %d", 4, 5)
	})
}

// TestSameWidthPassesThroughWhenEqual checks SameWidth is a no-op when
// both widths agree.
func TestSameWidthPassesThroughWhenEqual(t *testing.T) {
	assert := require.New(t)
	assert.NotPanics(func() { SameWidth(8, 8) })
}

// TestSameWidthPanicsWhenUnequal checks SameWidth aborts on a width
// mismatch, the precondition every binary bit-vector operator relies on.
func TestSameWidthPanicsWhenUnequal(t *testing.T) {
	assert := require.New(t)
	assert.Panics(func() { SameWidth(8, 16) })
}
