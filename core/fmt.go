package core

import "github.com/bitfloat/fpbv/internal/assert"

// Fmt describes an IEEE-754 binary interchange format: e exponent bits and
// s significand bits, the hidden bit included in s. Fmt values are
// immutable and comparable with ==.
type Fmt struct {
	e uint32
	s uint32
}

// NewFmt builds a format descriptor. e and s must each be at least 2; this
// is a precondition, not a value the kernel can be asked to round-trip
// through adversarial SMT input (the surrounding type-checker rejects
// smaller formats before bit-blasting ever sees them).
func NewFmt(e, s uint32) Fmt {
	assert.Holds(e >= 2, "exponent width must be >= 2, got %d", e)
	assert.Holds(s >= 2, "significand width must be >= 2, got %d", s)
	return Fmt{e: e, s: s}
}

// Fmt32 and Fmt64 are the two standard IEEE interchange formats.
var (
	Fmt32 = NewFmt(8, 24)
	Fmt64 = NewFmt(11, 53)
)

func (f Fmt) E() uint32 { return f.e }
func (f Fmt) S() uint32 { return f.s }

// PackedWidth is the width of the packed interchange encoding, e+s.
func (f Fmt) PackedWidth() uint32 { return f.e + f.s }

// Bias is 2^(e-1) - 1, the exponent bias.
func (f Fmt) Bias() int64 { return (int64(1) << (f.e - 1)) - 1 }

// MaxNormalExp and MinNormalExp bound the unbiased exponent of normal
// values.
func (f Fmt) MaxNormalExp() int64 { return f.Bias() }
func (f Fmt) MinNormalExp() int64 { return 1 - f.Bias() }

// MaxSubnormalExp and MinSubnormalExp bound the unbiased exponent of
// subnormal values.
func (f Fmt) MaxSubnormalExp() int64 { return -f.Bias() }
func (f Fmt) MinSubnormalExp() int64 { return -f.Bias() - int64(f.s-2) }

// UnpackedExpWidth computes E(e,s): the smallest width that can hold
// values in [minSubnormalExponent, maxNormalExponent].
func (f Fmt) UnpackedExpWidth() uint32 {
	need := (int64(1)<<(f.e-1) - 2) + int64(f.s-1)
	w := uint32(1)
	for (int64(1) << (w - 1)) < need {
		w++
	}
	return w
}

// DefaultSig is the significand value reused by NaN/Inf/Zero (1.0 in the
// unpacked representation: MSB set, rest clear).
func (f Fmt) DefaultSig() uint64 { return uint64(1) << (f.s - 1) }

// Less gives the total order on formats: (e, s) lexicographic.
func (f Fmt) Less(g Fmt) bool {
	if f.e != g.e {
		return f.e < g.e
	}
	return f.s < g.s
}

func (f Fmt) String() string {
	return "Fmt(" + itoa(f.e) + "," + itoa(f.s) + ")"
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
