package round

import "github.com/bitfloat/fpbv/core"

// ExtExpWidth returns the unpacked exponent width of the extended format
// Fmt(e+1, s+2) that Extended.Exp is carried in.
func ExtExpWidth(f core.Fmt) uint32 {
	return extFmt(f).UnpackedExpWidth()
}
