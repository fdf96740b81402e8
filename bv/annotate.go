package bv

import "github.com/bitfloat/fpbv/core"

// Annotate is a thin wrapper over core.Backend.ProbabilityAnnotation,
// kept in this package so callers reach for bv.Annotate the same way they
// reach for the rest of the bit-vector helpers.
func Annotate(be core.Backend, p core.Prop, hint core.Likeliness) core.Prop {
	return be.ProbabilityAnnotation(p, hint)
}
