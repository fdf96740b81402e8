// Package ops implements one function per IEEE-754 operation:
// addition/subtraction, multiplication, fused multiply-add, division,
// square root, remainder, round-to-integral, and the conversions among
// floats, signed/unsigned bit vectors, and reals. Every encoder
// follows the same shape: compute an arithmetic result assuming normal
// inputs, round, then splice in the special-case result with a cascading
// Ite.
package ops

import (
	"github.com/bitfloat/fpbv/core"
)

// Partial models the total-function-plus-definedness-predicate pattern
// used for the IEEE-partial operations (min, max, the to-bv/to-real
// conversions). Defined is false exactly on the inputs where the IEEE
// standard leaves the result unspecified; Value is still a well-formed
// total-function result on those inputs (the caller-supplied
// "undefined-case" value), never an error.
type Partial[T any] struct {
	Value   T
	Defined core.Prop
}
