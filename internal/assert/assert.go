// Package assert implements the kernel's single precondition-checking
// discipline: a checked contract violation aborts the process rather than
// propagating an error value, because it can only be triggered by a bug in
// the caller, never by adversarial but well-typed SMT input.
package assert

import (
	"fmt"

	"github.com/bitfloat/fpbv/logger"
)

// Holds panics with a formatted message if cond is false. Every call site
// documents, in its message, the contract it is enforcing. The violation
// is logged before the panic so it is visible even when a caller recovers.
func Holds(cond bool, format string, args ...interface{}) {
	if !cond {
		msg := fmt.Sprintf("fpbv: contract violation: "+format, args...)
		l := logger.With("assert")
		l.Error().Msg(msg)
		panic(msg)
	}
}

// SameWidth panics unless both widths are equal. Binary bit-vector
// operators require their operands to agree on width; a mismatch can only
// be a caller bug.
func SameWidth(a, b uint32) {
	Holds(a == b, "width mismatch: %d != %d", a, b)
}
