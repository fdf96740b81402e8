package core

// Handle is the opaque per-back-end payload carried inside every kernel
// value: a *big.Int in backend/concrete, a Node reference into the
// external expression DAG in backend/symbolic. The kernel never inspects
// it directly — every operation on a Handle goes through the Backend
// interface.
type Handle interface{}

// UBV is an unsigned bit vector of a known width. Width is fixed at
// construction time (term-construction time, not runtime: "Width
// polymorphism").
type UBV struct {
	W uint32
	H Handle
}

// SBV is a signed bit vector of a known width.
type SBV struct {
	W uint32
	H Handle
}

// Prop is a single proposition (bit). Back-ends are free to represent it
// as a native bool (backend/concrete) or as a width-1 UBV (backend/symbolic,
// unifying Prop with a 1-bit bit vector).
type Prop struct {
	H Handle
}

// RMV is a bit-blasted rounding mode: a 5-bit one-hot unsigned bit vector
// rather than an opaque enum, so encoders can test bits directly.
type RMV struct {
	H Handle
}

func (x UBV) Width() uint32 { return x.W }
func (x SBV) Width() uint32 { return x.W }
