package core

import "math/big"

// Backend is the trait every kernel operation is parameterised over.
// It supplies propositions, signed and unsigned bit vectors of
// arbitrary width, a rounding-mode type, and the if-then-else combinator,
// plus every primitive bit-vector operator the encoders are built from.
//
// Exactly two conforming implementations exist in this repository:
// backend/concrete (bit vectors are literal big.Ints, propositions are
// bool) and backend/symbolic (bit vectors are handles into an external
// expression DAG). Every kernel package takes a Backend as its first
// argument.
type Backend interface {
	// --- constants ---

	ConstUBV(w uint32, v *big.Int) UBV
	ConstSBV(w uint32, v *big.Int) SBV
	ConstProp(b bool) Prop
	ConstRM(rm RM) RMV

	ZeroUBV(w uint32) UBV
	OneUBV(w uint32) UBV
	AllOnesUBV(w uint32) UBV

	// --- structural ---

	Extract(x UBV, hi, lo uint32) UBV
	Concat(hi, lo UBV) UBV
	ZeroExtend(x UBV, w uint32) UBV
	SignExtend(x SBV, w uint32) SBV
	// AsUBV/AsSBV reinterpret a signed value's bits as unsigned (and vice
	// versa) without changing width or bit pattern.
	AsUBV(x SBV) UBV
	AsSBV(x UBV) SBV

	// --- modular arithmetic ---

	AddU(x, y UBV) UBV
	SubU(x, y UBV) UBV
	MulU(x, y UBV) UBV
	NegU(x UBV) UBV
	AddS(x, y SBV) SBV
	SubS(x, y SBV) SBV
	MulS(x, y SBV) SBV
	NegS(x SBV) SBV

	// ShlU is the same bit operation regardless of signedness (modular).
	ShlU(x UBV, amt UBV) UBV
	// ShrU is a logical (zero-filling) right shift.
	ShrU(x UBV, amt UBV) UBV
	// ShrS is an arithmetic (sign-filling) right shift.
	ShrS(x SBV, amt UBV) SBV

	// --- bitwise ---

	AndU(x, y UBV) UBV
	OrU(x, y UBV) UBV
	XorU(x, y UBV) UBV
	NotU(x UBV) UBV

	// --- comparisons ---

	LtU(x, y UBV) Prop
	LeU(x, y UBV) Prop
	LtS(x, y SBV) Prop
	LeS(x, y SBV) Prop
	EqU(x, y UBV) Prop
	EqS(x, y SBV) Prop

	// --- propositions ---

	Not(p Prop) Prop
	And(p, q Prop) Prop
	Or(p, q Prop) Prop
	XorP(p, q Prop) Prop
	EqP(p, q Prop) Prop

	// --- if-then-else, one per kernel-visible type ---

	IteProp(c Prop, t, e Prop) Prop
	IteUBV(c Prop, t, e UBV) UBV
	IteSBV(c Prop, t, e SBV) SBV
	IteRM(c Prop, t, e RMV) RMV

	// --- rounding mode bit tests ---

	// RMBit tests whether the bit for rm is set in v (used to build the
	// 5-way case split every encoder needs without ever branching on rm
	// outside an Ite).
	RMBit(v RMV, rm RM) Prop

	// ProbabilityAnnotation attaches a semantics-preserving hint to p;
	// the concrete back-end ignores it, the symbolic back-end may
	// attach solver metadata.
	ProbabilityAnnotation(p Prop, hint Likeliness) Prop
}

// Likeliness is a probability annotation hint, semantically a no-op.
type Likeliness int

const (
	Likely Likeliness = iota
	Unlikely
	VeryUnlikely
)
