// Package symbolic implements core.Backend as a term builder: every bit
// vector is a Node handle into an external expression DAG, every
// operation emits one node into that DAG rather than computing a literal
// answer.
//
// The DAG itself — "the expression DAG / node manager of the surrounding
// solver" — is out of scope; this package depends on it only
// through the narrow NodeBuilder interface (the required catalogue:
// construct a bit-vector constant, construct an n-ary bit-vector
// operator, construct an if-then-else), without knowing how the solver
// stores its nodes.
package symbolic

import "math/big"

// Node is an opaque handle into the caller's expression DAG.
type Node interface{}

// Op enumerates the n-ary bit-vector operators the kernel ever needs the
// surrounding DAG to construct. Extraction, concatenation, and extension
// take explicit width parameters (carried in NodeBuilder calls) rather
// than being encoded as Op variants, because their output width is not a
// simple function of input widths.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpNeg
	OpShl
	OpLshr
	OpAshr
	OpAnd
	OpOr
	OpXor
	OpNot
	OpLtU
	OpLeU
	OpLtS
	OpLeS
	OpEq
)

// NodeBuilder is the external collaborator: a narrow interface onto the
// surrounding solver's expression DAG / node manager (out of scope for
// this module). Every constructor is assumed pure and to allocate at most one
// node.
type NodeBuilder interface {
	// BVConst builds a width-w literal bit-vector constant node.
	BVConst(w uint32, v *big.Int) Node
	// BoolConst builds a literal proposition node.
	BoolConst(b bool) Node
	// BVOp builds an n-ary bit-vector operator node of output width w.
	// Shifts are built through it too; extraction and extension, which need
	// explicit width parameters, are constructed through the dedicated
	// methods below instead.
	BVOp(op Op, w uint32, args ...Node) Node
	// Extract builds a [hi:lo] bit extraction of x.
	Extract(x Node, hi, lo uint32) Node
	// Concat builds the concatenation hi‖lo.
	Concat(hi, lo Node) Node
	// ZeroExtend/SignExtend widen x to width w.
	ZeroExtend(x Node, w uint32) Node
	SignExtend(x Node, w uint32) Node
	// Not builds the propositional negation of p.
	Not(p Node) Node
	// And/Or/Xor build propositional connectives.
	And(p, q Node) Node
	Or(p, q Node) Node
	Xor(p, q Node) Node
	// Ite builds an if-then-else node over any sort (bit vector or
	// proposition); the node manager is expected to dispatch on the sort
	// of t/e.
	Ite(cond, t, e Node) Node
}
