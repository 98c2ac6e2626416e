// Package ir defines the core instruction and scheduling data structures
// consumed by the dependence analyzer, schedule LP, and loop-tree
// materializer: Address, Dependence, ScheduledNode. Grounded on the
// teacher's core.Graph/Vertex/Edge struct-and-method style
// (_examples/katalvlaran-lvlath/core/types.go), generalized from a graph
// vertex/edge pair to the memory-access/dependence-edge pair spec.md §3
// describes.
package ir

// Kind is the single-byte discriminator for the closed sum type of
// instruction kinds the core distinguishes, per spec.md §9 ("Polymorphism
// of IR nodes"). The host's richer instruction set (arithmetic ops, phi
// nodes belonging to reductions, loop headers) all downcast to one of
// these four tags as far as this module is concerned.
type Kind uint8

const (
	// KindAddr is a load or store memory access.
	KindAddr Kind = iota
	// KindCompute is an arithmetic instruction.
	KindCompute
	// KindPhi is a reduction or induction phi node.
	KindPhi
	// KindLoop is a loop header.
	KindLoop
)

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAddr:
		return "Addr"
	case KindCompute:
		return "Compute"
	case KindPhi:
		return "Phi"
	case KindLoop:
		return "Loop"
	default:
		return "Unknown"
	}
}
