package ir

// ScheduledNode is a set of co-scheduled memory accesses sharing one
// affine schedule (Phi, omega, fusionOmega), per spec.md §3.
type ScheduledNode struct {
	// AddrIndices are indices into the owning LoopBlock's address slice.
	AddrIndices []int

	// In/Out are indices into the owning graph's node slice (bitsets,
	// per spec.md §9's node-level design choice).
	In  *BitSet
	Out *BitSet

	NumLoops int

	// Phi is numLoops x numLoops, initialized to the identity.
	Phi [][]int
	// Omega is the length-numLoops schedule offset.
	Omega []int
	// FusionOmega is length numLoops+1 and totally orders nodes
	// lexicographically across depths.
	FusionOmega []int

	// Rank is how many outer rows of Phi have been fixed by the LP so
	// far (orthogonalization or prior solveGraph calls).
	Rank int

	// CarriedDep has bit d set when some dependence entering/leaving
	// this node was satisfied at depth d by the LP (spec.md §3,
	// "Carried-dependency flag").
	CarriedDep *BitSet

	// phiOffset/omegaOffset are scratch LP-variable column offsets used
	// while packing simplex columns in loopblock.SolveGraph; they are
	// not meaningful outside an in-flight LP build.
	PhiOffset, OmegaOffset int
}

// NewScheduledNode allocates a ScheduledNode for numLoops loop levels with
// Phi initialized to the identity matrix, per spec.md §3's invariant.
func NewScheduledNode(addrIndices []int, numLoops int) *ScheduledNode {
	phi := make([][]int, numLoops)
	for i := range phi {
		phi[i] = make([]int, numLoops)
		phi[i][i] = 1
	}
	return &ScheduledNode{
		AddrIndices: append([]int(nil), addrIndices...),
		In:          NewBitSet(0),
		Out:         NewBitSet(0),
		NumLoops:    numLoops,
		Phi:         phi,
		Omega:       make([]int, numLoops),
		FusionOmega: make([]int, numLoops+1),
		CarriedDep:  NewBitSet(numLoops),
	}
}

// SetPhiRow installs row (the schedule coefficients at a given depth) as
// Phi's row `depth` and bumps Rank if depth >= Rank, per the LP's
// "substitute its known row" bookkeeping (spec.md §4.2).
func (n *ScheduledNode) SetPhiRow(depth int, row []int) {
	copy(n.Phi[depth], row)
	if depth >= n.Rank {
		n.Rank = depth + 1
	}
}
