package loopblock

import (
	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/arena"
	"github.com/katalvlaran/loopsched/ir"
)

// IntOps is the integer linear-algebra backend used for independence-
// constraint null spaces (spec.md §4.2's depth>0 rule), overridable the
// same way dependence.IntOps is.
var IntOps affine.IntMatrixOps = affine.DefaultIntMatrixOps{}

// LoopBlock owns a set of addresses, the dependences between them, the
// nodes they are grouped into, a carried-dependency-flags vector (kept
// per node, see ir.ScheduledNode.CarriedDep) and an arena, per spec.md
// §4.2's opening paragraph.
type LoopBlock struct {
	Addrs []*ir.Address
	Deps  []*ir.Dependence
	Nodes []*ir.ScheduledNode

	Arena arena.Arena
	opts  *options

	nodeOf map[*ir.Address]int // address -> owning node index, built by GroupIntoNodes
}

// New constructs an empty LoopBlock over addrs, ready for Optimize.
func New(addrs []*ir.Address, a arena.Arena, opts ...Option) *LoopBlock {
	return &LoopBlock{
		Addrs: append([]*ir.Address(nil), addrs...),
		Arena: a,
		opts:  NewOptions(opts...),
	}
}

// activeDeps returns the dependences both of whose endpoints belong to a
// node in nodeSet and which are not yet satisfied.
func (lb *LoopBlock) activeDeps(nodeSet map[int]bool) []*ir.Dependence {
	var out []*ir.Dependence
	for _, d := range lb.Deps {
		if d.Satisfied() {
			continue
		}
		ni, ok1 := lb.nodeOf[d.In]
		no, ok2 := lb.nodeOf[d.Out]
		if !ok1 || !ok2 {
			continue
		}
		if nodeSet != nil && (!nodeSet[ni] || !nodeSet[no]) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// maxNumLoops returns the greatest NumLoops across nodeIdx, used as the
// default recursion ceiling when Options.maxDepth is left at 0.
func (lb *LoopBlock) maxNumLoops(nodeIdx []int) int {
	max := 0
	for _, i := range nodeIdx {
		if n := lb.Nodes[i].NumLoops; n > max {
			max = n
		}
	}
	return max
}

// allNodeIndices returns [0, len(lb.Nodes)).
func (lb *LoopBlock) allNodeIndices() []int {
	out := make([]int, len(lb.Nodes))
	for i := range out {
		out[i] = i
	}
	return out
}

// Optimize runs the full schedule LP pipeline, per spec.md §4.2:
// FillEdges, GroupIntoNodes, build the node graph, optionally
// Orthogonalize (retrying unoriented on failure), then the depth-0
// recursive Optimize. Returns ErrUnsatisfiable (via the recursive
// optimize's own return) if no recursion path produces a complete
// schedule.
func (lb *LoopBlock) Optimize() error {
	if err := lb.FillEdges(); err != nil {
		return err
	}
	if err := lb.GroupIntoNodes(); err != nil {
		return err
	}
	lb.buildNodeGraph()

	maxDepth := lb.opts.maxDepth
	if maxDepth == 0 {
		maxDepth = lb.maxNumLoops(lb.allNodeIndices())
	}

	if lb.opts.orthogonalize {
		cp := lb.Arena.Mark()
		snap := lb.snapshotNodes()
		lb.Orthogonalize()
		if err := lb.optimize(lb.allNodeIndices(), 0, maxDepth); err == nil {
			return nil
		}
		lb.Arena.Release(cp)
		lb.restoreNodes(snap)
		lb.opts.logger.Debugf("orthogonalize: unwind and retry unoriented")
	}
	return lb.optimize(lb.allNodeIndices(), 0, maxDepth)
}

// nodeSnapshot captures the mutable per-node state Orthogonalize and the
// LP recursion touch, so a failed speculative attempt can be undone
// without reconstructing the whole LoopBlock.
type nodeSnapshot struct {
	phi     [][][]int
	omega   [][]int
	rank    []int
	carried []*ir.BitSet
}

func (lb *LoopBlock) snapshotNodes() nodeSnapshot {
	snap := nodeSnapshot{
		phi:     make([][][]int, len(lb.Nodes)),
		omega:   make([][]int, len(lb.Nodes)),
		rank:    make([]int, len(lb.Nodes)),
		carried: make([]*ir.BitSet, len(lb.Nodes)),
	}
	for i, n := range lb.Nodes {
		phi := make([][]int, len(n.Phi))
		for r, row := range n.Phi {
			phi[r] = append([]int(nil), row...)
		}
		snap.phi[i] = phi
		snap.omega[i] = append([]int(nil), n.Omega...)
		snap.rank[i] = n.Rank
		snap.carried[i] = n.CarriedDep.Clone()
	}
	return snap
}

func (lb *LoopBlock) restoreNodes(snap nodeSnapshot) {
	for i, n := range lb.Nodes {
		for r, row := range snap.phi[i] {
			copy(n.Phi[r], row)
		}
		copy(n.Omega, snap.omega[i])
		n.Rank = snap.rank[i]
		n.CarriedDep = snap.carried[i]
	}
}
