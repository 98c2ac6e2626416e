package looptree

import (
	"fmt"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/ir"
)

// NodeAddrs pairs a solved ScheduledNode with the (pre-rotation)
// addresses it owns, decoupling looptree from loopblock's internal
// address bookkeeping.
type NodeAddrs struct {
	Node  *ir.ScheduledNode
	Addrs []*ir.Address
}

// Materialize implements spec.md §4.3: for every solved node, computes
// the scaled inverse (Φ⁻¹, s) of its schedule matrix, rotates each of
// its addresses by it, and inserts the rotated addresses into the loop
// tree at the depth equal to the node's NumLoops, using the node's
// fusion-ω as descend coordinates.
//
// ir.Address.Rotate does not carry a rotated copy's dependence-edge
// chains over from the original (spec.md §3: Rotate produces a fresh
// Address value), so the pre-rotation→rotated correspondence is
// recorded here, while both are still in hand, into a producer→consumer
// successor map over the ROTATED addresses. That map drives the actual
// dependence-respecting placement within (and hoisting between) loop-
// tree levels, per spec.md §4.3.
func Materialize(nodes []NodeAddrs, intOps affine.IntMatrixOps) (*Schedule, error) {
	root := newSchedule(0, nil)
	origToRotated := make(map[*ir.Address]*ir.Address)

	for _, na := range nodes {
		node := na.Node
		adj, det, err := intOps.ScaledInv(node.Phi)
		if err != nil {
			return nil, fmt.Errorf("looptree: materializing node: %w", ErrSingular)
		}

		leaf := descend(root, node.FusionOmega, node.NumLoops)
		for _, addr := range na.Addrs {
			if addr.N != node.NumLoops {
				return nil, fmt.Errorf("looptree: address depth %d disagrees with node depth %d: %w", addr.N, node.NumLoops, ErrDimensionMismatch)
			}
			rotated, err := addr.Rotate(adj, det, node.Omega)
			if err != nil {
				return nil, err
			}
			leaf.Block.Addrs = append(leaf.Block.Addrs, rotated)
			origToRotated[addr] = rotated
		}
	}

	succ := recordDeps(origToRotated)
	placeAll(root, succ)
	return root, nil
}

// recordDeps correlates each pre-rotation address's produced-by/
// consumed-by dependence chain to the rotated addresses origToRotated
// maps them to, yielding a producer→consumer successor map over the
// ROTATED addresses that PlaceAddr and the hoisting pass in placeAll
// consume. A dependence whose producer or consumer fell outside this
// Materialize call (origToRotated has no entry for it) is dropped: it
// cannot be a same-tree ordering constraint here.
func recordDeps(origToRotated map[*ir.Address]*ir.Address) map[*ir.Address][]*ir.Address {
	succ := make(map[*ir.Address][]*ir.Address, len(origToRotated))
	for orig, rotated := range origToRotated {
		for _, dep := range orig.Outputs() {
			if consumerRotated, ok := origToRotated[dep.Out]; ok {
				succ[rotated] = append(succ[rotated], consumerRotated)
			}
		}
	}
	return succ
}

// placeAll recursively finalizes every level of the tree bottom-up: it
// first finalizes every child subtree, then hoists axis-independent,
// dependence-free addresses out of each child into this level (spec.md
// §4.3's named hoisting rule), then topologically orders whatever
// remains at this level via PlaceAddr. Root (Depth 0) carries no loop
// axis of its own, so nothing hoists into it.
func placeAll(s *Schedule, succ map[*ir.Address][]*ir.Address) {
	children := s.Children()
	for _, c := range children {
		placeAll(c, succ)
	}
	if s.Depth > 0 {
		for _, c := range children {
			hoistFromChild(s, c, succ)
		}
	}
	s.Block.Addrs = PlaceAddr(s.Block.Addrs, succ)
}

// hoistFromChild moves every address out of child's block into parent's
// block that (a) does not vary with child's own loop axis (its rotated
// index matrix has an all-zero column there -- it is loop-invariant
// across that axis) and (b) carries no dependence edge, in either
// direction, to anything else remaining in child's block -- it can run
// once in the enclosing loop instead of being repeated or reordered
// against its former neighbors, per spec.md §4.3.
func hoistFromChild(parent, child *Schedule, succ map[*ir.Address][]*ir.Address) {
	axis := child.Depth - 1
	if axis < 0 {
		return
	}
	kept := child.Block.Addrs[:0:0]
	for _, a := range child.Block.Addrs {
		if isAxisIndependent(a, axis) && !hasIntraBlockDep(a, child.Block.Addrs, succ) {
			parent.Block.Addrs = append(parent.Block.Addrs, a)
		} else {
			kept = append(kept, a)
		}
	}
	child.Block.Addrs = kept
}

// isAxisIndependent reports whether a's rotated index matrix has an
// all-zero column at axis.
func isAxisIndependent(a *ir.Address, axis int) bool {
	if axis < 0 || axis >= a.N {
		return true
	}
	for d := 0; d < a.D; d++ {
		if a.Index[d][axis] != 0 {
			return false
		}
	}
	return true
}

// hasIntraBlockDep reports whether a has a dependence edge, in either
// direction, to another address still present in block.
func hasIntraBlockDep(a *ir.Address, block []*ir.Address, succ map[*ir.Address][]*ir.Address) bool {
	member := make(map[*ir.Address]bool, len(block))
	for _, b := range block {
		if b != a {
			member[b] = true
		}
	}
	for _, s := range succ[a] {
		if member[s] {
			return true
		}
	}
	for _, b := range block {
		if b == a {
			continue
		}
		for _, s := range succ[b] {
			if s == a {
				return true
			}
		}
	}
	return false
}
