package looptree

import "github.com/katalvlaran/loopsched/ir"

// PlaceAddr topologically orders the rotated addresses landing in one
// leaf block against succ, the producer→consumer dependence-successor
// map Materialize built from the pre-rotation address graph (spec.md
// §4.3: "using the new fusion-ω as coordinates... topologically order
// the addresses landing at each leaf by their dependence edges").
// Ties (addresses with no ordering constraint between them) keep their
// given relative order, matching spec.md §4.3's stability requirement
// for fusible, unconstrained accesses.
//
// Kahn's algorithm is run restricted to the members of addrs: an edge
// to or from an address outside this leaf (the dependence crosses leaf
// boundaries, already enforced by an outer loop carrying it) is not a
// same-leaf ordering constraint and is ignored here. If succ somehow
// describes a cycle among addrs (it should not, for a well-formed
// dependence graph), the unplaced remainder is appended in its original
// order rather than looping forever.
func PlaceAddr(addrs []*ir.Address, succ map[*ir.Address][]*ir.Address) []*ir.Address {
	n := len(addrs)
	if n == 0 {
		return nil
	}

	member := make(map[*ir.Address]int, n)
	for i, a := range addrs {
		member[a] = i
	}

	indeg := make([]int, n)
	for _, a := range addrs {
		for _, succAddr := range succ[a] {
			if j, ok := member[succAddr]; ok {
				indeg[j]++
			}
		}
	}

	placed := make([]bool, n)
	out := make([]*ir.Address, 0, n)
	for len(out) < n {
		progressed := false
		for i, a := range addrs {
			if placed[i] || indeg[i] > 0 {
				continue
			}
			placed[i] = true
			out = append(out, a)
			progressed = true
			for _, succAddr := range succ[a] {
				if j, ok := member[succAddr]; ok && !placed[j] {
					indeg[j]--
				}
			}
		}
		if !progressed {
			// A cycle among same-leaf addresses: fall back to original
			// order for whatever remains rather than spinning.
			for i, a := range addrs {
				if !placed[i] {
					out = append(out, a)
				}
			}
			break
		}
	}
	return out
}
