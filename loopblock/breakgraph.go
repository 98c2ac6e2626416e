package loopblock

// BreakGraph implements spec.md §4.2's SCC-decomposition fallback, used
// when SolveGraph cannot find one affine schedule for nodeSet at depth:
// split nodeSet into its strongly connected components, solve each
// independently at the same depth, then greedily fuse adjacent
// components (in topological order) whenever every dependence crossing
// the fuse boundary is already satisfied. Unfused components are
// stamped with a bumped fusionOmega at depth so they materialize as
// separate, sequentially ordered loop nests instead of one fused loop.
// Returns ErrSingleComponent if nodeSet is already strongly connected
// as a whole (breaking it further cannot help).
func (lb *LoopBlock) BreakGraph(nodeSet []int, depth, maxDepth int) error {
	// stronglyConnectedComponents returns components sink-first (spec.md
	// §8's literal scenario-5 order); grouping/stamping below needs them
	// source-first, so the producer's component is always assigned a
	// smaller fusionOmega than its consumer's.
	sccs := lb.stronglyConnectedComponents(nodeSet)
	if len(sccs) <= 1 {
		return ErrSingleComponent
	}
	reverseSCCs(sccs)

	for _, scc := range sccs {
		if err := lb.optimize(scc, depth, maxDepth); err != nil {
			return err
		}
	}

	groups := [][]int{append([]int(nil), sccs[0]...)}
	for _, scc := range sccs[1:] {
		last := groups[len(groups)-1]
		if lb.canFuse(last, scc) {
			groups[len(groups)-1] = append(last, scc...)
		} else {
			groups = append(groups, append([]int(nil), scc...))
		}
	}

	for g, group := range groups {
		for _, i := range group {
			node := lb.Nodes[i]
			if depth < len(node.FusionOmega) {
				node.FusionOmega[depth] = g
			}
		}
	}

	for _, group := range groups {
		if err := lb.optimize(group, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}

// reverseSCCs reverses sccs in place.
func reverseSCCs(sccs [][]int) {
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
}

// canFuse reports whether every dependence crossing from group to next
// (or next to group) is already satisfied, i.e. fusing the two
// components into one sequential loop at the current depth would not
// reorder anything the schedule has not already accounted for.
func (lb *LoopBlock) canFuse(group, next []int) bool {
	groupSet, nextSet := setOf(group), setOf(next)
	for _, d := range lb.Deps {
		ni, ok1 := lb.nodeOf[d.In]
		no, ok2 := lb.nodeOf[d.Out]
		if !ok1 || !ok2 {
			continue
		}
		crosses := (groupSet[ni] && nextSet[no]) || (nextSet[ni] && groupSet[no])
		if crosses && !d.Satisfied() {
			return false
		}
	}
	return true
}
