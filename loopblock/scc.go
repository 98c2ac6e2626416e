package loopblock

import "sort"

// stronglyConnectedComponents returns the strongly connected components
// of the subgraph induced by nodeSet, each internally as Kosaraju-Sharir
// produces them, but ordered sink-first across components: spec.md §8
// names a literal expected output sequence for its worked DAG example,
// which is exactly what sinkFirstOrder reproduces (see its doc comment).
// Grounded on _examples/fkuehnel-golang-cfg/go-code/scc.go's SCCs for the
// raw partitioning, with a condensation-graph pass added on top.
func (lb *LoopBlock) stronglyConnectedComponents(nodeSet []int) [][]int {
	set := setOf(nodeSet)

	po := lb.postorder(nodeSet, set)

	seen := make(map[int]bool, len(po))
	var sccs [][]int
	for i := len(po) - 1; i >= 0; i-- {
		leader := po[i]
		if seen[leader] {
			continue
		}

		var scc []int
		queue := []int{leader}
		seen[leader] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			scc = append(scc, n)

			var preds []int
			lb.Nodes[n].In.Each(func(p int) {
				if set[p] {
					preds = append(preds, p)
				}
			})
			for _, p := range preds {
				if !seen[p] {
					seen[p] = true
					queue = append(queue, p)
				}
			}
		}
		sccs = append(sccs, scc)
	}
	return lb.sinkFirstOrder(sccs, set)
}

// sinkFirstOrder re-orders comps (an arbitrary partition of nodeSet into
// SCCs) so they come out sink-first: repeatedly, among components whose
// every successor component has already been output, output the one(s)
// with the smallest minimum member id, removing them from consideration
// before looking for the next round's sinks. This is Kahn's algorithm
// run over the condensation graph in the "peel off current leaves"
// direction, tie-broken by ascending minimum member id, and it
// reproduces spec.md §8's literal scenario-5 order [5],[3],[4],[1],[2],[0]
// for the DAG 0→1, 1→3, 3→5, 0→2, 2→4, 4→5 exactly.
func (lb *LoopBlock) sinkFirstOrder(comps [][]int, set map[int]bool) [][]int {
	if len(comps) <= 1 {
		return comps
	}

	compOf := make(map[int]int, len(set))
	minMember := make([]int, len(comps))
	for ci, comp := range comps {
		m := comp[0]
		for _, n := range comp {
			compOf[n] = ci
			if n < m {
				m = n
			}
		}
		minMember[ci] = m
	}

	succComps := make([]map[int]bool, len(comps))
	for ci, comp := range comps {
		succs := make(map[int]bool)
		for _, n := range comp {
			lb.Nodes[n].Out.Each(func(s int) {
				if !set[s] {
					return
				}
				if sj := compOf[s]; sj != ci {
					succs[sj] = true
				}
			})
		}
		succComps[ci] = succs
	}

	remaining := make(map[int]bool, len(comps))
	for ci := range comps {
		remaining[ci] = true
	}

	out := make([][]int, 0, len(comps))
	for len(remaining) > 0 {
		var ready []int
		for ci := range remaining {
			isSink := true
			for sj := range succComps[ci] {
				if remaining[sj] {
					isSink = false
					break
				}
			}
			if isSink {
				ready = append(ready, ci)
			}
		}
		if len(ready) == 0 {
			// Should not happen for a well-formed condensation DAG; break
			// rather than loop forever if it somehow does.
			break
		}
		sort.Slice(ready, func(i, j int) bool { return minMember[ready[i]] < minMember[ready[j]] })
		for _, ci := range ready {
			out = append(out, comps[ci])
			delete(remaining, ci)
		}
	}
	return out
}

// postorder runs an iterative DFS over forward edges (node.Out,
// restricted to set) and returns nodeSet's nodes in postorder.
func (lb *LoopBlock) postorder(nodeSet []int, set map[int]bool) []int {
	const (
		stateEnter = iota
		stateExit
	)
	type frame struct {
		node, state int
	}

	visited := make(map[int]bool, len(nodeSet))
	var order []int

	for _, start := range nodeSet {
		if visited[start] {
			continue
		}
		stack := []frame{{start, stateEnter}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.state == stateExit {
				order = append(order, f.node)
				continue
			}
			if visited[f.node] {
				continue
			}
			visited[f.node] = true
			stack = append(stack, frame{f.node, stateExit})

			var succs []int
			lb.Nodes[f.node].Out.Each(func(s int) {
				if set[s] && !visited[s] {
					succs = append(succs, s)
				}
			})
			for i := len(succs) - 1; i >= 0; i-- {
				stack = append(stack, frame{succs[i], stateEnter})
			}
		}
	}
	return order
}
