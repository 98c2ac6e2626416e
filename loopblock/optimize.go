package loopblock

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/loopsched/ir"
)

// optimize implements spec.md §4.2's recursion: solve the joint schedule
// LP for nodeSet at depth, recurse on success, and fall back to
// BreakGraph (SCC decomposition + greedy fusion) on infeasibility. Once
// every node in nodeSet has exhausted its loop depth (depth>=maxDepth)
// or nodeSet has collapsed to a single node, recursion stops.
func (lb *LoopBlock) optimize(nodeSet []int, depth, maxDepth int) error {
	if len(nodeSet) <= 1 || depth >= maxDepth {
		return nil
	}

	cp := lb.Arena.Mark()
	snap := lb.snapshotNodes()
	stash := lb.stashSatLevels(nodeSet)

	ok, err := lb.SolveGraph(nodeSet, depth, false)
	if err != nil {
		return err
	}
	if ok {
		if err := lb.optimize(nodeSet, depth+1, maxDepth); err == nil {
			return nil
		}
	}

	// Plain solveGraph either failed outright or left nested recursion
	// unsatisfiable; unwind and retry with satisfyDeps, per spec.md
	// §4.2's "retry the same level with satisfyDeps".
	lb.Arena.Release(cp)
	lb.restoreNodes(snap)
	lb.restoreSatLevels(stash)

	if lb.opts.satDepRetry {
		cp2 := lb.Arena.Mark()
		snap2 := lb.snapshotNodes()
		stash2 := lb.stashSatLevels(nodeSet)

		ok2, err2 := lb.SolveGraph(nodeSet, depth, true)
		if err2 != nil {
			return err2
		}
		if ok2 {
			if err := lb.optimize(nodeSet, depth+1, maxDepth); err == nil {
				return nil
			}
		}

		lb.Arena.Release(cp2)
		lb.restoreNodes(snap2)
		lb.restoreSatLevels(stash2)
		lb.opts.logger.Debugf("optimize: depth %d satisfyDeps retry failed, falling back to BreakGraph", depth)
	}

	if err := lb.BreakGraph(nodeSet, depth, maxDepth); err != nil {
		if errors.Is(err, ErrSingleComponent) {
			return fmt.Errorf("%w: %v", ErrUnsatisfiable, err)
		}
		return err
	}
	return nil
}

// depStash pairs a dependence with a satLevel snapshot taken before a
// speculative SolveGraph attempt, so a failed attempt's pushes can be
// undone verbatim via RestoreSatLevel.
type depStash struct {
	dep  *ir.Dependence
	snap [8]ir.SatLevel
	top  int
}

func (lb *LoopBlock) stashSatLevels(nodeSet []int) []depStash {
	deps := lb.activeDeps(setOf(nodeSet))
	out := make([]depStash, len(deps))
	for i, d := range deps {
		out[i] = depStash{dep: d, snap: d.StashSatLevel(), top: d.StashSatLevelTop()}
	}
	return out
}

func (lb *LoopBlock) restoreSatLevels(stash []depStash) {
	for _, s := range stash {
		s.dep.RestoreSatLevel(s.snap, s.top)
	}
}

func setOf(nodeSet []int) map[int]bool {
	m := make(map[int]bool, len(nodeSet))
	for _, i := range nodeSet {
		m[i] = true
	}
	return m
}
