package costmodel

import (
	"math"

	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/loopblock"
	"github.com/katalvlaran/loopsched/looptree"
	"github.com/katalvlaran/loopsched/machine"
)

// LoopSummary is the topological pre-order per-loop summary spec.md
// §4.4 drives the outer search from: "LoopSummary {reorderable,
// known-trip, trip-count, num-sub-loops, num-reductions, sub-tree-size}".
type LoopSummary struct {
	Reorderable   bool
	KnownTrip     bool
	TripCount     int
	NumSubLoops   int
	NumReductions int
	SubTreeSize   int
}

// Search recurses the loop tree per spec.md §4.4's outer search strategy:
// at each loop, enumerate register-unroll factors for that axis,
// evaluate every sub-loop with the resulting per-axis unroll/trip-count
// state, and keep whichever factor yields the lowest subtree cost,
// early-stopping once two consecutive candidates fail to improve on the
// best seen so far. At each leaf, jointly choose the vector width and
// (via the machine's cache hierarchy) the cache-block factor and
// cache-loop permutation. Returns one LoopTransform per leaf, in
// Children()'s depth-first, ascending-fusion-omega order.
func Search(tree *looptree.Schedule, m machine.Machine, opcodes []string, opts ...Option) ([]LoopTransform, error) {
	o := NewOptions(opts...)
	_, transforms := searchNode(tree, m, opcodes, o, nil, nil)
	if len(transforms) == 0 {
		return nil, ErrEmptyTree
	}
	return transforms, nil
}

// searchNode returns the cost and the per-leaf transforms of the subtree
// rooted at s, given the per-axis register-unroll factors u and trip
// counts trips already fixed by s's ancestors (axis k corresponds to
// u[k]/trips[k], outer to inner).
func searchNode(s *looptree.Schedule, m machine.Machine, opcodes []string, o *options, u, trips []int) (float64, []LoopTransform) {
	children := s.Children()
	if len(children) == 0 {
		if len(s.Block.Addrs) == 0 {
			return 0, nil
		}
		return searchLeaf(s, m, opcodes, o, u, trips)
	}

	totalCost := 0.0
	var out []LoopTransform
	for _, c := range children {
		axis := c.Depth - 1
		summary := summarizeLoop(c, axis)

		ub := o.maxRegisterUnroll
		if summary.KnownTrip && summary.TripCount < ub {
			ub = summary.TripCount
		}
		if ub < 1 {
			ub = 1
		}

		bestCost := math.Inf(1)
		var bestTransforms []LoopTransform
		worseStreak := 0
		for uk := 1; uk <= ub; uk++ {
			if summary.KnownTrip && summary.TripCount%uk != 0 {
				continue // a register-unroll factor must tile the trip count evenly
			}
			cost, transforms := searchNode(c, m, opcodes, o,
				append(append([]int(nil), u...), uk),
				append(append([]int(nil), trips...), summary.TripCount))
			if cost < bestCost {
				bestCost, bestTransforms = cost, transforms
				worseStreak = 0
				continue
			}
			worseStreak++
			if worseStreak >= 2 {
				break // early-stop: cumulative cost stopped improving
			}
		}
		if math.IsInf(bestCost, 1) {
			// uk=1 always divides the trip count, so this is reached only
			// when every candidate's cost is +Inf (an empty sub-tree
			// costs 0, not +Inf) -- fold in nothing.
			continue
		}
		totalCost += bestCost
		out = append(out, bestTransforms...)
	}
	o.logger.Debugf("costmodel: node at depth %d subtree cost=%f", s.Depth, totalCost)
	return totalCost, out
}

// summarizeLoop builds the LoopSummary for the loop represented by s
// (s's own axis == axis, consuming sub-tree size, sub-loop count, and a
// trip count read off the first address found in the subtree -- exact
// when s's enclosing schedule is a pure permutation (spec.md §8's tested
// scenarios), an approximation under skewing, see DESIGN.md.
func summarizeLoop(s *looptree.Schedule, axis int) LoopSummary {
	addr := findSampleAddr(s)
	summary := LoopSummary{
		Reorderable: true,
		NumSubLoops: len(s.Children()),
		SubTreeSize: countSubtree(s),
	}
	if addr != nil && axis >= 0 && axis < addr.Loop.NumLoops() {
		if tc := addr.Loop.TripCount(axis); tc.Known {
			summary.KnownTrip, summary.TripCount = true, tc.Count
		}
	}
	summary.NumReductions = countReductions(s, axis)
	return summary
}

// findSampleAddr returns the first address found by a depth-first walk
// of s's subtree, or nil if the subtree carries none.
func findSampleAddr(s *looptree.Schedule) *ir.Address {
	if len(s.Block.Addrs) > 0 {
		return s.Block.Addrs[0]
	}
	for _, c := range s.Children() {
		if a := findSampleAddr(c); a != nil {
			return a
		}
	}
	return nil
}

// countSubtree counts every Schedule node in s's subtree, including s.
func countSubtree(s *looptree.Schedule) int {
	n := 1
	for _, c := range s.Children() {
		n += countSubtree(c)
	}
	return n
}

// countReductions counts addresses in s's subtree whose rotated index
// matrix has a zero column at axis: an access that never varies as axis
// iterates is the signature of a reduction carried along that axis,
// per spec.md §8's "a reduction loop is detected by rank(index-matrix)=0
// along the reduction axis".
func countReductions(s *looptree.Schedule, axis int) int {
	n := 0
	for _, a := range s.Block.Addrs {
		if axis >= 0 && axis < a.N {
			zero := true
			for d := 0; d < a.D; d++ {
				if a.Index[d][axis] != 0 {
					zero = false
					break
				}
			}
			if zero {
				n++
			}
		}
	}
	for _, c := range s.Children() {
		n += countReductions(c, axis)
	}
	return n
}

// searchLeaf jointly picks the vector width and the cache-block factor
// and permutation for one leaf block, given the per-axis register-unroll
// factors and trip counts already fixed by its ancestors (the leaf's own
// innermost axis's factor is the last entry of u/trips, chosen by its
// parent's loop in searchNode).
func searchLeaf(leaf *looptree.Schedule, m machine.Machine, opcodes []string, o *options, u, trips []int) (float64, []LoopTransform) {
	profiles := make([]AccessProfile, len(leaf.Block.Addrs))
	for i, addr := range leaf.Block.Addrs {
		profiles[i] = ProfileAccess(addr, 1)
	}
	elemBytes := 4
	if profiles[0].Addr.ElementBytes > 0 {
		elemBytes = profiles[0].Addr.ElementBytes
	}
	vecAxis := -1
	for _, p := range profiles {
		if p.Contig >= 0 {
			vecAxis = p.Contig
			break
		}
	}

	best := LoopTransform{L2VectorWidth: 1}
	bestCost := math.Inf(1)
	for _, v := range o.vectorWidths {
		if v*elemBytes > m.VectorRegisterBytes() {
			continue
		}
		cost := BlockCost(m, profiles, opcodes, trips, u, v, vecAxis, o.alpha)
		if pressure := RegisterPressure(profiles, u, v, vecAxis); pressure > m.NumVectorRegisters() {
			cost += SpillCost(m, pressure-m.NumVectorRegisters(), u)
		}
		if cost < bestCost {
			bestCost, best = cost, LoopTransform{L2VectorWidth: v}
		}
	}

	numAxes := len(u)
	if numAxes == 0 && len(profiles[0].DepAxes) > 0 {
		numAxes = len(profiles[0].DepAxes)
	}
	best.RegisterUnrollFactor = axisFactor(u, numAxes-1)
	var cacheCost float64
	best.CachePermutation, best.CacheUnrollFactor, cacheCost = bestCachePermutation(profiles, numAxes, trips, elemBytes, m, o)
	bestCost += cacheCost

	o.logger.Debugf("costmodel: leaf at depth %d chose %+v cost=%f", leaf.Depth, best, bestCost)
	return bestCost, []LoopTransform{best}
}

// bestCachePermutation enumerates every legal ordering of the leaf's
// numAxes loop axes via loopblock.Permutations (spec.md §4.4's "for each
// choice of which loop is innermost among cache loops"), runs the cache
// optimizer with each ordering's innermost axis, and keeps the ordering,
// factor, and cost of whichever is lowest.
func bestCachePermutation(profiles []AccessProfile, numAxes int, trips []int, elemBytes int, m machine.Machine, o *options) ([]int, int, float64) {
	if numAxes == 0 {
		return nil, 1, 0
	}
	axes := make([]int, numAxes)
	for i := range axes {
		axes[i] = i
	}

	bestCost := math.Inf(1)
	var bestPerm []int
	bestCF := 1
	levels := m.CacheLevels()
	for perm := range loopblock.Permutations([][]int{axes}) {
		inner := perm[0]
		deps := SummarizeForCache(profiles, inner, elemBytes)
		trip := axisFactor(trips, inner)
		ceiling := o.maxCacheFactor
		if trip > 0 && trip < ceiling {
			ceiling = trip
		}
		cf, err := cacheOptimizeWithOpts(deps, levels, trip, ceiling, o)
		if err != nil {
			continue
		}
		cost := cacheCostFn(deps, levels, trip)(cf)
		if cost < bestCost {
			bestCost, bestPerm, bestCF = cost, append([]int(nil), perm...), cf
		}
	}
	if bestPerm == nil {
		bestPerm = append([]int(nil), axes...)
	}
	if math.IsInf(bestCost, 1) {
		bestCost = 0
	}
	return bestPerm, bestCF, bestCost
}
