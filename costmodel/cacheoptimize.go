package costmodel

import (
	"math"

	"github.com/katalvlaran/loopsched/machine"
)

// DepSummary describes one array access's relationship to a single
// cache-tiled loop axis, per spec.md §4.4's "chain of DepSummary
// nodes... with per-access {dep-mask, fit-coef, cost-coef, cpy-mask,
// cpy-outer-mask, reg-size}". FitCoef/CostCoef are both bytes-touched
// per unit tile size along the axis. CopiesOnFit folds spec.md §9's open
// question ("when both cpy-mask and cpy-outer-mask set the same bit...
// the outer mask wins, it already doubles the fit coefficient") into a
// single already-doubled coefficient built by SummarizeForCache, so this
// package only ever carries one doubling bit forward.
type DepSummary struct {
	DependsOnAxis bool
	FitCoef       float64
	CostCoef      float64
	CopiesOnFit   bool
}

// SummarizeForCache builds one DepSummary per profile against cache axis
// (an index into the enclosing leaf's axis list), per spec.md §4.4. A
// store that depends on the axis keeps two copies across the tile
// boundary (the fill side and the drain side can overlap one tile),
// hence CopiesOnFit.
func SummarizeForCache(profiles []AccessProfile, axis, elemBytes int) []DepSummary {
	out := make([]DepSummary, len(profiles))
	for i, p := range profiles {
		dep := axis >= 0 && axis < len(p.DepAxes) && p.DepAxes[axis]
		coef := 0.0
		if dep {
			coef = float64(elemBytes)
		}
		out[i] = DepSummary{
			DependsOnAxis: dep,
			FitCoef:       coef,
			CostCoef:      coef,
			CopiesOnFit:   dep && p.Addr.IsStore,
		}
	}
	return out
}

// wayUsage is the way-usage of one access at tile size s against a cache
// line of strideBytes, per spec.md §4.4: "ceil(s · fit-coef[a] / stride)",
// doubled when the access keeps two copies across the tile boundary.
func wayUsage(d DepSummary, s, strideBytes int) int {
	if !d.DependsOnAxis || d.FitCoef <= 0 || strideBytes <= 0 {
		return 0
	}
	n := int(math.Ceil(float64(s) * d.FitCoef / float64(strideBytes)))
	if d.CopiesOnFit {
		n *= 2
	}
	return n
}

// totalWayUsage sums wayUsage across deps at tile size s.
func totalWayUsage(deps []DepSummary, s, strideBytes int) int {
	used := 0
	for _, d := range deps {
		used += wayUsage(d, s, strideBytes)
	}
	return used
}

// maxFittingFactor returns the largest tile size in [1, ceiling] whose
// combined way-usage does not exceed level's associativity, per spec.md
// §4.4's "max-satisfactory-value grid": way-usage is non-decreasing in
// s, so "the grid is decreasing along the tile-strategy axis, enabling a
// scan-and-pick" -- here a linear scan down from ceiling. For a victim
// cache, occupancy is the amount incremental over prevUsage (the
// way-usage already committed by the next-inner level at the same tile
// size), per spec.md §4.4 and the Victim cache glossary entry.
func maxFittingFactor(level machine.CacheLevel, deps []DepSummary, ceiling, prevUsage int) int {
	if ceiling < 1 {
		return 0
	}
	for s := ceiling; s >= 1; s-- {
		used := totalWayUsage(deps, s, level.BytesPerLine)
		if level.Victim {
			used -= prevUsage
		}
		if used <= level.Associativity {
			return s
		}
	}
	return 0
}

// CacheOptimize chooses the cache-block factor for one cache-tiled axis
// whose trip count is tripCount (0 if unknown), given its accesses'
// DepSummary and the machine's cache hierarchy (innermost first, per
// machine.Machine.CacheLevels), per spec.md §4.4. It first narrows maxCF
// down to the largest factor that way-usage-fits every level
// (incrementally for victim levels, chained off the previous level's own
// fitting factor) -- decoupled entirely from any register-unroll bound,
// since associativity and line size are the only things that bound a
// cache tile. It then bisects within that fitting ceiling for the factor
// minimizing the bandwidth-weighted cost Σ_levels InvBandwidth ·
// (dependent-cost·cf + independent-cost·trip/cf), which is linear in cf
// and in trip/cf per spec.md §4.4, comparing against the uncapped
// ("stream", no-fit) cost at cf=maxCF. Returns ErrNoFit if maxCF < 1.
func CacheOptimize(deps []DepSummary, levels []machine.CacheLevel, tripCount, maxCF int, opts ...Option) (int, error) {
	return cacheOptimizeWithOpts(deps, levels, tripCount, maxCF, NewOptions(opts...))
}

// cacheOptimizeWithOpts is CacheOptimize's implementation against an
// already-built options value, reused directly by Search so the outer
// search's options (window size, logger) apply to every per-axis cache
// search without re-parsing Option values at each leaf.
func cacheOptimizeWithOpts(deps []DepSummary, levels []machine.CacheLevel, tripCount, maxCF int, o *options) (int, error) {
	if maxCF < 1 {
		return 0, ErrNoFit
	}

	ceiling := maxCF
	prevUsage := 0
	for _, lvl := range levels {
		fit := maxFittingFactor(lvl, deps, ceiling, prevUsage)
		if fit < ceiling {
			ceiling = fit
		}
		if ceiling < 1 {
			break
		}
		prevUsage = totalWayUsage(deps, ceiling, lvl.BytesPerLine)
	}
	if ceiling < 1 {
		// No level fits even cf=1: fall back to the "stream" factor so
		// the caller still gets a usable (if suboptimal) block size.
		ceiling = 1
	}

	costFn := cacheCostFn(deps, levels, tripCount)
	best, bestCost := cacheBisect(ceiling, costFn, o)

	stream := costFn(maxCF)
	if stream < bestCost {
		best, bestCost = maxCF, stream
	}

	o.logger.Debugf("costmodel: cache factor chosen cf=%d cost=%f (fit ceiling=%d)", best, bestCost, ceiling)
	return best, nil
}

// cacheCostFn builds the bandwidth-weighted linear cost function of
// spec.md §4.4's cache cost: "Σ_levels (1/next_bandwidth) · access_cost(cf)
// where access_cost is... linear in cf and in tf = trip/cf". Dependent
// accesses move cf-proportional bytes per tile (the tile itself); axis-
// independent accesses are reused across the tile and instead move
// trip/cf-proportional bytes (one reload per tile iteration).
func cacheCostFn(deps []DepSummary, levels []machine.CacheLevel, tripCount int) func(cf int) float64 {
	depCoef, indepCoef := 0.0, 0.0
	for _, d := range deps {
		if d.DependsOnAxis {
			depCoef += d.CostCoef
		} else {
			indepCoef += d.CostCoef
		}
	}
	return func(cf int) float64 {
		if cf < 1 {
			cf = 1
		}
		tf := 1.0
		if tripCount > 0 {
			tf = float64(tripCount) / float64(cf)
		}
		sum := 0.0
		for _, lvl := range levels {
			sum += lvl.InvBandwidth * (depCoef*float64(cf) + indepCoef*tf)
		}
		return sum
	}
}

// cacheBisect is spec.md §4.4's 7-point-window bisection: each round
// evaluates costFn at a shrinking window (three points below the
// current best, the best itself, three points above) instead of
// scanning every candidate, then re-centers the window on whichever
// point improved most before the next round.
func cacheBisect(maxCF int, costFn func(cf int) float64, o *options) (int, float64) {
	window := o.cacheWindow
	if window < 3 {
		window = 3
	}
	half := window / 2

	best := 1
	bestCost := costFn(1)
	lo, hi := 1, maxCF
	gap := hi - lo

	for gap > 0 {
		step := gap / (window - 1)
		if step < 1 {
			step = 1
		}
		improved := false
		for i := 0; i < window; i++ {
			cf := lo + i*step
			cf = max(1, min(maxCF, cf))
			if c := costFn(cf); c < bestCost {
				bestCost, best, improved = c, cf, true
			}
		}
		if step == 1 && !improved {
			break
		}
		newGap := step * half
		if newGap >= gap {
			newGap = gap / 2
		}
		if newGap < 1 {
			break
		}
		lo, hi = max(1, best-newGap), min(maxCF, best+newGap)
		gap = hi - lo
	}
	return best, bestCost
}
