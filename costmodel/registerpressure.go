package costmodel

import "github.com/katalvlaran/loopsched/machine"

// RegisterPressure estimates the live vector-register count an
// access profile set holds simultaneously under per-axis unroll u and
// vector width v on vecAxis, per spec.md §4.4's ephemeral/perennial
// register model: "register use = ephemeral-use(unrolls) + reg-expansion
// · perennial-use(unrolls)". An access's ephemeral use is the product of
// the unroll factors on the axes it depends on (those axes create
// distinct live values simultaneously); an access whose DepAxes are all
// false is perennial -- it holds one live value across the whole
// unrolled block regardless of u, so it contributes its base count
// (1) rather than a growing product. Per base pointer the maximum
// demand across its accesses is taken (they alias the same register
// class), then summed across distinct base pointers.
func RegisterPressure(profiles []AccessProfile, u []int, v, vecAxis int) int {
	perBase := make(map[string]int, len(profiles))
	for _, p := range profiles {
		demand := 1
		anyDep := false
		for k, dep := range p.DepAxes {
			if !dep {
				continue
			}
			anyDep = true
			uk := axisFactor(u, k)
			if k == vecAxis {
				uk *= v
			}
			demand *= uk
		}
		if !anyDep {
			demand = 1 // perennial: one live register, independent of unroll
		}
		key := p.Addr.Base.String()
		if demand > perBase[key] {
			perBase[key] = demand
		}
	}
	total := 0
	for _, d := range perBase {
		total += d
	}
	return total
}

// SpillCost prices register-pressure overflow as a load+store pair per
// excess live register, charged once per unrolled block instance, per
// spec.md §4.4: "If total exceeds register count, add spill cost
// (load+store) for every (excess × unroll)".
func SpillCost(m machine.Machine, excess int, u []int) float64 {
	if excess <= 0 {
		return 0
	}
	loadCost := m.OpCost("load", 1)
	storeCost := m.OpCost("store", 1)
	return float64(excess*productOf(u)) * (loadCost + storeCost)
}

// choose picks the reduction-expansion (register-promotion) factor for
// an outer unroll factor of outerUnroll, bounded by ub (typically the
// machine's vector register count): the largest divisor of outerUnroll
// not exceeding ub, so the register-tiled residual never needs separate
// scheduling, per spec.md §4.4's "the choice must divide the outer
// unroll". It always returns a value in [1, ub] that divides outerUnroll
// whenever outerUnroll is positive (the "non-trivial" case); outerUnroll
// <= 0 degenerates to 1.
func choose(outerUnroll, ub int) int {
	if ub < 1 {
		ub = 1
	}
	if outerUnroll <= 0 {
		return 1
	}
	for d := min(ub, outerUnroll); d >= 1; d-- {
		if outerUnroll%d == 0 {
			return d
		}
	}
	return 1
}
