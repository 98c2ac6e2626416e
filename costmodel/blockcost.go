package costmodel

import "github.com/katalvlaran/loopsched/machine"

// CountAccesses tallies load/store traffic for a leaf block whose
// enclosing loop axes carry trip counts tripCounts and per-axis
// register-unroll factors u (outer to inner), with a vector width v
// placed on axis vecAxis (-1 if none chosen), per spec.md §4.4: "memory
// cost of each access = base-cost × (trip-count-product of loops it
// depends on) ÷ (unroll-product of loops it does not depend on)".
// DepAxes gates which term each axis contributes to; vectorized accesses
// add the contiguous/discontiguous classification: an access on the
// contiguous axis amortizes over the vector (charged once per lane
// group), a gather/scatter access charges once per lane.
func CountAccesses(profiles []AccessProfile, tripCounts, u []int, v, vecAxis int) (loads, stores float64) {
	if v < 1 {
		v = 1
	}
	for _, p := range profiles {
		depTrip := 1.0
		indepUnroll := 1.0
		for k, dep := range p.DepAxes {
			unroll := float64(axisFactor(u, k))
			if k == vecAxis {
				unroll *= float64(v)
			}
			if dep {
				depTrip *= float64(axisFactor(tripCounts, k))
			} else {
				indepUnroll *= unroll
			}
		}
		count := p.BaseCost * depTrip / indepUnroll
		if p.Contig < 0 {
			// gather/scatter: every lane is a distinct memory op, not
			// amortized over the vector the way a contiguous access is.
			count *= float64(v)
		}
		if p.Addr.IsStore {
			stores += count
		} else {
			loads += count
		}
	}
	return loads, stores
}

// axisFactor reads entry k of a per-axis vector, defaulting to 1 when
// the vector doesn't reach that far or the entry is non-positive -- an
// axis outside the caller's currently-known ancestor chain.
func axisFactor(v []int, k int) int {
	if k < 0 || k >= len(v) || v[k] <= 0 {
		return 1
	}
	return v[k]
}

// productOf multiplies every positive entry of u, treating non-positive
// or absent entries as 1.
func productOf(u []int) int {
	p := 1
	for _, uk := range u {
		if uk > 0 {
			p *= uk
		}
	}
	return p
}

// ComputeCost folds opcode costs for a register-unrolled, v-wide block:
// cost = Σ_op cost(op, v) × (unroll-product of the axes the compute
// depends on), per spec.md §4.4's compute-cost term. Compute is treated
// as depending on every axis in u -- the common case for a fused
// multiply-add body threading through the whole nest; per-opcode loop
// masks narrower than that are outside this package's input scope (the
// host would have to supply them, per spec.md §1).
func ComputeCost(m machine.Machine, opcodes []string, u []int, v int) float64 {
	sum := 0.0
	for _, op := range opcodes {
		sum += m.OpCost(op, v)
	}
	return sum * float64(productOf(u))
}

// latencyFloor is the critical-chain pipeline-latency term of the
// roofline max: the most expensive single-lane opcode in the block,
// since a chain of dependent ops cannot retire faster than its slowest
// link regardless of throughput.
func latencyFloor(m machine.Machine, opcodes []string) float64 {
	max := 0.0
	for _, op := range opcodes {
		if c := m.OpCost(op, 1); c > max {
			max = c
		}
	}
	return max
}

// BlockCost computes the Roofline cost of one leaf block's access
// profiles and opcodes under per-axis register-unroll factors u, trip
// counts tripCounts, and vector width v placed on axis vecAxis.
func BlockCost(m machine.Machine, profiles []AccessProfile, opcodes []string, tripCounts, u []int, v, vecAxis int, alpha float64) float64 {
	loads, stores := CountAccesses(profiles, tripCounts, u, v, vecAxis)
	compute := ComputeCost(m, opcodes, u, v)
	total := loads + stores + compute
	latency := latencyFloor(m, opcodes)
	return Roofline(m.Core(), loads, stores, compute, total, latency, alpha)
}
