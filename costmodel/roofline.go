package costmodel

import "github.com/katalvlaran/loopsched/machine"

// Roofline computes the leaky-ReLU roofline cost of one candidate block,
// per spec.md §4.4:
//
//	(1-alpha)*max(load/W_load, store/W_store, comp/W_comp, latency, total/W_total)
//	  + alpha*sum(the same five terms)
//
// loads/stores/compOps/total are element counts (already scaled by
// vector width and register-unroll factor); latency is the fixed
// pipeline-latency floor of the block's critical chain, in cycles.
func Roofline(core machine.CoreWidth, loads, stores, compOps, total, latency, alpha float64) float64 {
	terms := [5]float64{
		loads / nonZero(core.LoadsPerCycle),
		stores / nonZero(core.StoresPerCycle),
		compOps / nonZero(core.ComputePerCycle),
		latency,
		total / nonZero(core.TotalPerCycle),
	}
	max := terms[0]
	sum := 0.0
	for _, t := range terms {
		if t > max {
			max = t
		}
		sum += t
	}
	return (1-alpha)*max + alpha*sum
}

func nonZero(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
