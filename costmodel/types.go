package costmodel

import "github.com/katalvlaran/loopsched/ir"

// LoopTransform is the per-leaf-loop output of the cost-model optimizer,
// per spec.md §6: a vector width (1 == scalar), a register-unroll
// factor, a cache-block (cache-unroll) factor, and the permutation of
// cache-tiled loops chosen innermost-to-outermost.
type LoopTransform struct {
	L2VectorWidth        int
	RegisterUnrollFactor int
	CacheUnrollFactor    int
	CachePermutation     []int
}

// AccessProfile summarizes one rotated address for the cost model: which
// loop axes (by index into the enclosing leaf's axis list) it actually
// depends on (a non-zero index-matrix column), and whether it is a
// store, used by the memory-cost and contiguous-axis classification in
// spec.md §4.4.
type AccessProfile struct {
	Addr     *ir.Address
	DepAxes  []bool // length numLoops; true if column k of Index is non-zero
	Contig   int    // index of the contiguous (unit-stride) axis, or -1
	BaseCost float64
}

// ProfileAccess derives an AccessProfile from a rotated address's index
// matrix: axis k is a dependency iff some row of Index has a non-zero
// entry in column k; the contiguous axis is the one whose coefficient in
// the last (fastest-varying) array dimension, row D-1, is 1; if several
// axes have coefficient 1 there, the last of them is taken (spec.md
// §4.4's "if k is the contiguous axis, scalar cost").
func ProfileAccess(addr *ir.Address, baseCost float64) AccessProfile {
	dep := make([]bool, addr.N)
	contig := -1
	for k := 0; k < addr.N; k++ {
		for d := 0; d < addr.D; d++ {
			if addr.Index[d][k] != 0 {
				dep[k] = true
			}
		}
		if addr.D > 0 && addr.Index[addr.D-1][k] == 1 {
			contig = k
		}
	}
	return AccessProfile{Addr: addr, DepAxes: dep, Contig: contig, BaseCost: baseCost}
}
