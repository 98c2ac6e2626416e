// Package dependence builds Dependence edges between pairs of memory
// accesses, per spec.md §4.1: Check constructs the dependence polyhedron
// and Farkas pair and decides edge direction; Reload builds the
// self-dependence used to make register reuse explicit; CheckSat runs the
// fast conditional-independence test the schedule LP uses to retire
// dependences early.
//
// Grounded on the teacher's traversal/decision style in
// _examples/katalvlaran-lvlath/dfs/topological.go (state-machine-free,
// single forward pass, sentinel errors for every rejected precondition).
package dependence

import (
	"errors"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/polyhedra"
)

// ErrNotComparable is returned by Check when x and y do not share a base
// pointer, or neither is a store, per spec.md §4.1's precondition.
var ErrNotComparable = errors.New("dependence: accesses are not comparable")

// IntOps is the integer linear-algebra backend used to compute the
// dependence polyhedron's time-dimension null space; defaults to
// affine.DefaultIntMatrixOps but is overridable for hosts with their own
// backend (spec.md §1: linear-algebra primitives are an external
// collaborator interface).
var IntOps affine.IntMatrixOps = affine.DefaultIntMatrixOps{}

// Check builds the dependence polyhedron for x and y and, if it is
// nonempty, the resulting Dependence edge(s), per spec.md §4.1. Returns
// (nil, nil) — no error — when the polyhedron is empty (the accesses
// never alias); this is the "Empty dep-poly → no edge; not an error"
// case from spec.md §7.
func Check(x, y *ir.Address) ([]*ir.Dependence, error) {
	if !x.Base.Equal(y.Base) {
		return nil, ErrNotComparable
	}
	if !x.IsStore && !y.IsStore {
		return nil, ErrNotComparable
	}

	xd := toAccessDesc(x)
	yd := toAccessDesc(y)
	poly, err := polyhedra.Dependence(xd, yd, IntOps.NullSpace)
	if err != nil {
		return nil, err
	}
	if poly.Empty() || !poly.Feasible() {
		return nil, nil // no edge; not an error, per spec.md §7
	}

	if poly.TimeDim == 0 {
		return timelessCheck(x, y, poly)
	}
	return timeCheck(x, y, poly)
}

func toAccessDesc(a *ir.Address) polyhedra.AccessDesc {
	loopIneq := make([][]int, a.Loop.NumRows())
	for i := range loopIneq {
		loopIneq[i] = a.Loop.Row(i)
	}
	return polyhedra.AccessDesc{
		LoopIneq:   loopIneq,
		NumSymbols: a.Loop.NumSymbols(),
		N:          a.N,
		D:          a.D,
		Index:      a.Index,
		Offset:     a.Offset,
	}
}

// timelessCheck implements the "Timeless check" branch of spec.md §4.1:
// no reuse slack remains, so direction is decided purely by
// checkDirection and exactly one Dependence is created, attached to the
// sink (the later-executing access).
func timelessCheck(x, y *ir.Address, poly *polyhedra.DepPoly) ([]*ir.Dependence, error) {
	forward, decided := checkDirection(x, y, nil)
	if !decided {
		// No common depth distinguishes them and instruction order is
		// equal: fall back to treating x as the source, matching the
		// teacher's "stable" tie-break convention
		// (_examples/katalvlaran-lvlath/graph/algorithms/bfs.go orders
		// neighbors deterministically rather than leaving ties
		// unresolved).
		forward = true
	}
	pair := polyhedra.FarkasPair(poly, 1)
	src, dst := x, y
	if !forward {
		src, dst = y, x
	}
	dep := ir.NewDependence(src, dst, poly, forward)
	dep.Farkas = pair
	dep.NumPhiCoefficients = src.N + dst.N
	dep.InCurrentDepth = src.N
	dep.OutCurrentDepth = dst.N
	return []*ir.Dependence{dep}, nil
}

// timeCheck implements the "Time check" branch of spec.md §4.1: for each
// time dimension, the constant column is shifted by +-nullStep(t) to
// probe direction; the net shift is committed, and two Dependence edges
// (forward and backward) are produced because any repeat access across
// time creates both orderings.
func timeCheck(x, y *ir.Address, poly *polyhedra.DepPoly) ([]*ir.Dependence, error) {
	netShift := 0
	for t := 0; t < poly.TimeDim; t++ {
		step := poly.NullStep(t)
		fwd, _ := checkDirection(x, y, &probeShift{amount: step})
		if fwd {
			netShift += step
		} else {
			netShift -= step
		}
	}

	fwdPair := polyhedra.FarkasPair(poly, float64(1+netShift))
	bwdPair := polyhedra.FarkasPair(poly, float64(1-netShift))

	fwdDep := ir.NewDependence(x, y, poly, true)
	fwdDep.Farkas = fwdPair
	fwdDep.NumPhiCoefficients = x.N + y.N
	fwdDep.InCurrentDepth = x.N
	fwdDep.OutCurrentDepth = y.N

	bwdDep := ir.NewDependence(y, x, poly, false)
	bwdDep.Farkas = bwdPair
	bwdDep.NumPhiCoefficients = x.N + y.N
	bwdDep.InCurrentDepth = y.N
	bwdDep.OutCurrentDepth = x.N

	return []*ir.Dependence{fwdDep, bwdDep}, nil
}

// probeShift carries the temporary constant-column shift timeCheck
// applies while probing one time dimension's direction.
type probeShift struct {
	amount int
}

// checkDirection decides whether x happens before y (forward) by
// comparing FusionOmega entries at each common loop depth, outer-to-
// inner, per spec.md §4.1: "for each common loop depth outer-to-inner,
// compare fusion-omega; when those are equal the instruction order at
// shared depth decides. On the first decided depth the earlier node is
// the source." Returns decided=false if every common depth ties and no
// instruction-order tiebreak is available (probe is non-nil for the
// time-check path, which additionally offsets by probe.amount to test
// the effect of a one-step shift).
func checkDirection(x, y *ir.Address, probe *probeShift) (forward bool, decided bool) {
	common := x.N
	if y.N < common {
		common = y.N
	}
	for d := 0; d < common; d++ {
		xv := fusionAt(x, d)
		yv := fusionAt(y, d)
		if probe != nil {
			yv += probe.amount
		}
		if xv < yv {
			return true, true
		}
		if xv > yv {
			return false, true
		}
	}
	return false, false
}

func fusionAt(a *ir.Address, d int) int {
	if d < len(a.FusionOmega) {
		return a.FusionOmega[d]
	}
	return 0
}
