package polyhedra

import (
	"errors"

	"github.com/katalvlaran/loopsched/simplex"
)

// FixedRow pins one already-scheduled depth of both endpoints: the
// dependence can only still fire at a strictly deeper depth if the two
// sides' transformed iteration coordinates coincide at every already-
// fixed depth, per spec.md §4.1's checkSat.
type FixedRow struct {
	XRow   []int // length poly.NX
	XOmega int
	YRow   []int // length poly.NY
	YOmega int
}

// Feasible reports whether the dependence polyhedron itself (ignoring any
// schedule) has any integer-or-rational solution: { z : Ineq*z >= 0,
// Eq*z = 0 }. Dependence.Check uses this to decide "no edge" when two
// accesses can never address the same memory cell within their loop
// bounds, beyond the cheap trivial-equality check in DepPoly.Empty.
func (p *DepPoly) Feasible() bool {
	return feasible(p.Ineq, p.Eq, p.cols())
}

// CheckSat conditions poly on fixedRows (the schedule rows already
// decided by outer LP levels) and reports whether the dependence
// polyhedron remains feasible. false means the fixed rows already force
// the two accesses apart — the dependence is satisfied by conditional
// independence at this depth rather than by an LP offset, per the
// universal invariant in spec.md §8.
func CheckSat(poly *DepPoly, fixedRows []FixedRow) bool {
	width := poly.cols()
	eq := append([][]int(nil), poly.Eq...)
	for _, fr := range fixedRows {
		row := make([]int, width)
		row[0] = fr.XOmega - fr.YOmega
		for j, v := range fr.XRow {
			row[1+poly.NumSymbols+j] = v
		}
		for j, v := range fr.YRow {
			row[1+poly.NumSymbols+poly.NX+j] = -v
		}
		eq = append(eq, row)
	}
	return feasible(poly.Ineq, eq, width)
}

// feasible reports whether { z : Ineq*z >= 0, Eq*z = 0 } is nonempty,
// via the standard nonnegative-variable split z = z+ - z- and inequality
// slacks, reusing the simplex package's two-phase feasibility check
// (NewTableau returns ErrInfeasible exactly when no feasible point
// exists).
func feasible(ineq, eq [][]int, width int) bool {
	// Columns: [z+_0..z+_{width-1} | z-_0..z-_{width-1} | slack_0..slack_{numIneq-1}]
	numIneq := len(ineq)
	total := 2*width + numIneq
	var a [][]float64
	var b []float64

	for i, row := range ineq {
		r := make([]float64, total)
		for j, v := range row {
			r[j] = float64(v)
			r[width+j] = -float64(v)
		}
		r[2*width+i] = -1
		a = append(a, r)
		b = append(b, 0)
	}
	for _, row := range eq {
		r := make([]float64, total)
		for j, v := range row {
			r[j] = float64(v)
			r[width+j] = -float64(v)
		}
		a = append(a, r)
		b = append(b, 0)
	}

	// z_0 (the constant coordinate) must equal 1, not merely be free and
	// nonneg after splitting; pin it with an explicit equality row.
	pin := make([]float64, total)
	pin[0] = 1
	pin[width] = -1
	a = append(a, pin)
	b = append(b, 1)

	if len(a) == 0 {
		return true
	}
	_, err := simplex.NewTableau(a, b)
	if err != nil {
		if errors.Is(err, simplex.ErrInfeasible) {
			return false
		}
		return false
	}
	return true
}
