package dependence

import (
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/polyhedra"
)

// CheckSat conditions dep's polyhedron on the schedule rows already fixed
// for its In/Out nodes up through (and including) depth, and, if
// infeasible, marks the dependence satisfied by conditional independence
// at that depth (the SatisfiedByLP=false branch of the universal
// invariant in spec.md §8). It reports whether the dependence was marked
// satisfied.
func CheckSat(dep *ir.Dependence, inPhi [][]int, inOmega []int, outPhi [][]int, outOmega []int, depth int) (bool, error) {
	var rows []polyhedra.FixedRow
	for d := 0; d <= depth && d < len(inPhi) && d < len(outPhi); d++ {
		rows = append(rows, polyhedra.FixedRow{
			XRow: inPhi[d], XOmega: safeAt(inOmega, d),
			YRow: outPhi[d], YOmega: safeAt(outOmega, d),
		})
	}
	if polyhedra.CheckSat(dep.Poly, rows) {
		return false, nil
	}
	if err := dep.PushSatLevel(uint8(depth), false); err != nil {
		return false, err
	}
	return true, nil
}

func safeAt(v []int, i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}
