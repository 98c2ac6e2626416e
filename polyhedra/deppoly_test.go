package polyhedra_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/polyhedra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxIneq(trip int) [][]int {
	return [][]int{
		{0, 1},
		{trip - 1, -1},
	}
}

func TestDependence_GEMM_ReloadAlongK(t *testing.T) {
	// C[m,n] accessed by two stores at different k (reload-style reuse):
	// same index matrix (picks out m,n only), so a full loop's worth of
	// null space survives along k => TimeDim should be > 0.
	x := polyhedra.AccessDesc{
		LoopIneq: concatIneq(boxIneq(8), boxIneq(8), boxIneq(8)),
		N:        3, D: 2,
		Index:  [][]int{{1, 0, 0}, {0, 1, 0}},
		Offset: []int{0, 0},
	}
	y := x

	ops := affine.DefaultIntMatrixOps{}
	poly, err := polyhedra.Dependence(x, y, ops.NullSpace)
	require.NoError(t, err)
	assert.Equal(t, 1, poly.TimeDim, "the shared k axis is pure reuse slack")
	assert.False(t, poly.Empty())
}

func TestDependence_DimensionMismatch(t *testing.T) {
	x := polyhedra.AccessDesc{N: 1, D: 1, Index: [][]int{{1}}, Offset: []int{0}}
	y := polyhedra.AccessDesc{N: 1, D: 2, Index: [][]int{{1}, {1}}, Offset: []int{0, 0}}
	_, err := polyhedra.Dependence(x, y, nil)
	assert.ErrorIs(t, err, polyhedra.ErrDimensionMismatch)
}

func TestFarkasPair_ColumnCount(t *testing.T) {
	x := polyhedra.AccessDesc{
		LoopIneq: boxIneq(8),
		N:        1, D: 1,
		Index:  [][]int{{1}},
		Offset: []int{0},
	}
	poly, err := polyhedra.Dependence(x, x, nil)
	require.NoError(t, err)
	pair := polyhedra.FarkasPair(poly, 1)
	assert.Equal(t, poly.NumLambda, pair.Forward.NumLambda)
	assert.Equal(t, poly.NumLambda, pair.Backward.NumLambda)
}

func TestCheckSat_FixedRowEliminatesFeasibility(t *testing.T) {
	x := polyhedra.AccessDesc{
		LoopIneq: boxIneq(8),
		N:        1, D: 1,
		Index:  [][]int{{1}},
		Offset: []int{0},
	}
	poly, err := polyhedra.Dependence(x, x, nil)
	require.NoError(t, err)

	// Fixing i_x's schedule row to 1*i_x+0 and i_y's to 1*i_y+1 forces
	// i_x == i_y+1, which is inconsistent with the same-cell equality
	// i_x == i_y the self-dependence also carries, whatever the loop
	// bounds: the conditioned polyhedron is empty.
	sat := polyhedra.CheckSat(poly, []polyhedra.FixedRow{{XRow: []int{1}, XOmega: 0, YRow: []int{1}, YOmega: 1}})
	assert.False(t, sat)
}

// concatIneq reindexes and stacks per-loop box constraints into one
// combined loop-nest constraint matrix over n = len(boxes) induction
// variables (no symbols).
func concatIneq(boxes ...[][]int) [][]int {
	n := len(boxes)
	var out [][]int
	for idx, rows := range boxes {
		for _, r := range rows {
			row := make([]int, 1+n)
			row[0] = r[0]
			row[1+idx] = r[1]
			out = append(out, row)
		}
	}
	return out
}
