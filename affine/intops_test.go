package affine_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIntMatrixOps_ScaledInv_Identity(t *testing.T) {
	ops := affine.DefaultIntMatrixOps{}
	phi := [][]int{{1, 0}, {0, 1}}
	adj, det, err := ops.ScaledInv(phi)
	require.NoError(t, err)
	assert.Equal(t, 1, det)
	assert.Equal(t, [][]int{{1, 0}, {0, 1}}, adj)
}

func TestDefaultIntMatrixOps_ScaledInv_Permutation(t *testing.T) {
	ops := affine.DefaultIntMatrixOps{}
	// swap rows: Phi = [[0,1],[1,0]], Phi*Phi = I so Phi is its own scaled inverse.
	phi := [][]int{{0, 1}, {1, 0}}
	adj, det, err := ops.ScaledInv(phi)
	require.NoError(t, err)
	assert.Equal(t, -1, det)
	// verify Phi * adj == det * I
	n := len(phi)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0
			for k := 0; k < n; k++ {
				sum += phi[i][k] * adj[k][j]
			}
			want := 0
			if i == j {
				want = det
			}
			assert.Equal(t, want, sum, "Phi*adj must equal det*I at (%d,%d)", i, j)
		}
	}
}

func TestDefaultIntMatrixOps_ScaledInv_Singular(t *testing.T) {
	ops := affine.DefaultIntMatrixOps{}
	_, _, err := ops.ScaledInv([][]int{{1, 1}, {1, 1}})
	assert.ErrorIs(t, err, affine.ErrSingular)
}

func TestDefaultIntMatrixOps_Rank(t *testing.T) {
	ops := affine.DefaultIntMatrixOps{}
	assert.Equal(t, 2, ops.Rank([][]int{{1, 0}, {0, 1}}))
	assert.Equal(t, 1, ops.Rank([][]int{{1, 0}, {2, 0}}))
}

func TestDefaultIntMatrixOps_NullSpace(t *testing.T) {
	ops := affine.DefaultIntMatrixOps{}
	// M = [1 0 0] has null space spanned by e1, e2 (columns 1,2 free).
	ns := ops.NullSpace([][]int{{1, 0, 0}})
	assert.Len(t, ns, 2)
	for _, v := range ns {
		sum := v[0] * 1
		assert.Equal(t, 0, sum)
	}
}
