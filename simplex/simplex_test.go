package simplex_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/simplex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableau_FeasibleMinimize(t *testing.T) {
	// x0 + x1 = 4, x0 - x1 = 0  =>  x0 = x1 = 2. Minimize x0.
	a := [][]float64{{1, 1}, {1, -1}}
	b := []float64{4, 0}
	tb, err := simplex.NewTableau(a, b)
	require.NoError(t, err)

	err = tb.Minimize([][]float64{{1, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, tb.Value(0), 1e-6)
	assert.InDelta(t, 2.0, tb.Value(1), 1e-6)
}

func TestTableau_Infeasible(t *testing.T) {
	// x0 = 1 and x0 = 2 simultaneously: infeasible.
	a := [][]float64{{1}, {1}}
	b := []float64{1, 2}
	_, err := simplex.NewTableau(a, b)
	assert.ErrorIs(t, err, simplex.ErrInfeasible)
}

func TestTableau_LexicographicOrder(t *testing.T) {
	// x0 + x1 = 5, x0,x1 >= 0. Lexicographically minimize x0 then x1:
	// first pass pins x0 to 0, second objective then fixes x1 to 5.
	a := [][]float64{{1, 1}}
	b := []float64{5}
	tb, err := simplex.NewTableau(a, b)
	require.NoError(t, err)

	err = tb.Minimize([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, tb.Value(0), 1e-6)
	assert.InDelta(t, 5.0, tb.Value(1), 1e-6)
}

func TestTableau_DimensionMismatch(t *testing.T) {
	_, err := simplex.NewTableau([][]float64{{1, 2}, {1}}, []float64{1, 2})
	assert.ErrorIs(t, err, simplex.ErrDimensionMismatch)
}
