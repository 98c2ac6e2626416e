package affine_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBoxLoop constructs a 0 <= i < trip loop nest with one induction
// variable and no symbols.
func buildBoxLoop(t *testing.T, trip int) *affine.Loop {
	t.Helper()
	l, err := affine.NewLoop(0, 1)
	require.NoError(t, err)
	require.NoError(t, l.AddRow([]int{0, 1}))         // i >= 0
	require.NoError(t, l.AddRow([]int{trip - 1, -1})) // trip-1 - i >= 0
	return l
}

func TestLoop_TripCount(t *testing.T) {
	l := buildBoxLoop(t, 8)
	tc := l.TripCount(0)
	assert.True(t, tc.Known)
	assert.Equal(t, 8, tc.Count)
}

func TestLoop_RemoveLevel(t *testing.T) {
	l, err := affine.NewLoop(0, 2)
	require.NoError(t, err)
	require.NoError(t, l.AddRow([]int{0, 1, 0}))
	require.NoError(t, l.AddRow([]int{7, -1, 0}))
	require.NoError(t, l.AddRow([]int{0, 0, 1}))
	require.NoError(t, l.AddRow([]int{7, 0, -1}))

	require.NoError(t, l.RemoveLevel(1))
	assert.Equal(t, 1, l.NumLoops())
	tc := l.TripCount(0)
	assert.True(t, tc.Known)
	assert.Equal(t, 8, tc.Count)
}

func TestLoop_Rotate_Identity(t *testing.T) {
	l := buildBoxLoop(t, 8)
	before := l.Row(0)
	require.NoError(t, l.Rotate([][]int{{1}}))
	assert.Equal(t, before, l.Row(0))
}

func TestLoop_AddRow_DimensionMismatch(t *testing.T) {
	l, err := affine.NewLoop(0, 2)
	require.NoError(t, err)
	err = l.AddRow([]int{0, 1})
	assert.ErrorIs(t, err, affine.ErrDimensionMismatch)
}

func TestNewLoop_InvalidShape(t *testing.T) {
	_, err := affine.NewLoop(-1, 1)
	assert.ErrorIs(t, err, affine.ErrInvalidShape)
}
