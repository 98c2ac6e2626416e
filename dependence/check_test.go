package dependence_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/dependence"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxLoop(t *testing.T, trip int) *affine.Loop {
	t.Helper()
	l, err := affine.NewLoop(0, 1)
	require.NoError(t, err)
	require.NoError(t, l.AddRow([]int{0, 1}))
	require.NoError(t, l.AddRow([]int{trip - 1, -1}))
	return l
}

func TestCheck_TimelessSinglePointDependence(t *testing.T) {
	// Store A[i,0] over i in [0,7]; load A[0,j] over j in [0,7]. The two
	// only ever address the same cell at i=j=0 -- a single point, so the
	// combined index matrix has no reuse slack (TimeDim == 0) and Check
	// takes the timeless path, producing exactly one edge.
	iLoop := boxLoop(t, 8)
	jLoop := boxLoop(t, 8)
	base := ir.NewBasePointer("A")
	store, err := ir.NewAddress(base, iLoop, 2, [][]int{{1}, {0}}, []int{0, 0}, true)
	require.NoError(t, err)
	load, err := ir.NewAddress(base, jLoop, 2, [][]int{{0}, {1}}, []int{0, 0}, false)
	require.NoError(t, err)
	store.FusionOmega = []int{0}
	load.FusionOmega = []int{1}

	deps, err := dependence.Check(store, load)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Same(t, store, deps[0].In)
	assert.Same(t, load, deps[0].Out)
	assert.True(t, deps[0].Forward)
}

func TestCheck_DisjointOffsets_NoEdge(t *testing.T) {
	loop := boxLoop(t, 8)
	base := ir.NewBasePointer("x")
	// i -> i and i -> i+100: never the same cell within a length-8 loop's
	// worth of offset difference, so the dependence polyhedron is empty.
	store, err := ir.NewAddress(base, loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)
	load, err := ir.NewAddress(base, loop, 1, [][]int{{1}}, []int{100}, false)
	require.NoError(t, err)

	deps, err := dependence.Check(store, load)
	require.NoError(t, err)
	assert.Nil(t, deps)
}

func TestCheck_NotComparable_DifferentBase(t *testing.T) {
	loop := boxLoop(t, 8)
	store, err := ir.NewAddress(ir.NewBasePointer("x"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)
	load, err := ir.NewAddress(ir.NewBasePointer("y"), loop, 1, [][]int{{1}}, []int{0}, false)
	require.NoError(t, err)

	_, err = dependence.Check(store, load)
	assert.ErrorIs(t, err, dependence.ErrNotComparable)
}

func TestReload_SelfDependence(t *testing.T) {
	loop := boxLoop(t, 8)
	store, err := ir.NewAddress(ir.NewBasePointer("acc"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	reload, dep, err := dependence.Reload(store)
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.True(t, reload.IsReload)
	assert.Same(t, store, dep.In)
	assert.Same(t, reload, dep.Out)
}
