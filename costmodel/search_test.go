package costmodel

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/looptree"
	"github.com/katalvlaran/loopsched/machine"
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

func TestSearch_SingleLeaf_ReturnsBoundedTransform(t *testing.T) {
	loop := boxLoop(t, 64)
	store, err := ir.NewAddress(ir.NewBasePointer("C"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)
	load, err := ir.NewAddress(ir.NewBasePointer("A"), loop, 1, [][]int{{1}}, []int{0}, false)
	require.NoError(t, err)

	node := ir.NewScheduledNode([]int{0}, 1)
	node.FusionOmega = []int{0}

	tree, err := looptree.Materialize([]looptree.NodeAddrs{
		{Node: node, Addrs: []*ir.Address{store, load}},
	}, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)

	m := machine.SkylakeServerLike()
	transforms, err := Search(tree, m, []string{"fma"})
	require.NoError(t, err)
	require.Len(t, transforms, 1)

	lt := transforms[0]
	assert.Contains(t, []int{1, 2, 4, 8, 16}, lt.L2VectorWidth)
	assert.GreaterOrEqual(t, lt.RegisterUnrollFactor, 1)
	assert.LessOrEqual(t, lt.RegisterUnrollFactor, 16)
	assert.GreaterOrEqual(t, lt.CacheUnrollFactor, 1)
	// Cache factor is bounded by the loop's trip count and cache
	// geometry, not by the register-unroll factor: the two need not
	// divide one another once they come from independent searches.
	assert.LessOrEqual(t, lt.CacheUnrollFactor, 64)
	assert.Len(t, lt.CachePermutation, 1)
}

func TestSearch_EmptyTreeErrors(t *testing.T) {
	root, err := looptree.Materialize(nil, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)
	_, err = Search(root, machine.SkylakeServerLike(), nil)
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestSearch_TwoAxisNest_PermutesCacheLoops(t *testing.T) {
	inner, err := affine.NewLoop(0, 2)
	require.NoError(t, err)
	require.NoError(t, inner.AddRow([]int{0, 1, 0}))
	require.NoError(t, inner.AddRow([]int{255, -1, 0}))
	require.NoError(t, inner.AddRow([]int{0, 0, 1}))
	require.NoError(t, inner.AddRow([]int{31, 0, -1}))

	store, err := ir.NewAddress(ir.NewBasePointer("C"), inner, 1, [][]int{{1, 1}}, []int{0}, true)
	require.NoError(t, err)
	load, err := ir.NewAddress(ir.NewBasePointer("A"), inner, 1, [][]int{{0, 1}}, []int{0}, false)
	require.NoError(t, err)

	node := ir.NewScheduledNode([]int{0, 0}, 2)
	node.FusionOmega = []int{0, 0}

	tree, err := looptree.Materialize([]looptree.NodeAddrs{
		{Node: node, Addrs: []*ir.Address{store, load}},
	}, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)

	m := machine.CacheFitLike()
	transforms, err := Search(tree, m, []string{"fma"})
	require.NoError(t, err)
	require.Len(t, transforms, 1)
	assert.Len(t, transforms[0].CachePermutation, 2)
}
