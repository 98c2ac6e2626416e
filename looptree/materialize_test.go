package looptree_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/looptree"
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

func TestMaterialize_IdentitySchedule_LandsAtOwnDepth(t *testing.T) {
	loop := boxLoop(t, 8)
	addr, err := ir.NewAddress(ir.NewBasePointer("A"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	node := ir.NewScheduledNode([]int{0}, 1)
	node.FusionOmega = []int{0, 0}

	root, err := looptree.Materialize([]looptree.NodeAddrs{{Node: node, Addrs: []*ir.Address{addr}}}, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)

	require.Len(t, root.Children(), 1)
	leaf := root.Children()[0]
	require.Len(t, leaf.Block.Addrs, 1)
	assert.Equal(t, 1, leaf.Depth)
	assert.Equal(t, addr.Index, leaf.Block.Addrs[0].Index)
	assert.True(t, leaf.Block.Addrs[0].IsStore)
}

func TestMaterialize_DistinctFusionOmega_SeparateSiblings(t *testing.T) {
	loop := boxLoop(t, 8)
	a1, err := ir.NewAddress(ir.NewBasePointer("A"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)
	a2, err := ir.NewAddress(ir.NewBasePointer("B"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	n1 := ir.NewScheduledNode([]int{0}, 1)
	n1.FusionOmega = []int{0, 0}
	n2 := ir.NewScheduledNode([]int{0}, 1)
	n2.FusionOmega = []int{1, 0}

	root, err := looptree.Materialize([]looptree.NodeAddrs{
		{Node: n1, Addrs: []*ir.Address{a1}},
		{Node: n2, Addrs: []*ir.Address{a2}},
	}, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)

	require.Len(t, root.Children(), 2)
	assert.Equal(t, "A", root.Children()[0].Block.Addrs[0].Base.String())
	assert.Equal(t, "B", root.Children()[1].Block.Addrs[0].Base.String())
}

func TestPlaceAddr_StoreBeforeLoadOfSameBase(t *testing.T) {
	loop := boxLoop(t, 8)
	base := ir.NewBasePointer("acc")
	load, err := ir.NewAddress(base, loop, 1, [][]int{{1}}, []int{0}, false)
	require.NoError(t, err)
	store, err := ir.NewAddress(base, loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)
	// store produces the value load consumes: a real dependence edge,
	// not a base-pointer heuristic.
	ir.NewDependence(store, load, nil, true)
	succ := map[*ir.Address][]*ir.Address{store: {load}}

	ordered := looptree.PlaceAddr([]*ir.Address{load, store}, succ)
	require.Len(t, ordered, 2)
	assert.True(t, ordered[0].IsStore)
	assert.True(t, ordered[1].IsLoad)
}

func TestPlaceAddr_NoConstraint_KeepsGivenOrder(t *testing.T) {
	loop := boxLoop(t, 8)
	a, err := ir.NewAddress(ir.NewBasePointer("A"), loop, 1, [][]int{{1}}, []int{0}, false)
	require.NoError(t, err)
	b, err := ir.NewAddress(ir.NewBasePointer("B"), loop, 1, [][]int{{1}}, []int{0}, false)
	require.NoError(t, err)

	ordered := looptree.PlaceAddr([]*ir.Address{a, b}, nil)
	require.Len(t, ordered, 2)
	assert.Same(t, a, ordered[0])
	assert.Same(t, b, ordered[1])
}

func TestMaterialize_HoistsAxisIndependentAddressToParent(t *testing.T) {
	outer, err := affine.NewLoop(0, 2)
	require.NoError(t, err)
	require.NoError(t, outer.AddRow([]int{0, 1, 0}))
	require.NoError(t, outer.AddRow([]int{7, -1, 0}))
	require.NoError(t, outer.AddRow([]int{0, 0, 1}))
	require.NoError(t, outer.AddRow([]int{7, 0, -1}))

	// acc's subscript ignores the inner loop axis (column 1 is zero):
	// it is invariant across that axis and carries no dependence on
	// anything else in the inner block, so it should hoist up a level.
	acc, err := ir.NewAddress(ir.NewBasePointer("acc"), outer, 1, [][]int{{1, 0}}, []int{0}, true)
	require.NoError(t, err)
	x, err := ir.NewAddress(ir.NewBasePointer("x"), outer, 1, [][]int{{1, 1}}, []int{0}, false)
	require.NoError(t, err)

	node := ir.NewScheduledNode([]int{0, 0}, 2)
	node.FusionOmega = []int{0, 0}

	root, err := looptree.Materialize([]looptree.NodeAddrs{
		{Node: node, Addrs: []*ir.Address{acc, x}},
	}, affine.DefaultIntMatrixOps{})
	require.NoError(t, err)

	require.Len(t, root.Children(), 1)
	outerLevel := root.Children()[0]
	require.Len(t, outerLevel.Children(), 1)
	innerLevel := outerLevel.Children()[0]

	require.Len(t, outerLevel.Block.Addrs, 1)
	assert.Equal(t, "acc", outerLevel.Block.Addrs[0].Base.String())
	require.Len(t, innerLevel.Block.Addrs, 1)
	assert.Equal(t, "x", innerLevel.Block.Addrs[0].Base.String())
}
