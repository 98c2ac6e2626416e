package loopsched_test

import (
	"testing"

	loopsched "github.com/katalvlaran/loopsched"
	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/arena"
	"github.com/katalvlaran/loopsched/ir"
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

// TestOptimize_SingleStoreLoop schedules a single store-only loop (a
// `for i: C[i] = ...` kernel with no cross-iteration dependence) end to
// end: the schedule LP, loop-tree materialization and cost-model search
// all have to agree on one leaf loop.
func TestOptimize_SingleStoreLoop(t *testing.T) {
	loop := boxLoop(t, 32)
	store, err := ir.NewAddress(ir.NewBasePointer("C"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	result, err := loopsched.Optimize(
		[]*ir.Address{store},
		[]*affine.Loop{loop},
		arena.NewBumpArena(),
		machine.SkylakeServerLike(),
	)
	require.NoError(t, err)
	require.NotNil(t, result.Tree)
	require.Len(t, result.Transforms, 1)

	lt := result.Transforms[0]
	assert.GreaterOrEqual(t, lt.RegisterUnrollFactor, 1)
	assert.GreaterOrEqual(t, lt.CacheUnrollFactor, 1)
}

func TestOptimize_NoAddressesErrors(t *testing.T) {
	_, err := loopsched.Optimize(nil, nil, arena.NewBumpArena(), machine.SkylakeServerLike())
	assert.ErrorIs(t, err, loopsched.ErrNoAddresses)
}

func TestOptimize_AddressOutsideDeclaredLoopsErrors(t *testing.T) {
	loop := boxLoop(t, 32)
	other := boxLoop(t, 32)
	store, err := ir.NewAddress(ir.NewBasePointer("C"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	_, err = loopsched.Optimize(
		[]*ir.Address{store},
		[]*affine.Loop{other},
		arena.NewBumpArena(),
		machine.SkylakeServerLike(),
	)
	assert.Error(t, err)
}
