package ir_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/ir"
	"github.com/stretchr/testify/assert"
)

func TestDependence_PushPopSatLevel_Identity(t *testing.T) {
	d := ir.NewDependence(nil, nil, nil, true)
	assert.False(t, d.Satisfied())

	snap := d.StashSatLevel()
	top := d.StashSatLevelTop()

	require := assert.New(t)
	require.NoError(d.PushSatLevel(3, true))
	require.True(d.Satisfied())

	popped, err := d.PopSatLevel()
	require.NoError(err)
	assert.Equal(t, uint8(3), popped.Depth)
	assert.True(t, popped.SatisfiedByLP)
	assert.False(t, d.Satisfied())

	// Round-trip law (spec.md §8): stash then restore is the identity.
	d.RestoreSatLevel(snap, top)
	assert.False(t, d.Satisfied())
}

func TestDependence_SatLevelOverflow(t *testing.T) {
	d := ir.NewDependence(nil, nil, nil, true)
	for i := 0; i < 9; i++ {
		if err := d.PushSatLevel(uint8(i), true); err != nil {
			assert.ErrorIs(t, err, ir.ErrSatLevelOverflow)
			return
		}
	}
	t.Fatal("expected overflow on the 9th push given the fixed 8-entry capacity")
}

func TestDependence_PopUnderflow(t *testing.T) {
	d := ir.NewDependence(nil, nil, nil, true)
	_, err := d.PopSatLevel()
	assert.ErrorIs(t, err, ir.ErrSatLevelUnderflow)
}

func TestAddress_InputOutputChains(t *testing.T) {
	x, _ := ir.NewAddress(ir.NewBasePointer("A"), boxLoop(t, 1, 4), 1, [][]int{{1}}, []int{0}, true)
	y, _ := ir.NewAddress(ir.NewBasePointer("A"), boxLoop(t, 1, 4), 1, [][]int{{1}}, []int{0}, false)

	d1 := ir.NewDependence(x, y, nil, true)
	d2 := ir.NewDependence(x, y, nil, true)

	outs := x.Outputs()
	assert.Len(t, outs, 2)
	assert.Equal(t, d2, outs[0]) // most recent prepended first
	assert.Equal(t, d1, outs[1])

	ins := y.Inputs()
	assert.Len(t, ins, 2)
}
