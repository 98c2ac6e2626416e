package costmodel

import (
	"testing"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneLevel(assoc int, victim bool) []machine.CacheLevel {
	return []machine.CacheLevel{{BytesPerLine: 64, Associativity: assoc, Victim: victim, InvBandwidth: 1.0 / 32}}
}

func TestMaxFittingFactor_ScansDownToAssociativityBound(t *testing.T) {
	deps := []DepSummary{{DependsOnAxis: true, FitCoef: 4, CostCoef: 4}}
	level := oneLevel(8, false)[0]
	// way-usage(s) = ceil(s*4/64); fits <= 8 ways requires s*4/64 <= 8,
	// i.e. s <= 128.
	got := maxFittingFactor(level, deps, 4096, 0)
	assert.Equal(t, 128, got)
}

func TestMaxFittingFactor_VictimUsesIncrementalOccupancy(t *testing.T) {
	deps := []DepSummary{{DependsOnAxis: true, FitCoef: 64, CostCoef: 64}}
	level := oneLevel(4, true)[0]
	// way-usage(s) = ceil(s*64/64) = s; victim occupancy = s - prevUsage,
	// must stay <= 4, so with prevUsage=2, s <= 6.
	got := maxFittingFactor(level, deps, 4096, 2)
	assert.Equal(t, 6, got)
}

func TestCacheOptimize_FitsWithinAssociativity(t *testing.T) {
	deps := []DepSummary{{DependsOnAxis: true, FitCoef: 4, CostCoef: 4, CopiesOnFit: false}}
	levels := oneLevel(8, false)
	cf, err := CacheOptimize(deps, levels, 1000, 4096)
	require.NoError(t, err)
	assert.LessOrEqual(t, cf, 128)
	assert.GreaterOrEqual(t, cf, 1)
}

func TestCacheOptimize_IndependentAccessPrefersLargerTile(t *testing.T) {
	// An axis-independent access only grows cheaper (amortized over a
	// bigger tile) as cf grows, so the optimizer should not shrink cf
	// below what associativity allows.
	deps := []DepSummary{{DependsOnAxis: false, CostCoef: 4}}
	levels := oneLevel(64, false)
	cf, err := CacheOptimize(deps, levels, 512, 512)
	require.NoError(t, err)
	assert.Equal(t, 512, cf)
}

func TestCacheOptimize_RejectsEmptyRange(t *testing.T) {
	_, err := CacheOptimize(nil, oneLevel(8, false), 0, 0)
	assert.ErrorIs(t, err, ErrNoFit)
}

func TestSummarizeForCache_StoreDependentAxisCopiesOnFit(t *testing.T) {
	loop, err := affine.NewLoop(0, 1)
	require.NoError(t, err)
	require.NoError(t, loop.AddRow([]int{0, 1}))
	require.NoError(t, loop.AddRow([]int{63, -1}))
	addr, err := ir.NewAddress(ir.NewBasePointer("C"), loop, 1, [][]int{{1}}, []int{0}, true)
	require.NoError(t, err)

	profiles := []AccessProfile{ProfileAccess(addr, 1)}
	deps := SummarizeForCache(profiles, 0, 4)
	require.Len(t, deps, 1)
	assert.True(t, deps[0].DependsOnAxis)
	assert.True(t, deps[0].CopiesOnFit)
}
