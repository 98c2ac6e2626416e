package arena_test

import (
	"testing"

	"github.com/katalvlaran/loopsched/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpArena_MarkRelease(t *testing.T) {
	a := arena.NewBumpArena()

	cp0 := a.Mark()
	off1 := a.Alloc(16)
	assert.Equal(t, 0, off1)

	cp1 := a.Mark()
	off2 := a.Alloc(32)
	assert.Equal(t, 16, off2)

	// Rolling back cp1 discards the second allocation only.
	a.Release(cp1)
	off3 := a.Alloc(8)
	assert.Equal(t, 16, off3, "released arena must reuse the freed extent")

	// Rolling back cp0 discards everything.
	a.Release(cp0)
	off4 := a.Alloc(4)
	assert.Equal(t, 0, off4)
}

func TestAssert_PanicsOnlyWhenEnabled(t *testing.T) {
	arena.DebugAssertions = false
	require.NotPanics(t, func() { arena.Assert(false, "never enabled") })

	arena.DebugAssertions = true
	defer func() { arena.DebugAssertions = false }()
	assert.Panics(t, func() { arena.Assert(false, "enabled now") })
}
