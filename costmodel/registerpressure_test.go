package costmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoose_DividesOuterUnroll(t *testing.T) {
	for outer := 1; outer <= 16; outer++ {
		for ub := 1; ub <= 16; ub++ {
			got := choose(outer, ub)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, ub)
			assert.Zero(t, outer%got, "choose(%d,%d)=%d must divide %d", outer, ub, got, outer)
		}
	}
}

func TestChoose_NonPositiveOuterDegradesToOne(t *testing.T) {
	assert.Equal(t, 1, choose(0, 8))
	assert.Equal(t, 1, choose(-3, 8))
}
