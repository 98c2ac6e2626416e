package loopsched

import (
	"github.com/katalvlaran/loopsched/costmodel"
	"github.com/katalvlaran/loopsched/looptree"
)

// Result is Optimize's output: the materialized loop tree (rotated
// addresses, grouped by fusion order) and one LoopTransform per leaf
// loop, in the same depth-first order looptree.Schedule.Children()
// exposes, per SPEC_FULL.md §6.
type Result struct {
	Tree       *looptree.Schedule
	Transforms []costmodel.LoopTransform
}
