package looptree

import "github.com/katalvlaran/loopsched/ir"

// InstructionBlock is a header block of one loop-tree level: a vector of
// rotated Address pointers in execution order, per spec.md §3's
// LoopTreeSchedule.
type InstructionBlock struct {
	Addrs []*ir.Address
}

// Schedule is a recursive loop-tree node: a header InstructionBlock plus
// child subtrees reached at the next depth, per spec.md §3's invariant
// "child.depth == parent.depth + 1". Children are keyed by the fusion-ω
// coordinate at this depth, so distinct fusion groups at the same depth
// become distinct sibling loops (spec.md §4.3's "using the new fusion-ω
// as coordinates, descend/insert into the loop tree").
type Schedule struct {
	Depth  int
	Parent *Schedule
	Block  *InstructionBlock

	children map[int]*Schedule
	keys     []int // children map keys, kept in ascending order
}

// newSchedule allocates an empty Schedule at depth, parented under
// parent (nil for the root).
func newSchedule(depth int, parent *Schedule) *Schedule {
	return &Schedule{
		Depth:    depth,
		Parent:   parent,
		Block:    &InstructionBlock{},
		children: make(map[int]*Schedule),
	}
}

// Children returns this level's subtrees ordered by ascending fusion-ω
// key, matching the topological pre-order spec.md §4.4 reads loop
// summaries in.
func (s *Schedule) Children() []*Schedule {
	out := make([]*Schedule, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.children[k]
	}
	return out
}

// child returns (creating if absent) the subtree reached by key at this
// level, keeping s.keys sorted on insertion.
func (s *Schedule) child(key int) *Schedule {
	if c, ok := s.children[key]; ok {
		return c
	}
	c := newSchedule(s.Depth+1, s)
	s.children[key] = c
	insertSorted(&s.keys, key)
	return c
}

func insertSorted(keys *[]int, key int) {
	i := 0
	for i < len(*keys) && (*keys)[i] < key {
		i++
	}
	*keys = append(*keys, 0)
	copy((*keys)[i+1:], (*keys)[i:len(*keys)-1])
	(*keys)[i] = key
}

// descend walks (creating as needed) the path given by fusionOmega[0:n]
// below root and returns the Schedule at depth n, per spec.md §4.3's
// "creating subTrees as needed so that every access lands at the depth
// equal to its node's numLoops".
func descend(root *Schedule, fusionOmega []int, n int) *Schedule {
	cur := root
	for d := 0; d < n; d++ {
		key := 0
		if d < len(fusionOmega) {
			key = fusionOmega[d]
		}
		cur = cur.child(key)
	}
	return cur
}
