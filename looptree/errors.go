// Package looptree builds the hierarchical loop tree a solved schedule
// materializes into, per spec.md §4.3: rotating every address by its
// node's inverse schedule and placing it at the tree depth equal to its
// node's loop count, topologically ordered within each level by the
// strongly connected components of the address dependence graph.
//
// Grounded on the teacher's tree-of-vertices-and-subtrees shape
// (_examples/katalvlaran-lvlath/core/types.go's Graph composed of
// Vertices/Edges, generalized here to a recursive loop-tree) and on
// _examples/fkuehnel-golang-cfg/go-code/scc.go's SCC construction,
// reused for per-level address placement.
package looptree

import "errors"

// ErrSingular is returned by Materialize when a node's schedule matrix
// has no integer scaled inverse (propagated from affine.IntMatrixOps).
var ErrSingular = errors.New("looptree: schedule matrix is singular")

// ErrDimensionMismatch is returned when a node's Phi/Omega disagree in
// shape with its own NumLoops, or an address's depth disagrees with its
// owning node.
var ErrDimensionMismatch = errors.New("looptree: dimension mismatch")
