// Package loopblock owns the schedule LP: a set of addresses, the
// dependences between them, the nodes they are grouped into, and the
// per-depth lexicographic linear program that fixes each node's affine
// schedule (Phi, omega, fusionOmega), per spec.md §4.2.
//
// Grounded on the teacher's graph-as-owner-of-vertices-and-edges shape
// (_examples/katalvlaran-lvlath/core/types.go's Graph holding Vertices
// and Edges) generalized from a generic graph to the address/dependence/
// node triple spec.md §3 describes, and on
// _examples/fkuehnel-golang-cfg/go-code/scc.go's Kosaraju-Sharir SCC
// pass for BreakGraph.
package loopblock

import "errors"

// ErrNotComparable names two addresses that can never form a dependence
// edge. No function in this package returns it: FillEdges skips pairs
// with different base pointers or without a store, and errors from
// dependence.Check are passed on unchanged.
var ErrNotComparable = errors.New("loopblock: addresses are not comparable")

// ErrUnsatisfiable is returned by Optimize when no recursion path -
// direct solve, sat-dep retry, or break-graph - produces a complete
// schedule down to maxDepth, per spec.md §7's "Unsatisfiable dependence
// after all recursion paths" failure class.
var ErrUnsatisfiable = errors.New("loopblock: schedule is unsatisfiable")

// ErrSingleComponent is returned by BreakGraph when the active node
// graph is already one strongly connected component: breaking it further
// cannot help, per spec.md §4.2's "if one component, give up".
var ErrSingleComponent = errors.New("loopblock: graph is a single strongly connected component")
