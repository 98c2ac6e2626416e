// Package loopsched (loopsched) is a polyhedral loop-nest optimizer: it
// schedules a flat set of memory accesses into a nested loop structure
// and picks register, vectorization and cache-blocking transforms for
// each resulting loop.
//
// 🚀 What is loopsched?
//
//	A dependency-light scheduling core that brings together:
//
//	  • Affine dependence analysis: per-pair dependence polyhedra, Farkas
//	    duality, conditional independence tests
//	  • An affine schedule LP: lexicographic simplex search for a
//	    legal Phi/omega schedule per node, with SCC-decomposition and
//	    greedy fusion as a fallback when no single schedule satisfies
//	    every dependence at once
//	  • Loop-tree materialization: rotating every address by its node's
//	    inverse schedule and placing it in the resulting nest
//	  • A cost-model search: register unroll, vectorization width and
//	    cache-block factor, chosen against a leaky-ReLU roofline cost
//
// ✨ Why loopsched?
//
//   - Single entry point    — Optimize takes addresses, loops and a
//     target machine descriptor and returns a materialized schedule
//   - External collaborators — SSA ingestion, machine descriptions and
//     codegen stay outside the core; it consumes interfaces, not
//     concrete integrations
//   - Arena discipline       — every speculative recursive attempt is
//     bracketed by an arena.Checkpoint/Release pair, so a failed
//     schedule search never leaks partial state into the next attempt
//
// Under the hood, everything is organized under per-concern subpackages:
//
//	affine/     — affine loop descriptors and integer linear algebra
//	ir/         — Address, Dependence, ScheduledNode: the scheduler's data model
//	polyhedra/  — dependence polyhedra and Farkas pairs
//	simplex/    — the lexicographic simplex tableau the schedule LP solves
//	dependence/ — Check/Reload/CheckSat: building and retiring dependence edges
//	loopblock/  — the schedule LP and its SCC-decomposition fallback
//	looptree/   — materializing a solved schedule into a loop tree
//	costmodel/  — register/vector/cache transform search
//	machine/    — the target-hardware descriptor the cost model searches against
//	arena/      — the bump-allocator checkpoint/rollback interface
//
// Quick example:
//
//	result, err := loopsched.Optimize(addrs, loops, arena.NewBumpArena(), machine.SkylakeServerLike())
//
// schedules addrs into result.Tree and returns one costmodel.LoopTransform
// per leaf loop in result.Transforms.
package loopsched
