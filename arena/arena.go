// Package arena models the bump-allocator the optimizer core is handed by
// its host. The core never frees individual objects; it only ever takes a
// Checkpoint before a speculative attempt and Rolls back on failure, so the
// interface surface is deliberately tiny.
//
// Per the specification this allocator is an external collaborator: the
// core consumes the interface, not a specific implementation. BumpArena is
// a concrete, dependency-free implementation suitable for tests and for
// hosts that have no allocator of their own.
package arena

// Checkpoint is an opaque marker returned by Arena.Mark, rewindable with
// Arena.Release. Checkpoints nest: releasing an outer checkpoint discards
// everything allocated after it, including after any inner checkpoint.
type Checkpoint struct {
	gen int // arena offset at the time Mark was called
}

// Arena is the allocation scope handed to every top-level optimization
// call. Implementations need not be safe for concurrent use; callers give
// each concurrent Optimize call its own Arena.
type Arena interface {
	// Mark returns a Checkpoint capturing the arena's current extent.
	Mark() Checkpoint

	// Release frees everything allocated since cp was returned by Mark.
	// Releasing a stale (already-released, out-of-order) checkpoint is a
	// programmer error; see DebugAssertions in this package for how that
	// is surfaced.
	Release(cp Checkpoint)

	// Alloc reserves n bytes of scratch space and returns a handle opaque
	// to callers; the core itself never dereferences raw arena memory, it
	// only uses Arena to bound the lifetime of higher-level scratch slices
	// it allocates with ordinary Go slices guarded by a checkpoint.
	Alloc(n int) int
}

// BumpArena is a minimal monotonic region allocator. It does not back real
// memory — Alloc only hands out a monotonically increasing offset — because
// every data structure in this module is an ordinary Go value owned by the
// garbage collector; BumpArena exists so that the Checkpoint/Release
// discipline described in spec.md §5 and §9 has something concrete to run
// against in tests and examples.
type BumpArena struct {
	offset int
	gen    int
}

// NewBumpArena returns an empty BumpArena.
func NewBumpArena() *BumpArena {
	return &BumpArena{}
}

// Mark implements Arena.
func (a *BumpArena) Mark() Checkpoint {
	a.gen++
	return Checkpoint{gen: a.offset}
}

// Release implements Arena. Releasing to a checkpoint taken before the
// current offset rewinds the offset; releasing to a checkpoint ahead of the
// current offset (stale reuse) is a no-op guarded by DebugAssertions.
func (a *BumpArena) Release(cp Checkpoint) {
	if cp.gen > a.offset {
		if DebugAssertions {
			panic("arena: release of checkpoint past current offset")
		}
		return
	}
	a.offset = cp.gen
}

// Alloc implements Arena.
func (a *BumpArena) Alloc(n int) int {
	off := a.offset
	a.offset += n
	return off
}

// DebugAssertions gates internal precondition checks across the module
// that spec.md §7 classifies as "asserted in debug builds, undefined
// otherwise". Off by default; flip in tests that want to catch misuse.
var DebugAssertions = false

// Assert panics with msg if DebugAssertions is enabled and cond is false.
// It is a no-op in normal operation, matching spec.md §7's error-handling
// contract for malformed input.
func Assert(cond bool, msg string) {
	if DebugAssertions && !cond {
		panic("arena: assertion failed: " + msg)
	}
}
