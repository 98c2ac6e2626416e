package ir

import "errors"

// Sentinel errors for the ir package. Every algorithm in this package
// MUST return one of these (or wrap one with fmt.Errorf and %w) rather
// than panic on user-triggered conditions, per the teacher's convention
// (_examples/katalvlaran-lvlath/matrix/errors.go) and spec.md §7.
var (
	// ErrDimensionMismatch indicates an index matrix's column count
	// disagrees with its owning loop's current depth.
	ErrDimensionMismatch = errors.New("ir: dimension mismatch")

	// ErrNilLoop indicates an Address was constructed without an
	// enclosing *affine.Loop.
	ErrNilLoop = errors.New("ir: address has no enclosing loop")

	// ErrBasePointerMismatch indicates two addresses passed to an
	// operation that requires a shared base pointer do not share one.
	ErrBasePointerMismatch = errors.New("ir: addresses do not share a base pointer")

	// ErrSatLevelOverflow indicates a dependence's satLevel stack has
	// exceeded its fixed 8-entry capacity (spec.md §9: recursion depth
	// is bounded by loop nest depth, ≤15, so this indicates misuse).
	ErrSatLevelOverflow = errors.New("ir: satLevel stack overflow")

	// ErrSatLevelUnderflow indicates popSatLevel was called with no
	// pushed entry to undo.
	ErrSatLevelUnderflow = errors.New("ir: satLevel stack underflow")
)
