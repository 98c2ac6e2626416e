package ir

import (
	"fmt"

	"github.com/katalvlaran/loopsched/affine"
)

// BasePointer identifies the memory object an Address reads or writes.
// Two addresses may be compared for aliasing only by BasePointer equality
// per spec.md §1's non-goal ("does not perform aliasing analysis beyond
// consuming equality of base pointers").
type BasePointer struct {
	id string
}

// NewBasePointer wraps an opaque identity string supplied by the host's
// SSA ingestion layer.
func NewBasePointer(id string) BasePointer { return BasePointer{id: id} }

// Equal reports whether two base pointers denote the same memory object.
func (b BasePointer) Equal(o BasePointer) bool { return b.id == o.id }

// String renders the identity for diagnostics.
func (b BasePointer) String() string { return b.id }

// Address is a memory access: subscript = (M·i + offset) / denom, where i
// is the vector of enclosing loop induction variables, per spec.md §3.
type Address struct {
	Base BasePointer
	Loop *affine.Loop

	// D is the array-dimension count; N is the current loop depth the
	// index matrix is expressed over (N == Loop.NumLoops() normally,
	// but may lag briefly during RemoveLevel bookkeeping).
	D, N int

	IsStore bool
	IsLoad  bool
	// IsReload marks a self-dependence load constructed by Reload,
	// representing re-use of a just-stored value across iterations
	// (spec.md §4.1, supplemented by SPEC_FULL.md §12).
	IsReload bool

	Denom  int     // rational denominator shared by M, Offset, SymOffset
	Index  [][]int // D x N index matrix M
	Offset []int   // length-D offset vector: subscript = M*i + Offset (see DESIGN.md for the
	// resolution of spec.md §3's dimensionality note on Address's ω)

	// SymOffset is a D x (1+k) symbolic-offset matrix: column 0 is the
	// constant part already folded into Offset for the common case of
	// no symbolic offset; columns 1..k multiply the k symbolic
	// parameters of the enclosing Loop. Most accesses carry a nil/empty
	// SymOffset (no symbolic subscript component).
	SymOffset [][]int

	// FusionOmega seeds the node-level total order fusionOmega uses
	// before scheduling (spec.md §3: ScheduledNode.fusionOmega).
	FusionOmega []int

	Placed bool

	// Ancestors/Descendants are bitsets (by Address index in the owning
	// LoopBlock's address slice) maintained by dependence analysis for
	// fast placeAddr queries (spec.md §4.3).
	Ancestors   *BitSet
	Descendants *BitSet

	inputs  *Dependence // head of the "produced by" edge chain
	outputs *Dependence // head of the "consumed by" edge chain

	// ElementAlignment and ElementBytes describe the access's scalar
	// element for the cost model's vectorization classification.
	ElementBytes     int
	ElementAlignment int
}

// NewAddress constructs an Address. d must be > 0; the index matrix and
// offset are validated for shape against d and loop.NumLoops().
func NewAddress(base BasePointer, loop *affine.Loop, d int, index [][]int, offset []int, store bool) (*Address, error) {
	if loop == nil {
		return nil, ErrNilLoop
	}
	n := loop.NumLoops()
	if d <= 0 {
		return nil, fmt.Errorf("ir: NewAddress: %w: d must be > 0", ErrDimensionMismatch)
	}
	if len(index) != d {
		return nil, fmt.Errorf("ir: NewAddress: %w: index has %d rows, want d=%d", ErrDimensionMismatch, len(index), d)
	}
	for _, row := range index {
		if len(row) != n {
			return nil, fmt.Errorf("ir: NewAddress: %w: index row has %d cols, want n=%d", ErrDimensionMismatch, len(row), n)
		}
	}
	if len(offset) != d {
		return nil, fmt.Errorf("ir: NewAddress: %w: offset has %d entries, want d=%d", ErrDimensionMismatch, len(offset), d)
	}
	idxCopy := make([][]int, d)
	for i, row := range index {
		idxCopy[i] = append([]int(nil), row...)
	}
	return &Address{
		Base:    base,
		Loop:    loop,
		D:       d,
		N:       n,
		IsStore: store,
		IsLoad:  !store,
		Denom:   1,
		Index:   idxCopy,
		Offset:  append([]int(nil), offset...),
	}, nil
}

// AddInput prepends dep to the address's input chain (produced-by edges).
func (a *Address) AddInput(dep *Dependence) {
	dep.nextInput = a.inputs
	a.inputs = dep
}

// AddOutput prepends dep to the address's output chain (consumed-by
// edges).
func (a *Address) AddOutput(dep *Dependence) {
	dep.nextOutput = a.outputs
	a.outputs = dep
}

// Inputs returns the produced-by dependence chain in insertion order
// (head first), per spec.md §9's linked-list-not-bitset design note.
func (a *Address) Inputs() []*Dependence { return chainToSlice(a.inputs, (*Dependence).NextInput) }

// Outputs returns the consumed-by dependence chain in insertion order.
func (a *Address) Outputs() []*Dependence { return chainToSlice(a.outputs, (*Dependence).NextOutput) }

func chainToSlice(head *Dependence, next func(*Dependence) *Dependence) []*Dependence {
	var out []*Dependence
	for d := head; d != nil; d = next(d) {
		out = append(out, d)
	}
	return out
}

// Rotate applies the rotation (Phi^{-1}, denom s) computed from a solved
// schedule, producing the rotated index matrix M·Phi^{-1} and offset
// offset - (M·Phi^{-1})·omega, carried exactly via the shared denominator,
// per the invariant in spec.md §3:
//
//	offset_new · denom == denom · offset_old − M_new · omega_old
//
// phiInv is n x n (adjugate of Phi), s is Phi's determinant (spec.md
// "scaledInv"), and omega is the n-vector schedule offset being rotated
// away.
func (a *Address) Rotate(phiInv [][]int, s int, omega []int) (*Address, error) {
	n := a.N
	if len(phiInv) != n {
		return nil, ErrDimensionMismatch
	}
	for _, row := range phiInv {
		if len(row) != n {
			return nil, ErrDimensionMismatch
		}
	}
	if len(omega) != n {
		return nil, ErrDimensionMismatch
	}

	newIndex := make([][]int, a.D)
	for i := 0; i < a.D; i++ {
		row := make([]int, n)
		for j := 0; j < n; j++ {
			sum := 0
			for k := 0; k < n; k++ {
				sum += a.Index[i][k] * phiInv[k][j]
			}
			row[j] = sum
		}
		newIndex[i] = row
	}

	// newOffset_unscaled[i] = denom*offset_old[i] - (M_new row i) . omega
	newOffset := make([]int, a.D)
	for i := 0; i < a.D; i++ {
		dot := 0
		for j := 0; j < n; j++ {
			dot += newIndex[i][j] * omega[j]
		}
		newOffset[i] = a.Denom*safeOffset(a.Offset, i) - dot
	}

	out := &Address{
		Base:             a.Base,
		Loop:             a.Loop,
		D:                a.D,
		N:                n,
		IsStore:          a.IsStore,
		IsLoad:           a.IsLoad,
		IsReload:         a.IsReload,
		Denom:            a.Denom * s,
		Index:            newIndex,
		Offset:           newOffset,
		SymOffset:        a.SymOffset,
		ElementBytes:     a.ElementBytes,
		ElementAlignment: a.ElementAlignment,
	}
	return out, nil
}

// safeOffset indexes an offset vector that may be shorter than D (excess
// dimensions carry an implicit zero offset — this never happens for
// Address values built by NewAddress, whose Offset has length D, but
// keeps Rotate total).
func safeOffset(offset []int, i int) int {
	if i < len(offset) {
		return offset[i]
	}
	return 0
}

// Reload constructs a self-dependence load address representing re-use
// of the value just written by store, per spec.md §4.1's
// `reload(store)` and SPEC_FULL.md §12: identical index matrix, offset
// and loop context, IsReload set, IsStore cleared.
func Reload(store *Address) *Address {
	idx := make([][]int, store.D)
	for i, row := range store.Index {
		idx[i] = append([]int(nil), row...)
	}
	return &Address{
		Base:             store.Base,
		Loop:             store.Loop,
		D:                store.D,
		N:                store.N,
		IsLoad:           true,
		IsReload:         true,
		Denom:            store.Denom,
		Index:            idx,
		Offset:           append([]int(nil), store.Offset...),
		SymOffset:        store.SymOffset,
		ElementBytes:     store.ElementBytes,
		ElementAlignment: store.ElementAlignment,
	}
}
