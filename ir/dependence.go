package ir

import "github.com/katalvlaran/loopsched/polyhedra"

// satLevelCapacity is the fixed size of the satLevel stack, matching
// spec.md §3's "8-entry satLevel stack". All eight entries can be
// pushed; the unsatisfied state is an empty stack (satTop == -1), not a
// reserved slot.
const satLevelCapacity = 8

// SatLevel is one entry of a Dependence's satisfaction stack: the depth
// at which the dependence became satisfied, and whether that was via an
// LP offset (w/u non-zero) or via conditional independence (checkSat
// infeasible), per spec.md §3 and the universal invariant in spec.md §8.
type SatLevel struct {
	Depth         uint8 // 7 bits of usable range (0..127); loop nests are far shallower
	SatisfiedByLP bool  // true: LP bit set; false: conditional-independence
}

// Dependence is a directed edge between two Addresses, per spec.md §3.
type Dependence struct {
	In  *Address // source/producer address
	Out *Address // sink/consumer address

	Poly *polyhedra.DepPoly

	// Farkas is the Farkas-dual pair the polyhedral kernel produced for
	// Poly; loopblock.SolveGraph reads Farkas.Forward/Backward directly
	// when packing the joint schedule LP, per spec.md §3.
	Farkas *polyhedra.Pair

	Forward bool // true: In happens before Out

	satStack [satLevelCapacity]SatLevel
	satTop   int // -1 means "unsatisfied"; index of the top pushed entry otherwise

	nextInput  *Dependence // next edge in In's... see NextInput/NextOutput
	nextOutput *Dependence

	// NumPhiCoefficients / InCurrentDepth / OutCurrentDepth support the
	// universal invariant in spec.md §8:
	// getInCurrentDepth + getOutCurrentDepth == getNumPhiCoefficients.
	NumPhiCoefficients int
	InCurrentDepth     int
	OutCurrentDepth    int
}

// NewDependence constructs an unsatisfied Dependence from in to out.
func NewDependence(in, out *Address, poly *polyhedra.DepPoly, forward bool) *Dependence {
	d := &Dependence{In: in, Out: out, Poly: poly, Forward: forward, satTop: -1}
	if in != nil {
		in.AddOutput(d)
	}
	if out != nil {
		out.AddInput(d)
	}
	return d
}

// NextInput returns the next dependence in this edge's home address's
// input chain (used by Address.Inputs via chainToSlice).
func (d *Dependence) NextInput() *Dependence { return d.nextInput }

// NextOutput returns the next dependence in this edge's home address's
// output chain.
func (d *Dependence) NextOutput() *Dependence { return d.nextOutput }

// Satisfied reports whether any level has been pushed.
func (d *Dependence) Satisfied() bool { return d.satTop >= 0 }

// SatLevelTop returns the current top-of-stack SatLevel and true, or the
// zero value and false if unsatisfied.
func (d *Dependence) SatLevelTop() (SatLevel, bool) {
	if d.satTop < 0 {
		return SatLevel{}, false
	}
	return d.satStack[d.satTop], true
}

// PushSatLevel marks the dependence satisfied at depth by pushing a new
// SatLevel entry, per spec.md §4.2's deactivateSatisfiedEdges. Returns
// ErrSatLevelOverflow if the fixed-capacity stack is full.
func (d *Dependence) PushSatLevel(depth uint8, satisfiedByLP bool) error {
	if d.satTop+1 >= satLevelCapacity {
		return ErrSatLevelOverflow
	}
	d.satTop++
	d.satStack[d.satTop] = SatLevel{Depth: depth, SatisfiedByLP: satisfiedByLP}
	return nil
}

// PopSatLevel undoes the most recent PushSatLevel, per spec.md §4.2's LP
// backtracking ("revert via per-dep popSatLevel") and the round-trip law
// in spec.md §8 ("stash/popSatLevel is the identity on the satLevel
// stack"). Returns ErrSatLevelUnderflow if nothing is pushed.
func (d *Dependence) PopSatLevel() (SatLevel, error) {
	if d.satTop < 0 {
		return SatLevel{}, ErrSatLevelUnderflow
	}
	top := d.satStack[d.satTop]
	d.satTop--
	return top, nil
}

// StashSatLevel snapshots the entire stack (for the 7-slot shift-register
// backtracking the design notes describe) so a caller can restore it
// verbatim regardless of how many pushes happened in between, rather than
// popping one at a time.
func (d *Dependence) StashSatLevel() [satLevelCapacity]SatLevel {
	snap := d.satStack
	return snap
}

// RestoreSatLevel restores a stack snapshot and the stack-top index taken
// alongside it via StashSatLevelTop.
func (d *Dependence) RestoreSatLevel(snap [satLevelCapacity]SatLevel, top int) {
	d.satStack = snap
	d.satTop = top
}

// StashSatLevelTop returns the current top index for pairing with
// StashSatLevel/RestoreSatLevel.
func (d *Dependence) StashSatLevelTop() int { return d.satTop }
