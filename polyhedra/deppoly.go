// Package polyhedra builds dependence polyhedra between pairs of memory
// accesses and the Farkas-dual simplex pairs the schedule LP consumes,
// per spec.md §3/§4.1. It deliberately operates on plain integer
// matrices/vectors rather than ir.Address directly so that ir (which
// embeds *polyhedra.DepPoly in ir.Dependence) and polyhedra do not form an
// import cycle; package dependence is the glue that extracts these
// descriptors from ir.Address values.
//
// Grounded on the teacher's matrix-construction style
// (_examples/katalvlaran-lvlath/matrix/impl_dense.go,
// matrix/ops/inverse.go) generalized from graph adjacency matrices to
// dependence polyhedra.
package polyhedra

import "errors"

// ErrEmptyAccess is returned by Dependence when an access's loop depth N
// is negative.
var ErrEmptyAccess = errors.New("polyhedra: invalid access descriptor")

// ErrDimensionMismatch is returned when two access descriptors disagree
// on array dimension d (required to express the "same memory cell"
// equality).
var ErrDimensionMismatch = errors.New("polyhedra: dimension mismatch")

// AccessDesc is the minimal description of a memory access the
// polyhedral kernel needs: its enclosing loop's inequality constraints
// (LoopIneq, rows over (1|symbols|loop-ivs)), loop depth N, symbol count,
// and the affine subscript M·i + Offset (dimension D).
type AccessDesc struct {
	LoopIneq   [][]int // rows of A, cols = 1+NumSymbols+N
	NumSymbols int
	N          int
	D          int
	Index      [][]int // D x N
	Offset     []int   // length D
}

// DepPoly is the dependence polyhedron over (constant | symbols | x-loops
// | y-loops | time-dims), per spec.md §3.
type DepPoly struct {
	NumSymbols int
	NX, NY     int // x.N, y.N
	TimeDim    int // zero-step "time dimension" count (reuse slack)

	// Ineq are the inequality rows (A·z ≥ 0) over the full concatenated
	// space; Eq are the equality rows (E·z = 0) expressing "same memory
	// cell" plus the time-dimension zero-step constraints.
	Ineq [][]int
	Eq   [][]int

	// NumLambda is the Farkas-multiplier column count:
	// numInequalityRows + 2*numEqualityRows, per spec.md §3.
	NumLambda int
}

func (p *DepPoly) cols() int { return 1 + p.NumSymbols + p.NX + p.NY + p.TimeDim }

// Empty reports whether the polyhedron is trivially infeasible: an
// equality row with all-zero coefficients but a nonzero constant, per the
// standard affine-infeasibility test. This is a conservative, cheap
// check; a full decision procedure belongs to the (out-of-scope, per
// spec.md §1) polyhedral kernel's exact solver — callers needing an exact
// answer should additionally call Feasible and treat LP infeasibility as
// authoritative.
func (p *DepPoly) Empty() bool {
	for _, row := range p.Eq {
		allZero := true
		for _, v := range row[1:] {
			if v != 0 {
				allZero = false
				break
			}
		}
		if allZero && row[0] != 0 {
			return true
		}
	}
	return false
}

// Dependence builds the DepPoly capturing "x and y access the same
// memory cell", per spec.md §4.1/§3:
//
//   - (a) the intersection of x's and y's iteration spaces (their
//     inequality rows, reindexed into the concatenated column space).
//   - (b) the equality M_x·i_x + c_x = M_y·i_y + c_y.
//   - (c) one zero-step time dimension per degree of remaining reuse
//     slack: the null space of [M_x | -M_y], since any direction in that
//     null space changes neither array cell, so repeats along it must be
//     orderable by a fresh "time" coordinate (spec.md §3: "a zero-step
//     time dimension per reuse slack").
//
// x and y must share array dimension D (same base pointer, checked by
// the caller per spec.md §4.1's "pair of accesses with shared base
// pointer").
func Dependence(x, y AccessDesc, nullSpace func(m [][]int) [][]int) (*DepPoly, error) {
	if x.D != y.D || x.D <= 0 {
		return nil, ErrDimensionMismatch
	}
	if x.N < 0 || y.N < 0 {
		return nil, ErrEmptyAccess
	}
	numSymbols := x.NumSymbols
	if y.NumSymbols != numSymbols {
		return nil, ErrDimensionMismatch
	}

	// M = [M_x | -M_y], the D x (NX+NY) combined subscript map whose
	// null space is the reuse-slack direction set.
	combined := make([][]int, x.D)
	for i := 0; i < x.D; i++ {
		row := make([]int, x.N+y.N)
		copy(row[:x.N], x.Index[i])
		for j := 0; j < y.N; j++ {
			row[x.N+j] = -y.Index[i][j]
		}
		combined[i] = row
	}
	var timeBasis [][]int
	if nullSpace != nil {
		timeBasis = nullSpace(combined)
	}
	timeDim := len(timeBasis)

	p := &DepPoly{NumSymbols: numSymbols, NX: x.N, NY: y.N, TimeDim: timeDim}
	width := p.cols()

	// (a) iteration-space inequalities, reindexed.
	for _, row := range x.LoopIneq {
		p.Ineq = append(p.Ineq, reindex(row, width, numSymbols, x.N, 0))
	}
	for _, row := range y.LoopIneq {
		p.Ineq = append(p.Ineq, reindex(row, width, numSymbols, y.N, x.N))
	}

	// (b) equality M_x*i_x + c_x - M_y*i_y - c_y = 0, one row per array
	// dimension.
	for i := 0; i < x.D; i++ {
		row := make([]int, width)
		row[0] = x.Offset[i] - y.Offset[i]
		for j := 0; j < x.N; j++ {
			row[1+numSymbols+j] = x.Index[i][j]
		}
		for j := 0; j < y.N; j++ {
			row[1+numSymbols+x.N+j] = -y.Index[i][j]
		}
		p.Eq = append(p.Eq, row)
	}

	// (c) one equality row per time dimension: the time coordinate t_k is
	// defined to equal the reuse-slack combination it was built from,
	// with coefficient -1 on the fresh time column so the row reads
	// "combined-direction · (i_x,i_y) - t_k = 0" (a zero step: t_k tracks
	// repeats without constraining the iteration point itself).
	for k, basisVec := range timeBasis {
		row := make([]int, width)
		for j := 0; j < x.N+y.N; j++ {
			row[1+numSymbols+j] = basisVec[j]
		}
		row[1+numSymbols+x.N+y.N+k] = -1
		p.Eq = append(p.Eq, row)
	}

	p.NumLambda = len(p.Ineq) + 2*len(p.Eq)
	return p, nil
}

// reindex copies a constraint row expressed over (1|symbols|loop-ivs) of
// width 1+numSymbols+n into a row of total width `width`, placing the
// loop-iv block at offset loopColOffset within the (x-loops|y-loops)
// section that begins at column 1+numSymbols.
func reindex(row []int, width, numSymbols, n, loopColOffset int) []int {
	out := make([]int, width)
	out[0] = row[0]
	for s := 0; s < numSymbols; s++ {
		out[1+s] = row[1+s]
	}
	for j := 0; j < n; j++ {
		out[1+numSymbols+loopColOffset+j] = row[1+numSymbols+j]
	}
	return out
}
