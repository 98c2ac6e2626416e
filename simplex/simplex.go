// Package simplex implements the dense lexicographic simplex solver the
// schedule LP and the polyhedral kernel's Farkas-dual feasibility checks
// run on top of. Per spec.md §1/§9 a simplex implementation is treated as
// an external collaborator interface; this package is the one concrete,
// library-backed implementation this module ships, using
// gonum.org/v1/gonum/mat as the dense matrix view (gonum is the only
// numerical-linear-algebra dependency surfaced anywhere in the retrieved
// example pack — see DESIGN.md). Exact integer results are not attempted
// here: schedule coefficients are small, and the lexicographic objective
// only needs ordering, so float64 is an acceptable, pack-grounded
// simplification; callers round Tableau.Value to the nearest integer.
package simplex

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrInfeasible is returned by NewTableau (phase 1) when no feasible point
// exists.
var ErrInfeasible = errors.New("simplex: infeasible")

// ErrUnbounded is returned by NewTableau or Minimize when an objective is
// unbounded below (should not occur for well-formed Farkas-pair LPs; kept
// as a distinct sentinel rather than folded into ErrInfeasible because
// spec.md §7 treats infeasibility and malformed input as distinct failure
// classes).
var ErrUnbounded = errors.New("simplex: unbounded")

// ErrDimensionMismatch is returned when constraint rows disagree in width.
var ErrDimensionMismatch = errors.New("simplex: dimension mismatch")

// Tableau is a dense standard-form LP: minimize c·x subject to A·x = b,
// x ≥ 0, solved lexicographically over the objective rows passed to
// Minimize, in order (spec.md §4.2: "minimizing in column-order: slacks
// first, then omega, then Phi, then w, then u").
//
// Columns [n, n+m), after the n structural columns, hold the two-phase
// method's artificial variables and are never part of a caller-visible
// solution.
type Tableau struct {
	rows *mat.Dense // m x (n+1); last column is the RHS b
	m, n int        // constraint rows, structural variable columns

	basis []int // basis[i] = column index basic in row i
}

// NewTableau builds a Tableau from equality constraints a·x = b (a is m x
// n) via the two-phase method: an artificial variable is appended per
// row and phase 1 minimizes their sum to find an initial feasible basis.
func NewTableau(a [][]float64, b []float64) (*Tableau, error) {
	m := len(a)
	if m == 0 {
		return nil, ErrDimensionMismatch
	}
	n := len(a[0])
	for _, row := range a {
		if len(row) != n {
			return nil, ErrDimensionMismatch
		}
	}
	if len(b) != m {
		return nil, ErrDimensionMismatch
	}

	// Layout: [ original n cols | m artificial cols | RHS ]
	total := n + m
	data := mat.NewDense(m, total+1, nil)
	basis := make([]int, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			data.Set(i, j, a[i][j])
		}
		rhs := b[i]
		sign := 1.0
		if rhs < 0 {
			sign = -1.0
			rhs = -rhs
		}
		for j := 0; j < n; j++ {
			data.Set(i, j, data.At(i, j)*sign)
		}
		data.Set(i, n+i, 1)
		data.Set(i, total, rhs)
		basis[i] = n + i
	}

	t := &Tableau{rows: data, m: m, n: n, basis: basis}
	if err := t.phase1(); err != nil {
		return nil, err
	}
	return t, nil
}

// phase1 drives the artificial-variable objective to zero, establishing a
// feasible basis among the original n structural columns, or reports
// ErrInfeasible when the minimum sum of artificials is strictly positive.
func (t *Tableau) phase1() error {
	total := t.n + t.m
	cost := make([]float64, total+1)
	for i := t.n; i < total; i++ {
		cost[i] = 1
	}
	// Reduced-cost row: cost - sum over basic rows of their cost*row.
	reduced := append([]float64(nil), cost...)
	for i := 0; i < t.m; i++ {
		bc := cost[t.basis[i]]
		if bc == 0 {
			continue
		}
		for j := 0; j <= total; j++ {
			reduced[j] -= bc * t.rows.At(i, j)
		}
	}

	for iter := 0; iter < maxIterations(t.m, total); iter++ {
		pivotCol := -1
		for j := 0; j < total; j++ {
			if reduced[j] < -tol {
				pivotCol = j
				break
			}
		}
		if pivotCol < 0 {
			break
		}
		pivotRow, err := t.chooseRatioRow(pivotCol)
		if err != nil {
			return err
		}
		t.pivot(pivotRow, pivotCol)
		reduced = recomputeReduced(t, cost)
	}

	for i := 0; i < t.m; i++ {
		if t.basis[i] >= t.n && t.rows.At(i, t.n+t.m) > tol {
			return ErrInfeasible
		}
	}
	return nil
}

func recomputeReduced(t *Tableau, cost []float64) []float64 {
	total := t.n + t.m
	reduced := append([]float64(nil), cost...)
	for i := 0; i < t.m; i++ {
		bc := cost[t.basis[i]]
		if bc == 0 {
			continue
		}
		for j := 0; j <= total; j++ {
			reduced[j] -= bc * t.rows.At(i, j)
		}
	}
	return reduced
}

const tol = 1e-7

func maxIterations(m, n int) int {
	// Generous bound: this module's LPs are small (bounded by loop depth
	// and dependence count per spec.md §9), so a correct pivot rule
	// terminates long before this is exhausted; it exists only to make
	// the solver total under an adversarial/degenerate cycling input.
	return 200 * (m + n + 1)
}

// chooseRatioRow runs the standard minimum-ratio test for column col,
// breaking ties by smallest basis index (Bland's rule) to guarantee
// termination.
func (t *Tableau) chooseRatioRow(col int) (int, error) {
	best := -1
	bestRatio := 0.0
	total := t.n + t.m
	for i := 0; i < t.m; i++ {
		a := t.rows.At(i, col)
		if a <= tol {
			continue
		}
		ratio := t.rows.At(i, total) / a
		if best < 0 || ratio < bestRatio-tol ||
			(ratio < bestRatio+tol && t.basis[i] < t.basis[best]) {
			best = i
			bestRatio = ratio
		}
	}
	if best < 0 {
		return 0, ErrUnbounded
	}
	return best, nil
}

// pivot performs a Gauss-Jordan elimination around (row, col), making col
// basic in row.
func (t *Tableau) pivot(row, col int) {
	total := t.n + t.m
	piv := t.rows.At(row, col)
	for j := 0; j <= total; j++ {
		t.rows.Set(row, j, t.rows.At(row, j)/piv)
	}
	for i := 0; i < t.m; i++ {
		if i == row {
			continue
		}
		factor := t.rows.At(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j <= total; j++ {
			t.rows.Set(i, j, t.rows.At(i, j)-factor*t.rows.At(row, j))
		}
	}
	t.basis[row] = col
}

// Minimize runs phase 2: lexicographic minimization of each objective
// row in objs, in order; a later objective only pivots in columns that
// do not raise any earlier objective, so ties in earlier objectives are
// broken by later ones — spec.md §4.2's "minimizing in column-order".
// Each objs[k] is a length-n cost vector over the structural columns.
// Returns ErrDimensionMismatch if an objective's length is not n, and
// ErrUnbounded if any lexicographic stage is unbounded.
func (t *Tableau) Minimize(objs [][]float64) error {
	for k, obj := range objs {
		if len(obj) != t.n {
			return ErrDimensionMismatch
		}
		if err := t.minimizeOne(obj, objs[:k]); err != nil {
			return err
		}
	}
	return nil
}

// raisesEarlier reports whether pivoting column j into the basis would
// increase any of the already-minimized objectives in earlier.
func (t *Tableau) raisesEarlier(earlier [][]float64, j int) bool {
	for _, e := range earlier {
		cost := make([]float64, t.n+t.m+1)
		copy(cost, e)
		if recomputeReduced(t, cost)[j] > tol {
			return true
		}
	}
	return false
}

func (t *Tableau) minimizeOne(obj []float64, earlier [][]float64) error {
	total := t.n + t.m
	cost := make([]float64, total+1)
	copy(cost, obj)
	reduced := recomputeReduced(t, cost)

	for iter := 0; iter < maxIterations(t.m, total); iter++ {
		pivotCol := -1
		for j := 0; j < t.n; j++ { // never re-enter an artificial column
			if reduced[j] < -tol && !t.raisesEarlier(earlier, j) {
				pivotCol = j
				break
			}
		}
		if pivotCol < 0 {
			return nil
		}
		pivotRow, err := t.chooseRatioRow(pivotCol)
		if err != nil {
			return err
		}
		t.pivot(pivotRow, pivotCol)
		reduced = recomputeReduced(t, cost)
	}
	return nil
}

// Value returns the current value of structural variable col (0-indexed
// over the original n columns passed to NewTableau).
func (t *Tableau) Value(col int) float64 {
	for i, b := range t.basis {
		if b == col {
			return t.rows.At(i, t.n+t.m)
		}
	}
	return 0
}

// NumStructuralColumns returns n, the caller-visible variable count.
func (t *Tableau) NumStructuralColumns() int { return t.n }
