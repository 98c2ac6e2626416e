package loopblock

// Orthogonalize implements spec.md §4.2 step 4: for every dependence
// whose in/out index matrices match exactly and whose shared rank r is
// strictly less than the loop depth, the outer r rows of both endpoints'
// Phi are set to a basis of the shared index matrix's row space and
// Rank is raised to r. This pre-schedules a reduction (or any other
// rank-deficient access) along its own natural axis before the general
// LP runs. Callers are responsible for unwinding (Optimize brackets this
// with an arena checkpoint and a node snapshot) if the orthogonalized
// attempt subsequently fails.
func (lb *LoopBlock) Orthogonalize() {
	for _, d := range lb.Deps {
		if d.In.N != d.Out.N || d.In.D != d.Out.D {
			continue
		}
		if !matricesEqual(d.In.Index, d.Out.Index) {
			continue
		}
		n := d.In.N
		r := IntOps.Rank(d.In.Index)
		if r <= 0 || r >= n {
			continue
		}
		basis := rowBasis(d.In.Index, r)
		if len(basis) < r {
			continue
		}
		inNode := lb.Nodes[lb.nodeOf[d.In]]
		outNode := lb.Nodes[lb.nodeOf[d.Out]]
		for row := 0; row < r; row++ {
			inNode.SetPhiRow(row, basis[row])
			outNode.SetPhiRow(row, basis[row])
		}
	}
}

func matricesEqual(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// rowBasis greedily selects up to r linearly independent rows from m
// (rank-tested via IntOps.Rank on the growing selection), suitable as
// the outer r rows of a schedule's Phi when m's own row space has
// dimension r.
func rowBasis(m [][]int, r int) [][]int {
	var basis [][]int
	for _, row := range m {
		if len(basis) == r {
			break
		}
		candidate := append(basis, row)
		if IntOps.Rank(candidate) > len(basis) {
			basis = candidate
		}
	}
	return basis
}
