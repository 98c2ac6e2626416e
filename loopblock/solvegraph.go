package loopblock

import (
	"errors"
	"math"

	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/polyhedra"
	"github.com/katalvlaran/loopsched/simplex"
)

// columnSet accumulates the structural columns of the per-depth LP as
// they are assigned, matching spec.md §4.2's "Assigns three groups of LP
// variables -- omega..., Phi-row... -- plus per-active-dep farkas
// lambda..., per-dep slack w..., per-dep u..., and one slack per
// independence constraint."
type columnSet struct {
	total int

	indepSlack map[int]int // node index -> slack column

	phiPos, phiNeg     map[int][]int // node index -> per-axis column pair
	omegaPos, omegaNeg map[int]int

	lambdaSat, lambdaBound map[*ir.Dependence][]int
	wCol, uCol             map[*ir.Dependence]int
}

func newColumnSet() *columnSet {
	return &columnSet{
		indepSlack:  make(map[int]int),
		phiPos:      make(map[int][]int),
		phiNeg:      make(map[int][]int),
		omegaPos:    make(map[int]int),
		omegaNeg:    make(map[int]int),
		lambdaSat:   make(map[*ir.Dependence][]int),
		lambdaBound: make(map[*ir.Dependence][]int),
		wCol:        make(map[*ir.Dependence]int),
		uCol:        make(map[*ir.Dependence]int),
	}
}

func (c *columnSet) alloc() int {
	col := c.total
	c.total++
	return col
}

func (c *columnSet) allocN(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = c.alloc()
	}
	return out
}

// SolveGraph builds and solves the per-depth lexicographic LP over the
// nodes named by nodeSet, per spec.md §4.2's "solveGraph(depth,
// satisfyDeps)". It reports (false, nil) on LP infeasibility (not an
// error, per spec.md §7) and (true, nil) on success, having mutated each
// unfrozen node's Phi[depth]/Omega[depth] and pushed satLevel entries for
// every dependence deactivated at this depth.
func (lb *LoopBlock) SolveGraph(nodeSet []int, depth int, satisfyDeps bool) (bool, error) {
	setMap := make(map[int]bool, len(nodeSet))
	for _, i := range nodeSet {
		setMap[i] = true
	}

	var unscheduled []int
	for _, i := range nodeSet {
		if lb.Nodes[i].Rank <= depth {
			unscheduled = append(unscheduled, i)
		}
	}
	deps := lb.activeDeps(setMap)

	cols := newColumnSet()
	for _, i := range unscheduled {
		cols.indepSlack[i] = cols.alloc()
	}
	for _, i := range unscheduled {
		cols.phiPos[i] = cols.allocN(lb.Nodes[i].NumLoops)
		cols.phiNeg[i] = cols.allocN(lb.Nodes[i].NumLoops)
		cols.omegaPos[i] = cols.alloc()
		cols.omegaNeg[i] = cols.alloc()
	}
	for _, d := range deps {
		cols.lambdaSat[d] = cols.allocN(d.Poly.NumLambda)
		cols.lambdaBound[d] = cols.allocN(d.Poly.NumLambda)
		if satisfyDeps {
			cols.wCol[d] = cols.alloc()
		}
		cols.uCol[d] = cols.alloc()
	}

	var a [][]float64
	var b []float64

	// Independence constraints (spec.md §4.2): one per unscheduled node,
	// preventing the trivial all-zero Phi row.
	for _, i := range unscheduled {
		node := lb.Nodes[i]
		row := make([]float64, cols.total)
		coef := indepCoefficients(node, depth)
		for c, v := range coef {
			row[cols.phiPos[i][c]] = float64(v)
			row[cols.phiNeg[i][c]] = -float64(v)
		}
		row[cols.indepSlack[i]] = -1
		a = append(a, row)
		b = append(b, 1)
	}

	// Farkas equality rows, satisfaction block then bounding block, per
	// dependence.
	for _, d := range deps {
		satBlock, boundBlock := farkasBlocks(d)
		width := len(satBlock.Refs)
		for col := 0; col < width; col++ {
			row, bias := lb.farkasRow(cols, d, satBlock, col, depth, cols.lambdaSat[d], satisfyDeps, cols.wCol[d])
			a = append(a, row)
			b = append(b, satBlock.Bias[col]-bias)
		}
		for col := 0; col < width; col++ {
			row, bias := lb.farkasRow(cols, d, boundBlock, col, depth, cols.lambdaBound[d], true, cols.uCol[d])
			a = append(a, row)
			b = append(b, boundBlock.Bias[col]-bias)
		}
	}

	if len(a) == 0 {
		return true, nil
	}

	t, err := simplex.NewTableau(a, b)
	if err != nil {
		if errors.Is(err, simplex.ErrInfeasible) {
			return false, nil
		}
		return false, err
	}

	objSlack := make([]float64, cols.total)
	for _, c := range cols.indepSlack {
		objSlack[c] = 1
	}
	objOmega := make([]float64, cols.total)
	for _, i := range unscheduled {
		objOmega[cols.omegaPos[i]] = 1
		objOmega[cols.omegaNeg[i]] = 1
	}
	objPhi := make([]float64, cols.total)
	for _, i := range unscheduled {
		for _, c := range cols.phiPos[i] {
			objPhi[c] = 1
		}
		for _, c := range cols.phiNeg[i] {
			objPhi[c] = 1
		}
	}
	objW := make([]float64, cols.total)
	for _, c := range cols.wCol {
		objW[c] = 1
	}
	objU := make([]float64, cols.total)
	for _, c := range cols.uCol {
		objU[c] = 1
	}
	if err := t.Minimize([][]float64{objSlack, objOmega, objPhi, objW, objU}); err != nil {
		if errors.Is(err, simplex.ErrInfeasible) {
			return false, nil
		}
		return false, err
	}

	for _, i := range unscheduled {
		node := lb.Nodes[i]
		row := make([]int, node.NumLoops)
		for c := range row {
			row[c] = roundInt(t.Value(cols.phiPos[i][c]) - t.Value(cols.phiNeg[i][c]))
		}
		node.SetPhiRow(depth, row)
		omega := roundInt(t.Value(cols.omegaPos[i]) - t.Value(cols.omegaNeg[i]))
		if depth < len(node.Omega) {
			node.Omega[depth] = omega
		}
	}

	for _, d := range deps {
		wVal := 0
		if satisfyDeps {
			wVal = roundInt(t.Value(cols.wCol[d]))
		}
		uVal := roundInt(t.Value(cols.uCol[d]))
		if wVal != 0 || uVal != 0 {
			if err := d.PushSatLevel(uint8(depth), true); err != nil {
				return false, err
			}
			if ni, ok := lb.nodeOf[d.In]; ok {
				lb.Nodes[ni].CarriedDep.Set(depth)
			}
			if no, ok := lb.nodeOf[d.Out]; ok {
				lb.Nodes[no].CarriedDep.Set(depth)
			}
		}
	}

	return true, nil
}

// farkasRow builds one equality row of the Farkas system for z-column
// col of block, linking it to the active lambda/omega/phi LP columns per
// spec.md §4.2's "map Phi/omega-coef blocks to the appropriate node's
// slot; substitute known rows for already-scheduled nodes". The second
// return value is the total contribution of already-frozen (known, not
// an LP column) nodes, to be subtracted from block.Bias[col] by the
// caller so the remaining live-variable equation still balances.
func (lb *LoopBlock) farkasRow(cols *columnSet, d *ir.Dependence, block *polyhedra.Block, col, depth int, lambda []int, allowSlack bool, slackCol int) ([]float64, float64) {
	row := make([]float64, cols.total)
	for l, coeff := range block.Lambda[col] {
		row[lambda[l]] += coeff
	}
	known := 0.0
	if col == 0 {
		known += lb.omegaTerm(cols, row, d.Out, depth, 1)
		known += lb.omegaTerm(cols, row, d.In, depth, -1)
	} else if ref := block.Refs[col]; ref != nil {
		addr := d.In
		if ref.Side == 1 {
			addr = d.Out
		}
		if ref.IsOmega {
			known += lb.omegaTerm(cols, row, addr, depth, 1)
		} else {
			known += lb.phiTerm(cols, row, addr, depth, ref.LoopIndex, 1)
		}
	}
	if allowSlack {
		row[slackCol] = -1
	}
	return row, known
}

// omegaTerm adds addr's node's omega-at-depth contribution (scaled by
// sign) into row if the node is still unscheduled at depth (a live LP
// column), or returns its already-known value (scaled by sign) for the
// caller to fold into the row's target bias instead.
func (lb *LoopBlock) omegaTerm(cols *columnSet, row []float64, addr *ir.Address, depth int, sign float64) float64 {
	ni, ok := lb.nodeOf[addr]
	if !ok {
		return 0
	}
	node := lb.Nodes[ni]
	if node.Rank <= depth {
		row[cols.omegaPos[ni]] += sign
		row[cols.omegaNeg[ni]] -= sign
		return 0
	}
	if depth < len(node.Omega) {
		return sign * float64(node.Omega[depth])
	}
	return 0
}

func (lb *LoopBlock) phiTerm(cols *columnSet, row []float64, addr *ir.Address, depth, axis int, sign float64) float64 {
	ni, ok := lb.nodeOf[addr]
	if !ok {
		return 0
	}
	node := lb.Nodes[ni]
	if node.Rank <= depth {
		if axis < len(cols.phiPos[ni]) {
			row[cols.phiPos[ni][axis]] += sign
			row[cols.phiNeg[ni][axis]] -= sign
		}
		return 0
	}
	if depth < len(node.Phi) && axis < len(node.Phi[depth]) {
		return sign * float64(node.Phi[depth][axis])
	}
	return 0
}

// farkasBlocks returns (satisfaction, bounding) blocks for d: the
// satisfaction block is the one matching d's already-decided direction
// (spec.md §4.1 bakes the causality bias into whichever of
// Farkas.Forward/Backward corresponds to d.Forward); the other is the
// bounding block, per spec.md §4.2's "copy the satisfaction-block... and
// the bounding-block...".
func farkasBlocks(d *ir.Dependence) (sat, bound *polyhedra.Block) {
	if d.Forward {
		return d.Farkas.Forward, d.Farkas.Backward
	}
	return d.Farkas.Backward, d.Farkas.Forward
}

// indepCoefficients returns the coefficient vector the independence
// constraint dots with node's fresh Phi-row-at-depth variables, per
// spec.md §4.2: the all-ones row at depth 0 (ruling out the trivial
// zero row), or at depth>0 the lex-sign-flipped row sum of the null
// space of the already-fixed outer `depth` rows of Phi (preserving
// outer-first traversal bias).
func indepCoefficients(node *ir.ScheduledNode, depth int) []int {
	if depth == 0 {
		out := make([]int, node.NumLoops)
		for i := range out {
			out[i] = 1
		}
		return out
	}
	fixed := node.Phi[:depth]
	basis := IntOps.NullSpace(fixed)
	out := make([]int, node.NumLoops)
	sign := 1
	for _, vec := range basis {
		for i, v := range vec {
			if i < len(out) {
				out[i] += sign * v
			}
		}
		sign = -sign
	}
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
