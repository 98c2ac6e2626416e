package polyhedra

// ScheduleRef names which schedule unknown a given column of the
// concatenated polyhedron space (constant | symbols | x-loops | y-loops |
// time-dims) corresponds to, so that loopblock.SolveGraph can route a
// Block row into the right node's Phi-row or omega slot when it packs
// the joint LP, per spec.md §4.2: "Map Phi-coef blocks to the appropriate
// node's Phi-column slot... Same for omega-coef blocks".
type ScheduleRef struct {
	// Side is 0 for the x (producer) node, 1 for the y (consumer) node.
	Side int
	// IsOmega is true when this column feeds the node's omega offset
	// rather than a Phi row entry.
	IsOmega bool
	// LoopIndex is the loop-axis (Phi column) this entry multiplies,
	// meaningful only when !IsOmega.
	LoopIndex int
}

// Block is one half (forward or backward) of a Farkas pair: the
// coefficient-matching system that says "a nonnegative combination of the
// polyhedron's defining inequalities/equalities reproduces the schedule
// gap", per spec.md §3's "Simplex pair (Farkas dual)".
//
// Row i of Lambda holds, in column order, the coefficients of
// Ineq and (Eq,-Eq) at z-column i (the lambda block), and the ScheduleRef
// for that same z-column (nil if the column carries no schedule
// dependence, e.g. a symbol column). NumLambda = len(Ineq)+2*len(Eq),
// matching DepPoly.NumLambda.
type Block struct {
	NumLambda int
	Lambda    [][]float64    // width rows x NumLambda columns
	Refs      []*ScheduleRef // length width; Refs[k] describes z-column k
	Bias      []float64      // length width; the -bias(schedule-independent) part of column k's target, usually all zero except column 0
}

// Pair is the forward/backward Farkas pair for one DepPoly, per spec.md
// §3 and §4.1.
type Pair struct {
	Forward  *Block
	Backward *Block
}

// FarkasPair builds the Farkas pair for poly. forwardBias is the minimum
// causality gap required when In happens before Out (typically 1, one
// unit of logical time) at the current schedule depth; the backward
// block uses the mirror-image gap for Out happening before In. direction
// classification (which block is "satisfaction" vs mere feasibility) is
// left to package dependence, which knows the already-decided order.
func FarkasPair(poly *DepPoly, forwardBias float64) *Pair {
	width := poly.cols()
	numEq := len(poly.Eq)
	numIneq := len(poly.Ineq)
	numLambda := numIneq + 2*numEq

	buildBlock := func(sign float64) *Block {
		b := &Block{NumLambda: numLambda, Lambda: make([][]float64, width), Refs: make([]*ScheduleRef, width), Bias: make([]float64, width)}
		for col := 0; col < width; col++ {
			row := make([]float64, numLambda)
			for i, ir := range poly.Ineq {
				row[i] = float64(ir[col])
			}
			for j, er := range poly.Eq {
				row[numIneq+2*j] = float64(er[col])
				row[numIneq+2*j+1] = -float64(er[col])
			}
			b.Lambda[col] = row
			b.Refs[col] = scheduleRefForColumn(poly, col)
		}
		b.Bias[0] = sign * forwardBias
		return b
	}

	return &Pair{
		Forward:  buildBlock(1),
		Backward: buildBlock(-1),
	}
}

// scheduleRefForColumn classifies z-column col (0=const, then symbols,
// then x-loops, then y-loops, then time-dims) into the ScheduleRef the
// owning node/omega slot it feeds, or nil for symbol/time columns which
// carry no direct schedule dependence in this simplified (but
// structurally faithful) encoding.
func scheduleRefForColumn(poly *DepPoly, col int) *ScheduleRef {
	if col == 0 {
		return &ScheduleRef{Side: 1, IsOmega: true} // placeholder: const column feeds omega_y - omega_x, resolved by caller
	}
	c := col - 1
	if c < poly.NumSymbols {
		return nil
	}
	c -= poly.NumSymbols
	if c < poly.NX {
		return &ScheduleRef{Side: 0, IsOmega: false, LoopIndex: c}
	}
	c -= poly.NX
	if c < poly.NY {
		return &ScheduleRef{Side: 1, IsOmega: false, LoopIndex: c}
	}
	return nil // time-dimension column
}
