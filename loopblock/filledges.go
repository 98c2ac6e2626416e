package loopblock

import (
	"github.com/katalvlaran/loopsched/dependence"
)

// FillEdges calls dependence.Check on every distinct pair of addresses
// sharing a base pointer where at least one is a store, collecting every
// returned edge into lb.Deps, per spec.md §4.2 step 1.
func (lb *LoopBlock) FillEdges() error {
	lb.Deps = nil
	for i := 0; i < len(lb.Addrs); i++ {
		for j := i + 1; j < len(lb.Addrs); j++ {
			x, y := lb.Addrs[i], lb.Addrs[j]
			if !x.Base.Equal(y.Base) {
				continue
			}
			if !x.IsStore && !y.IsStore {
				continue
			}
			deps, err := dependence.Check(x, y)
			if err != nil {
				return err
			}
			lb.Deps = append(lb.Deps, deps...)
		}
	}
	return nil
}
