package loopblock

import (
	"github.com/katalvlaran/loopsched/dependence"
	"github.com/katalvlaran/loopsched/ir"
)

// GroupIntoNodes implements spec.md §4.2 step 2: one node per store;
// each store's reload (register reuse of its own just-written value) is
// folded into that store's node; a load whose only producing store in
// this block is a single store is folded into that store's node too;
// a load consumed by (produced-into) more than one store's node is
// duplicated, one copy per consuming node; a load with no producing
// store in the block gets its own singleton node (the "isolated loads"
// boundary case in spec.md §8).
func (lb *LoopBlock) GroupIntoNodes() error {
	lb.Nodes = nil
	lb.nodeOf = make(map[*ir.Address]int, len(lb.Addrs))

	// One node per store, plus its reload self-dependence.
	storeNode := make(map[*ir.Address]int)
	for _, a := range lb.Addrs {
		if !a.IsStore {
			continue
		}
		idx := lb.addNode(a)
		storeNode[a] = idx

		reload, dep, err := dependence.Reload(a)
		if err != nil {
			return err
		}
		lb.Addrs = append(lb.Addrs, reload)
		lb.Nodes[idx].AddrIndices = append(lb.Nodes[idx].AddrIndices, len(lb.Addrs)-1)
		lb.nodeOf[reload] = idx
		if dep != nil {
			lb.Deps = append(lb.Deps, dep)
		}
	}

	// Snapshot the pre-reload address list: everything appended above is
	// a synthetic reload, already grouped.
	originalCount := 0
	for _, a := range lb.Addrs {
		if a.IsReload {
			break
		}
		originalCount++
	}

	for i := 0; i < originalCount; i++ {
		a := lb.Addrs[i]
		if a.IsStore {
			continue
		}
		producers := lb.producingStores(a, storeNode)
		switch len(producers) {
		case 0:
			lb.addNode(a)
		case 1:
			idx := storeNode[producers[0]]
			lb.Nodes[idx].AddrIndices = append(lb.Nodes[idx].AddrIndices, i)
			lb.nodeOf[a] = idx
		default:
			// First producer keeps the original address; every other
			// producer gets its own duplicate, per spec.md §4.2's
			// "loads with multiple consuming stores are duplicated".
			idx0 := storeNode[producers[0]]
			lb.Nodes[idx0].AddrIndices = append(lb.Nodes[idx0].AddrIndices, i)
			lb.nodeOf[a] = idx0
			for _, producer := range producers[1:] {
				dup := cloneAddress(a)
				lb.Addrs = append(lb.Addrs, dup)
				dupIdx := len(lb.Addrs) - 1
				idx := storeNode[producer]
				lb.Nodes[idx].AddrIndices = append(lb.Nodes[idx].AddrIndices, dupIdx)
				lb.nodeOf[dup] = idx

				deps, err := dependence.Check(producer, dup)
				if err != nil {
					return err
				}
				lb.Deps = append(lb.Deps, deps...)
			}
		}
	}
	return nil
}

// producingStores returns the distinct store addresses that reach load
// via a forward Dependence edge already collected in lb.Deps.
func (lb *LoopBlock) producingStores(load *ir.Address, storeNode map[*ir.Address]int) []*ir.Address {
	var out []*ir.Address
	seen := make(map[*ir.Address]bool)
	for _, d := range lb.Deps {
		if d.Out != load || !d.Forward {
			continue
		}
		if _, ok := storeNode[d.In]; !ok {
			continue
		}
		if seen[d.In] {
			continue
		}
		seen[d.In] = true
		out = append(out, d.In)
	}
	return out
}

// addNode creates a fresh singleton ScheduledNode owning addr and
// appends it to lb.Nodes, recording the address->node mapping.
func (lb *LoopBlock) addNode(addr *ir.Address) int {
	idx := len(lb.Nodes)
	node := ir.NewScheduledNode([]int{lb.addrIndex(addr)}, addr.N)
	lb.Nodes = append(lb.Nodes, node)
	lb.nodeOf[addr] = idx
	return idx
}

func (lb *LoopBlock) addrIndex(addr *ir.Address) int {
	for i, a := range lb.Addrs {
		if a == addr {
			return i
		}
	}
	return -1
}

// cloneAddress returns a field-for-field copy of a sharing no
// dependence-edge chain of its own (the clone starts with none, fresh
// edges are built by the caller via dependence.Check).
func cloneAddress(a *ir.Address) *ir.Address {
	idx := make([][]int, len(a.Index))
	for i, row := range a.Index {
		idx[i] = append([]int(nil), row...)
	}
	var symOffset [][]int
	if a.SymOffset != nil {
		symOffset = make([][]int, len(a.SymOffset))
		for i, row := range a.SymOffset {
			symOffset[i] = append([]int(nil), row...)
		}
	}
	return &ir.Address{
		Base:             a.Base,
		Loop:             a.Loop,
		D:                a.D,
		N:                a.N,
		IsStore:          a.IsStore,
		IsLoad:           a.IsLoad,
		IsReload:         a.IsReload,
		Denom:            a.Denom,
		Index:            idx,
		Offset:           append([]int(nil), a.Offset...),
		SymOffset:        symOffset,
		FusionOmega:      append([]int(nil), a.FusionOmega...),
		ElementBytes:     a.ElementBytes,
		ElementAlignment: a.ElementAlignment,
	}
}
