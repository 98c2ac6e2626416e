package loopsched

import (
	"fmt"

	"github.com/katalvlaran/loopsched/affine"
	"github.com/katalvlaran/loopsched/arena"
	"github.com/katalvlaran/loopsched/costmodel"
	"github.com/katalvlaran/loopsched/ir"
	"github.com/katalvlaran/loopsched/loopblock"
	"github.com/katalvlaran/loopsched/looptree"
	"github.com/katalvlaran/loopsched/machine"
)

// Optimize is the module's single library entry point, per SPEC_FULL.md
// §6: it runs the schedule LP over addrs (loopblock.LoopBlock.Optimize),
// materializes the resulting loop tree (looptree.Materialize), and
// searches for per-leaf register/vector/cache transforms against m
// (costmodel.Search). loops must list every affine.Loop referenced by
// some address in addrs (SPEC_FULL.md §6's signature takes it
// explicitly, even though each Address already carries its own Loop
// pointer, so a host can hand the optimizer a complete loop-nest context
// up front and have that context validated before any LP work starts).
func Optimize(addrs []*ir.Address, loops []*affine.Loop, a arena.Arena, m machine.Machine, opts ...Option) (*Result, error) {
	if len(addrs) == 0 {
		return nil, ErrNoAddresses
	}
	if err := validateLoops(addrs, loops); err != nil {
		return nil, err
	}

	o := newOptions(opts...)
	adapter := debugAdapter{o.logger}

	lb := loopblock.New(addrs, a, append(
		[]loopblock.Option{loopblock.WithLogger(adapter)},
		o.loopblockOpts...,
	)...)
	if err := lb.Optimize(); err != nil {
		return nil, fmt.Errorf("loopsched: solving schedule: %w", err)
	}

	nodeAddrs := make([]looptree.NodeAddrs, len(lb.Nodes))
	for i, node := range lb.Nodes {
		as := make([]*ir.Address, len(node.AddrIndices))
		for j, idx := range node.AddrIndices {
			as[j] = lb.Addrs[idx]
		}
		nodeAddrs[i] = looptree.NodeAddrs{Node: node, Addrs: as}
	}

	tree, err := looptree.Materialize(nodeAddrs, loopblock.IntOps)
	if err != nil {
		return nil, fmt.Errorf("loopsched: materializing loop tree: %w", err)
	}

	transforms, err := costmodel.Search(tree, m, o.opcodes, append(
		[]costmodel.Option{costmodel.WithLogger(adapter)},
		o.costmodelOpts...,
	)...)
	if err != nil {
		return nil, fmt.Errorf("loopsched: searching cost model: %w", err)
	}

	return &Result{Tree: tree, Transforms: transforms}, nil
}

// validateLoops reports ErrNoAddresses-adjacent misuse: every address's
// Loop must appear in loops, so a host cannot silently hand the
// optimizer addresses from outside the loop-nest context it declared.
func validateLoops(addrs []*ir.Address, loops []*affine.Loop) error {
	known := make(map[*affine.Loop]bool, len(loops))
	for _, l := range loops {
		known[l] = true
	}
	for _, a := range addrs {
		if !known[a.Loop] {
			return fmt.Errorf("loopsched: address base %q references a loop not present in loops", a.Base.String())
		}
	}
	return nil
}
