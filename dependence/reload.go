package dependence

import (
	"github.com/katalvlaran/loopsched/ir"
)

// Reload constructs the self-dependence store->load representing a load
// of the just-stored value, per spec.md §4.1: "identical plumbing with a
// constructed reload address." Returns the reload ir.Address and the
// forward store->reload Dependence: the reload shares its producer's
// index matrix exactly, so Check's time dimension always reflects the
// producer's own reuse slack and the leading (forward) edge is always
// the store-to-reload direction Reload callers want.
func Reload(store *ir.Address) (*ir.Address, *ir.Dependence, error) {
	reload := ir.Reload(store)
	deps, err := Check(store, reload)
	if err != nil {
		return nil, nil, err
	}
	if len(deps) == 0 {
		// A reload is defined to share its producer's exact index
		// matrix and offset, so the dependence polyhedron can never be
		// empty; if Check still finds no edge, the reload is returned
		// with a nil edge and a nil error, and the caller checks the
		// edge for nil.
		return reload, nil, nil
	}
	return reload, deps[0], nil
}
