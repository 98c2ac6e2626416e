package loopsched

import "errors"

// ErrNoAddresses is returned by Optimize when handed zero addresses:
// there is nothing to schedule.
var ErrNoAddresses = errors.New("loopsched: no addresses to schedule")
