// Package costmodel implements spec.md §4.4's cost-model optimizer: a
// multi-level search over register unroll factors, vectorization
// placement, and per-cache blocking factors, minimizing a leaky-ReLU
// roofline cost plus an analytic register-pressure penalty.
//
// Grounded on the teacher's options-constructor and table-descriptor
// style (_examples/katalvlaran-lvlath/builder/config.go,
// matrix/types.go's Options/Option) and on machine.Machine as the
// abstract target descriptor this package searches against.
package costmodel

import "errors"

// ErrEmptyTree is returned by Search when handed a loop tree with no
// leaves to cost.
var ErrEmptyTree = errors.New("costmodel: loop tree has no leaves")

// ErrNoFit is returned by CacheOptimize when the cache-factor ceiling is
// below 1. When no factor satisfies way-usage at any cache level,
// CacheOptimize does not return it and searches with a ceiling of 1.
var ErrNoFit = errors.New("costmodel: no cache factor fits")
