package loopsched

import (
	"github.com/katalvlaran/loopsched/costmodel"
	"github.com/katalvlaran/loopsched/loopblock"
)

// options holds Optimize's tunable knobs, per SPEC_FULL.md §8.
// loopblockOpts/costmodelOpts are forwarded verbatim to the respective
// subpackage constructors, the way the teacher forwards BuilderOption
// slices into matrix.NewMatrixOptions. The target machine descriptor is
// a required positional argument of Optimize, not an Option, per
// SPEC_FULL.md §6's external-interface signature.
type options struct {
	logger        Logger
	opcodes       []string
	loopblockOpts []loopblock.Option
	costmodelOpts []costmodel.Option
}

// Option configures an options value during construction.
type Option func(*options)

// WithLogger overrides the diagnostic sink (default NopLogger); it is
// also threaded down into loopblock's and costmodel's own loggers.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOpcodes sets the compute opcodes each leaf block issues, consumed
// by the cost model's roofline compute term (default: a single "fma").
func WithOpcodes(opcodes []string) Option {
	return func(o *options) { o.opcodes = append([]string(nil), opcodes...) }
}

// WithLoopBlockOptions forwards additional loopblock.Option values to
// the underlying LoopBlock.Optimize call.
func WithLoopBlockOptions(opts ...loopblock.Option) Option {
	return func(o *options) { o.loopblockOpts = append(o.loopblockOpts, opts...) }
}

// WithCostModelOptions forwards additional costmodel.Option values to
// the underlying costmodel.Search call.
func WithCostModelOptions(opts ...costmodel.Option) Option {
	return func(o *options) { o.costmodelOpts = append(o.costmodelOpts, opts...) }
}

// newOptions builds an options value from documented defaults, applying
// overrides in order.
func newOptions(opts ...Option) *options {
	o := &options{
		logger:  NopLogger{},
		opcodes: []string{"fma"},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
