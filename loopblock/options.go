package loopblock

// Logger is the minimal diagnostic sink loopblock calls into, per
// SPEC_FULL.md §9. NopLogger (the default) makes every call a no-op.
type Logger interface {
	Debugf(format string, args ...any)
}

// NopLogger discards every message.
type NopLogger struct{}

// Debugf implements Logger.
func (NopLogger) Debugf(string, ...any) {}

// options holds the tunable knobs of LoopBlock.Optimize, per
// SPEC_FULL.md §8, constructed via NewOptions(opts ...Option) the way
// the teacher's matrix.NewMatrixOptions does.
type options struct {
	maxDepth      int
	orthogonalize bool
	satDepRetry   bool
	logger        Logger
}

// Option configures an options value during construction.
type Option func(*options)

// WithMaxDepth overrides the maximum LP recursion depth (default: the
// maximum NumLoops across all nodes, recomputed by Optimize if left 0).
func WithMaxDepth(d int) Option {
	return func(o *options) { o.maxDepth = d }
}

// WithOrthogonalize toggles the rank-deficient pre-scheduling pass
// (spec.md §4.2 step 4); on by default.
func WithOrthogonalize(enabled bool) Option {
	return func(o *options) { o.orthogonalize = enabled }
}

// WithSatDepRetry toggles the optimizeSatDep retry (spec.md §4.2's
// recursion step); on by default.
func WithSatDepRetry(enabled bool) Option {
	return func(o *options) { o.satDepRetry = enabled }
}

// WithLogger overrides the diagnostic sink (default NopLogger).
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewOptions builds an options value from documented defaults, applying
// overrides in order.
func NewOptions(opts ...Option) *options {
	o := &options{orthogonalize: true, satDepRetry: true, logger: NopLogger{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
