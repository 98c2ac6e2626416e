package costmodel

// Logger is the minimal diagnostic sink costmodel calls into, mirroring
// loopblock.Logger (SPEC_FULL.md §9).
type Logger interface {
	Debugf(format string, args ...any)
}

// NopLogger discards every message.
type NopLogger struct{}

// Debugf implements Logger.
func (NopLogger) Debugf(string, ...any) {}

// options holds the tunable knobs of Search/CacheOptimize, per
// SPEC_FULL.md §8, constructed the way the teacher's NewMatrixOptions
// does.
type options struct {
	maxRegisterUnroll int
	vectorWidths      []int
	cacheWindow       int
	maxCacheFactor    int
	alpha             float64
	logger            Logger
}

// Option configures an options value during construction.
type Option func(*options)

// WithMaxRegisterUnroll overrides the register-unroll search ceiling
// (default 16, per spec.md §4.4's "u ∈ {1,…,16}").
func WithMaxRegisterUnroll(n int) Option {
	return func(o *options) { o.maxRegisterUnroll = n }
}

// WithVectorWidths overrides the candidate vectorization widths tried
// at the outermost un-vectorized loop (default {1,2,4,8,16}).
func WithVectorWidths(widths []int) Option {
	return func(o *options) { o.vectorWidths = append([]int(nil), widths...) }
}

// WithCacheWindow overrides the cache-bisection window size (default 7,
// per spec.md §4.4's "bisection search... using a 7-point window").
func WithCacheWindow(n int) Option {
	return func(o *options) { o.cacheWindow = n }
}

// WithMaxCacheFactor overrides the cache-factor search ceiling used
// when an axis's trip count is unknown (default 4096): the cache
// optimizer's own way-usage fit (spec.md §4.4) narrows this down
// further, so this is only a backstop, not the bound that decides
// whether a cache factor of e.g. 300-500 (spec.md §8 scenario 2) is
// reachable.
func WithMaxCacheFactor(n int) Option {
	return func(o *options) { o.maxCacheFactor = n }
}

// WithAlpha overrides the roofline leakage term (default 1/8, per
// spec.md §4.4's "small α (=1/8) as a leakage term").
func WithAlpha(a float64) Option {
	return func(o *options) { o.alpha = a }
}

// WithLogger overrides the diagnostic sink (default NopLogger).
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewOptions builds an options value from documented defaults, applying
// overrides in order.
func NewOptions(opts ...Option) *options {
	o := &options{
		maxRegisterUnroll: 16,
		vectorWidths:      []int{1, 2, 4, 8, 16},
		cacheWindow:       7,
		maxCacheFactor:    4096,
		alpha:             1.0 / 8,
		logger:            NopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
