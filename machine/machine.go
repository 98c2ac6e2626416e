// Package machine describes the target-hardware data table the cost model
// optimizes against: vector register width, cache hierarchy, and per-cycle
// core throughput. Per spec.md §1 the machine description itself is an
// external collaborator (a data table supplied by the host); this package
// defines the interface the cost model consumes plus a handful of concrete
// presets useful for tests and examples, grounded on the teacher's
// preset-constructor style (_examples/katalvlaran-lvlath/builder/config.go).
package machine

// CacheLevel describes one level of the memory hierarchy.
type CacheLevel struct {
	BytesPerLine  int     // stride, in bytes, of one cache line
	Associativity int     // number of ways
	Victim        bool    // true if occupancy is incremental over the next-inner level
	InvBandwidth  float64 // 1/bandwidth to the next level, cycles per byte
}

// CoreWidth describes the per-cycle issue width of the core's functional
// units, used by the roofline cost function in costmodel.
type CoreWidth struct {
	LoadsPerCycle   float64
	StoresPerCycle  float64
	ComputePerCycle float64
	TotalPerCycle   float64
}

// Machine is the abstract target descriptor consumed by costmodel.
type Machine interface {
	// VectorRegisterBytes returns the byte width of one vector register.
	VectorRegisterBytes() int
	// NumVectorRegisters returns the count of architectural vector registers.
	NumVectorRegisters() int
	// CacheLevels returns cache descriptors ordered from innermost (L1) out.
	CacheLevels() []CacheLevel
	// Core returns the per-cycle core throughput limits.
	Core() CoreWidth
	// OpCost returns the cycle cost of one instance of the named opcode
	// executed at the given vector width (in elements, 1 == scalar).
	OpCost(opcode string, vectorWidth int) float64
}

// table is a concrete, data-only Machine implementation.
type table struct {
	vecBytes    int
	vecRegs     int
	caches      []CacheLevel
	core        CoreWidth
	opCostTable map[string]float64 // per-element cost, independent of width for this simplified model
}

// VectorRegisterBytes implements Machine.
func (t *table) VectorRegisterBytes() int { return t.vecBytes }

// NumVectorRegisters implements Machine.
func (t *table) NumVectorRegisters() int { return t.vecRegs }

// CacheLevels implements Machine.
func (t *table) CacheLevels() []CacheLevel { return t.caches }

// Core implements Machine.
func (t *table) Core() CoreWidth { return t.core }

// OpCost implements Machine. Cost scales linearly with vectorWidth for
// opcodes present in the table; unknown opcodes cost 1 cycle per element,
// a conservative default.
func (t *table) OpCost(opcode string, vectorWidth int) float64 {
	if vectorWidth < 1 {
		vectorWidth = 1
	}
	per, ok := t.opCostTable[opcode]
	if !ok {
		per = 1.0
	}
	return per * float64(vectorWidth)
}

// Option configures a table during construction.
type Option func(*table)

// WithOpCost overrides (or adds) a per-element opcode cost.
func WithOpCost(opcode string, perElementCycles float64) Option {
	return func(t *table) { t.opCostTable[opcode] = perElementCycles }
}

// New builds a Machine from explicit parameters, applying overrides in
// order, matching the teacher's NewMatrixOptions(...Option) convention.
func New(vecBytes, vecRegs int, caches []CacheLevel, core CoreWidth, opts ...Option) Machine {
	t := &table{
		vecBytes:    vecBytes,
		vecRegs:     vecRegs,
		caches:      append([]CacheLevel(nil), caches...),
		core:        core,
		opCostTable: map[string]float64{"add": 1, "mul": 1, "fma": 1},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SkylakeServerLike returns a descriptor approximating a Skylake-Server
// class core: AVX-512, three cache levels, FMA-capable, used by the GEMM
// and cache-fit scenarios in spec.md §8.
func SkylakeServerLike(opts ...Option) Machine {
	caches := []CacheLevel{
		{BytesPerLine: 64, Associativity: 8, Victim: false, InvBandwidth: 1.0 / 64},
		{BytesPerLine: 64, Associativity: 16, Victim: false, InvBandwidth: 1.0 / 32},
		{BytesPerLine: 64, Associativity: 11, Victim: true, InvBandwidth: 1.0 / 8},
	}
	core := CoreWidth{LoadsPerCycle: 2, StoresPerCycle: 1, ComputePerCycle: 2, TotalPerCycle: 4}
	return New(64, 32, caches, core, opts...)
}

// CacheFitLike returns a descriptor with L1=32KiB-class associativity/line
// geometry and a victim L3 roughly 18x the L2 size, matching spec.md §8
// scenario 2's cache-fit test parameters.
func CacheFitLike(opts ...Option) Machine {
	caches := []CacheLevel{
		{BytesPerLine: 64, Associativity: 8, Victim: false, InvBandwidth: 1.0 / 64},  // 32KiB-class L1
		{BytesPerLine: 64, Associativity: 16, Victim: false, InvBandwidth: 1.0 / 24}, // 1MiB-class L2
		{BytesPerLine: 64, Associativity: 18, Victim: true, InvBandwidth: 1.0 / 8},   // ~18x L2, victim
	}
	core := CoreWidth{LoadsPerCycle: 2, StoresPerCycle: 1, ComputePerCycle: 2, TotalPerCycle: 4}
	return New(64, 32, caches, core, opts...)
}
