package matrix

import (
	"runtime"

	"github.com/born-ml/mlp/internal/parallel"
)

// Strategy selects how an Engine executes its operations.
type Strategy int

// Execution strategies. Both produce the same results up to floating-point
// summation order.
const (
	// Sequential runs every operation on the calling goroutine with
	// straightforward loops.
	Sequential Strategy = iota

	// Parallel forks operations over disjoint row/element ranges and joins
	// before returning. Multiply uses cache-blocked tiles.
	Parallel
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a name produced by String back to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "sequential", "seq":
		return Sequential, true
	case "parallel", "par":
		return Parallel, true
	default:
		return Sequential, false
	}
}

// DefaultBlockSize is the tile edge used by the blocked multiply.
const DefaultBlockSize = 32

// EngineConfig configures an Engine.
type EngineConfig struct {
	Strategy  Strategy        // Execution strategy (default: Sequential).
	Parallel  parallel.Config // Worker pool settings, used by the Parallel strategy.
	BlockSize int             // Multiply tile edge (default: 32).
}

// DefaultEngineConfig returns a sequential configuration with default pool
// settings ready to be switched to Parallel.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Strategy:  Sequential,
		Parallel:  parallel.DefaultConfig(),
		BlockSize: DefaultBlockSize,
	}
}

// Engine executes matrix operations under a fixed strategy.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	strategy  Strategy
	pool      parallel.Config // Element/row-level fan-out.
	tiles     parallel.Config // Tile-level fan-out for Multiply.
	blockSize int
}

// NewEngine creates an engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = DefaultBlockSize
	}

	e := &Engine{
		strategy:  cfg.Strategy,
		pool:      parallel.Sequential(),
		tiles:     parallel.Sequential(),
		blockSize: cfg.BlockSize,
	}

	if cfg.Strategy == Parallel {
		pool := cfg.Parallel
		pool.Enabled = true
		if pool.NumWorkers <= 0 {
			pool.NumWorkers = runtime.NumCPU()
		}
		if pool.MinChunkSize <= 0 {
			pool.MinChunkSize = parallel.DefaultConfig().MinChunkSize
		}
		e.pool = pool

		tiles := pool
		tiles.MinChunkSize = 1
		e.tiles = tiles
	}

	return e
}

var defaultEngine = NewEngine(DefaultEngineConfig())

// Default returns the shared sequential engine.
func Default() *Engine {
	return defaultEngine
}

// Strategy returns the engine's execution strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// BlockSize returns the multiply tile edge.
func (e *Engine) BlockSize() int {
	return e.blockSize
}

// ForRange runs f over contiguous ranges covering [0, n): in one call under
// the Sequential strategy, fanned out over the worker pool under Parallel.
// f must only write to outputs indexed inside its range.
func (e *Engine) ForRange(n int, f func(start, end int)) {
	parallel.ForRange(n, f, e.pool)
}

// sum reduces data with per-range partial sums.
func (e *Engine) sum(data []float64, partial func([]float64) float64) float64 {
	return parallel.Reduce(len(data), func(s, end int) float64 {
		return partial(data[s:end])
	}, func(acc, v float64) float64 {
		return acc + v
	}, e.pool)
}
