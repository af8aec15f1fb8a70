// Package parallel provides fork-join helpers for the matrix engine.
//
// Every helper splits an index range into contiguous chunks, runs one
// goroutine per chunk and waits for all of them before returning. Chunks
// never overlap, so callers writing to disjoint output ranges need no locks.
package parallel

import (
	"runtime"
	"sync"
)

// Config sizes the fork-join pool.
type Config struct {
	Enabled      bool // Fan out at all; false runs on the caller.
	NumWorkers   int  // Upper bound on goroutines per call.
	MinChunkSize int  // Smallest range handed to one goroutine.
}

// DefaultConfig uses one worker per CPU and chunks of at least 64 items.
func DefaultConfig() Config {
	cpus := runtime.NumCPU()
	return Config{
		Enabled:      cpus > 1,
		NumWorkers:   cpus,
		MinChunkSize: 64,
	}
}

// Sequential returns a config that always runs on the calling goroutine.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// chunk returns the chunk length for n items, or 0 when n should run sequentially.
func (cfg Config) chunk(n int) int {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2 || n < cfg.MinChunkSize {
		return 0
	}
	return max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
}

// For calls f(i) for every i in [0, n). Ranges below MinChunkSize, or a
// disabled cfg, run on the calling goroutine.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForRange executes f over contiguous half-open ranges covering [0, n).
// Each range is handled by exactly one goroutine.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	chunkSize := cfg.chunk(n)
	if chunkSize == 0 || chunkSize >= n {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForGrid executes f(r, c) for every cell of a rows×cols grid.
// Used for tile loops where each (r, c) owns a distinct output block.
func ForGrid(rows, cols int, f func(r, c int), cfg Config) {
	if rows <= 0 || cols <= 0 {
		return
	}
	For(rows*cols, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}

// Reduce splits [0, n) into ranges, evaluates partial(start, end) for each and
// combines the partial results in range order with combine.
func Reduce(n int, partial func(start, end int) float64, combine func(acc, v float64) float64, cfg Config) float64 {
	if n <= 0 {
		return 0
	}
	chunkSize := cfg.chunk(n)
	if chunkSize == 0 || chunkSize >= n {
		return partial(0, n)
	}

	numChunks := (n + chunkSize - 1) / chunkSize
	partials := make([]float64, numChunks)

	var wg sync.WaitGroup
	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(idx, s, e int) {
			defer wg.Done()
			partials[idx] = partial(s, e)
		}(c, start, end)
	}
	wg.Wait()

	acc := partials[0]
	for _, v := range partials[1:] {
		acc = combine(acc, v)
	}
	return acc
}
