// Package parallel provides parallel execution utilities for the compute backends.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on the physical core count.
// Hyper-threaded siblings add little to memory-bound element-wise loops,
// so logical CPUs are only used when cpuid cannot report physical cores.
func DefaultConfig() Config {
	n := cpuid.CPU.PhysicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	chunk := 1024
	if cpuid.CPU.Supports(cpuid.AVX2) {
		chunk = 2048
	}
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: chunk,
	}
}

// Sequential returns a configuration that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}

// ForRange splits [0, n) into contiguous chunks and executes f(start, end)
// for each chunk. Each index is visited by exactly one chunk.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

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

// Describe returns a short description of the host CPU for diagnostics.
func Describe() string {
	return cpuid.CPU.BrandName
}
