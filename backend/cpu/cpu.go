// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/parallel"
	"github.com/born-ml/shapegen/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// ParallelConfig controls how element-wise kernels are split across goroutines.
type ParallelConfig = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend sized to the host's physical cores.
//
// Example:
//
//	backend := cpu.New()
//	y := backend.MatMul(x, w)
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that never spawns goroutines.
func NewSequential() *Backend {
	return internalcpu.NewWithConfig(parallel.Sequential())
}

// NewWithConfig creates a CPU backend with an explicit parallel configuration.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
