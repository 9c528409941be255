// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// A Backend wraps any tensor.Backend and, while its tape is recording,
// records every operation. Backward walks the tape in reverse and returns
// the gradient of every recorded input.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := backend.Mean(backend.Mul(x, x))
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend = autodiff.AutodiffBackend

// Tape records operations for backpropagation.
type Tape = autodiff.GradientTape

// New creates a new autodiff backend wrapping the given backend.
func New(backend tensor.Backend) *Backend {
	return autodiff.New(backend)
}

// Backward returns the gradients of t with respect to every recorded input,
// keyed by tensor.
func Backward(t *tensor.Tensor, backend *Backend) map[*tensor.Tensor]*tensor.Tensor {
	return autodiff.Backward(t, backend)
}
