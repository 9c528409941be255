// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Tensor is a dense float64 tensor stored in row-major order.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
// Example: Shape{50, 6} is a matrix of 50 samples with 6 features.
type Shape = tensor.Shape

// Backend performs the computation for tensor operations.
type Backend = tensor.Backend

// ShapeError describes a rejected shape.
type ShapeError = tensor.ShapeError

// ErrShapeMismatch is matched by every *ShapeError.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// New wraps data in a Tensor without copying.
func New(data []float64, shape Shape) *Tensor {
	return tensor.New(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor from a copy of data.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a matrix from equally long rows.
func FromRows(rows [][]float64) (*Tensor, error) {
	return tensor.FromRows(rows)
}

// Uniform creates a tensor with values drawn from U(low, high).
func Uniform(shape Shape, low, high float64, rng *rand.Rand) *Tensor {
	return tensor.Uniform(shape, low, high, rng)
}
