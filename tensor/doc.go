// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API of shapegen.
//
// # Overview
//
// A Tensor is a dense float64 array in row-major order. Matrices are the
// common case: rows are samples, columns are features (one coordinate of
// one mesh vertex each).
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/shapegen/backend/cpu"
//	    "github.com/born-ml/shapegen/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
//	    y := backend.Tanh(x)
//	}
//
// # Errors
//
// Width and row-count disagreements at public boundaries are reported as a
// *ShapeError; errors.Is(err, ErrShapeMismatch) holds for all of them.
// Backends panic on shapes they cannot process, since callers validate first.
package tensor
