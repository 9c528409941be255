// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for tensor operations.
//
// # Overview
//
// Matrix products and transposes go through gonum's mat package; element-wise
// kernels and activations are split across worker goroutines once a matrix
// is large enough to amortize them. The worker count defaults to the number
// of physical cores reported by cpuid.
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
//	    x := tensor.Ones(tensor.Shape{2, 3})
//	    y := backend.Add(x, x)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates its
// own result and never modifies its inputs.
package cpu
