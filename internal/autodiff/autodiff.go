// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient
// tracking through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend wraps any tensor.Backend
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, Mul, MatMul) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := mse.Forward(model.Forward(x), y)
//	grads := autodiff.Backward(loss, backend)
//
// With recording stopped the decorator forwards every call to the wrapped
// backend and records nothing, which is how inference runs.
package autodiff

import (
	"github.com/born-ml/shapegen/internal/autodiff/ops"
	"github.com/born-ml/shapegen/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// The tape is not safe for concurrent use; while recording, the backend
// must be owned by a single goroutine.
type AutodiffBackend struct {
	inner tensor.Backend // Wrapped backend
	tape  *GradientTape  // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New(backend tensor.Backend) *AutodiffBackend {
	return &AutodiffBackend{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend) Inner() tensor.Backend {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend) Add(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Add(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(a, c, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend) Sub(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sub(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(a, c, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend) Mul(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mul(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(a, c, result))
	}
	return result
}

// MulScalar scales a tensor and records the operation.
func (b *AutodiffBackend) MulScalar(x *tensor.Tensor, s float64) *tensor.Tensor {
	result := b.inner.MulScalar(x, s)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulScalarOp(x, s, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend) MatMul(a, c *tensor.Tensor) *tensor.Tensor {
	result := b.inner.MatMul(a, c)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(a, c, result))
	}
	return result
}

// Transpose transposes a tensor and records the operation.
//
// The wrapped backend copies data for a transpose. In Linear the product
// is taken with W^T, so without a TransposeOp the gradient would stop at
// the copy and never reach the weight parameter.
func (b *AutodiffBackend) Transpose(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Transpose(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(x, result))
	}
	return result
}

// Tanh applies tanh and records the operation.
func (b *AutodiffBackend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Tanh(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTanhOp(x, result))
	}
	return result
}

// Mean computes the mean of all elements and records the operation.
func (b *AutodiffBackend) Mean(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mean(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMeanOp(x, result))
	}
	return result
}

// SumRows sums over rows and records the operation.
func (b *AutodiffBackend) SumRows(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.SumRows(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumRowsOp(x, result))
	}
	return result
}
