package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/shapegen/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N).
// The product is computed by gonum's BLAS-backed Dense.Mul.
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	out := make([]float64, m*n)
	if m == 0 || n == 0 || k == 0 {
		// gonum rejects empty matrices; an empty inner dimension sums to zero.
		return tensor.New(out, tensor.Shape{m, n})
	}
	dst := mat.NewDense(m, n, out)
	dst.Mul(a.Dense(), b.Dense())

	return tensor.New(out, tensor.Shape{m, n})
}

// Transpose swaps the two axes of a 2D tensor, copying the data.
func (cpu *CPUBackend) Transpose(x *tensor.Tensor) *tensor.Tensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("transpose: only 2D tensors supported, got shape %v", shape))
	}

	rows, cols := shape[0], shape[1]
	out := make([]float64, rows*cols)
	if rows == 0 || cols == 0 {
		return tensor.New(out, tensor.Shape{cols, rows})
	}
	dst := mat.NewDense(cols, rows, out)
	dst.Copy(x.Dense().T())

	return tensor.New(out, tensor.Shape{cols, rows})
}
