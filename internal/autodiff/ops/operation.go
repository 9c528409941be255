// Package ops defines operation interfaces and implementations for automatic differentiation.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend
//   - Backward pass: computes gradients for inputs given output gradient
//
// Supported operations:
//   - AddOp, SubOp, MulOp: element-wise arithmetic with row broadcasting
//   - MulScalarOp: scaling by a constant
//   - MatMulOp: matrix multiplication (d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad)
//   - TransposeOp: 2D transpose
//   - TanhOp: hyperbolic tangent activation (d(tanh(x))/dx = 1 - tanh²(x))
//   - MeanOp, SumRowsOp: reductions
package ops

import "github.com/born-ml/shapegen/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   outputGrad: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)] (gradient flows equally to both inputs)
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}
