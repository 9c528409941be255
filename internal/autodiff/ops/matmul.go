package ops

import "github.com/born-ml/shapegen/internal/tensor"

// MatMulOp represents a matrix multiplication operation: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
type MatMulOp struct {
	inputs []*tensor.Tensor // [a, b]
	output *tensor.Tensor   // a @ b
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.Tensor) *MatMulOp {
	return &MatMulOp{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.MatMul(outputGrad, backend.Transpose(b))
	gradB := backend.MatMul(backend.Transpose(a), outputGrad)

	return []*tensor.Tensor{gradA, gradB}
}

// Inputs returns the input tensors [a, b].
func (op *MatMulOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor a @ b.
func (op *MatMulOp) Output() *tensor.Tensor { return op.output }

// TransposeOp represents a 2D transpose.
//
// The backend copies data for a transpose, so the op must be on the tape
// for a gradient computed on W^T to reach the parameter W.
type TransposeOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.Tensor) *TransposeOp {
	return &TransposeOp{input: input, output: output}
}

// Backward transposes the gradient back.
func (op *TransposeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Transpose(outputGrad)}
}

// Inputs returns the input tensor.
func (op *TransposeOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the transposed tensor.
func (op *TransposeOp) Output() *tensor.Tensor { return op.output }
