package ops

import "github.com/born-ml/shapegen/internal/tensor"

// MeanOp represents the mean over all elements: output = sum(x) / n.
type MeanOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(input, output *tensor.Tensor) *MeanOp {
	return &MeanOp{input: input, output: output}
}

// Backward spreads the scalar gradient evenly: d(mean)/dx_i = 1/n.
func (op *MeanOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	n := float64(op.input.NumElements())
	grad := tensor.Full(op.input.Shape(), outputGrad.Item()/n)
	return []*tensor.Tensor{grad}
}

// Inputs returns the input tensor.
func (op *MeanOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the scalar mean.
func (op *MeanOp) Output() *tensor.Tensor { return op.output }

// SumRowsOp represents a sum over rows: [N, C] -> [C].
type SumRowsOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewSumRowsOp creates a new SumRowsOp.
func NewSumRowsOp(input, output *tensor.Tensor) *SumRowsOp {
	return &SumRowsOp{input: input, output: output}
}

// Backward repeats the [C] gradient on every row.
func (op *SumRowsOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	zeros := tensor.Zeros(op.input.Shape())
	return []*tensor.Tensor{backend.Add(zeros, outputGrad)}
}

// Inputs returns the input tensor.
func (op *SumRowsOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the column sums.
func (op *SumRowsOp) Output() *tensor.Tensor { return op.output }
