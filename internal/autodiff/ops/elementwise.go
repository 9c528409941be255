package ops

import "github.com/born-ml/shapegen/internal/tensor"

// AddOp represents element-wise addition: output = a + b.
type AddOp struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.Tensor) *AddOp {
	return &AddOp{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Backward passes the gradient through unchanged, summing over rows for a
// broadcast operand.
func (op *AddOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.Tensor{
		reduceTo(outputGrad, a.Shape(), backend),
		reduceTo(outputGrad, b.Shape(), backend),
	}
}

// Inputs returns the input tensors [a, b].
func (op *AddOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor a + b.
func (op *AddOp) Output() *tensor.Tensor { return op.output }

// SubOp represents element-wise subtraction: output = a - b.
type SubOp struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.Tensor) *SubOp {
	return &SubOp{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Backward computes [grad, -grad].
func (op *SubOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	negGrad := backend.MulScalar(outputGrad, -1)
	return []*tensor.Tensor{
		reduceTo(outputGrad, a.Shape(), backend),
		reduceTo(negGrad, b.Shape(), backend),
	}
}

// Inputs returns the input tensors [a, b].
func (op *SubOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor a - b.
func (op *SubOp) Output() *tensor.Tensor { return op.output }

// MulOp represents element-wise multiplication: output = a * b.
type MulOp struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.Tensor) *MulOp {
	return &MulOp{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Backward computes [grad * b, grad * a].
func (op *MulOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.Tensor{
		reduceTo(backend.Mul(outputGrad, b), a.Shape(), backend),
		reduceTo(backend.Mul(outputGrad, a), b.Shape(), backend),
	}
}

// Inputs returns the input tensors [a, b].
func (op *MulOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns the output tensor a * b.
func (op *MulOp) Output() *tensor.Tensor { return op.output }

// MulScalarOp represents scaling by a constant: output = x * s.
type MulScalarOp struct {
	input  *tensor.Tensor
	scalar float64
	output *tensor.Tensor
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x *tensor.Tensor, s float64, output *tensor.Tensor) *MulScalarOp {
	return &MulScalarOp{input: x, scalar: s, output: output}
}

// Backward computes grad * s.
func (op *MulScalarOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensor.
func (op *MulScalarOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the scaled tensor.
func (op *MulScalarOp) Output() *tensor.Tensor { return op.output }

// TanhOp represents the hyperbolic tangent activation.
type TanhOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTanhOp creates a new tanh operation.
func NewTanhOp(input, output *tensor.Tensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes the gradient for tanh.
//
// Since the output tanh(x) is already computed:
// grad_input = grad_output * (1 - output²).
func (op *TanhOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	outputSquared := backend.Mul(op.output, op.output)
	ones := tensor.Ones(op.output.Shape())
	tanhDerivative := backend.Sub(ones, outputSquared)
	return []*tensor.Tensor{backend.Mul(outputGrad, tanhDerivative)}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns tanh(input).
func (op *TanhOp) Output() *tensor.Tensor { return op.output }
