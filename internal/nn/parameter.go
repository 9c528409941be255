package nn

import (
	"github.com/born-ml/shapegen/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that require gradient computation during training.
// They typically represent weights and biases of layers. The gradient map
// returned by autodiff.Backward is keyed by Tensor().
type Parameter struct {
	name   string         // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor // The parameter tensor
	grad   *tensor.Tensor // Gradient tensor (computed during backward pass)
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *tensor.Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
