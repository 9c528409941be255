package nn

import (
	"github.com/born-ml/shapegen/internal/tensor"
)

// Tanh is a hyperbolic tangent activation module.
//
// Applies the element-wise function: tanh(x) = (exp(x) - exp(-x)) / (exp(x) + exp(-x))
//
// Tanh squashes values to the range (-1, 1) and is zero-centered.
type Tanh struct {
	backend tensor.Backend
}

// NewTanh creates a new Tanh activation module.
func NewTanh(backend tensor.Backend) *Tanh {
	return &Tanh{backend: backend}
}

// Forward applies Tanh activation.
func (t *Tanh) Forward(input *tensor.Tensor) *tensor.Tensor {
	return t.backend.Tanh(input)
}

// Parameters returns an empty slice (Tanh has no trainable parameters).
func (t *Tanh) Parameters() []*Parameter {
	return nil
}

// StateDict returns an empty map.
func (t *Tanh) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{}
}

// LoadStateDict is a no-op for parameter-free modules.
func (t *Tanh) LoadStateDict(map[string]*tensor.Tensor) error {
	return nil
}
