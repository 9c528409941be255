// Package nn implements neural network modules for the regression core.
//
// This package provides building blocks for constructing networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with gradient tracking
//   - Linear: Fully connected layer
//   - Tanh: Hyperbolic tangent activation
//   - Sequential: Container for stacking layers
//   - MSELoss: Mean squared error
//
// Design inspired by PyTorch's nn.Module.
package nn

import (
	"github.com/born-ml/shapegen/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(6, 512, backend, rng),
//	    nn.NewTanh(backend),
//	    nn.NewLinear(512, 6, backend, rng),
//	)
type Module interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features]. Modules panic
	// on a shape they cannot accept; callers validate at their boundary.
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter

	// StateDict returns a map of parameter names to tensors.
	StateDict() map[string]*tensor.Tensor

	// LoadStateDict copies parameter values from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.Tensor) error
}
