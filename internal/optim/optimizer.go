// Package optim implements optimization algorithms for training neural networks.
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	for epoch := range epochs {
//	    backend.Tape().StartRecording()
//	    loss := lossFunc.Forward(model.Forward(input), targets)
//	    grads := autodiff.Backward(loss, backend)
//
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	}
package optim

import (
	"github.com/born-ml/shapegen/internal/nn"
	"github.com/born-ml/shapegen/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in-place.
	//
	// The gradient map is the one returned by autodiff.Backward, keyed by
	// each parameter's tensor.
	Step(grads map[*tensor.Tensor]*tensor.Tensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// getGradient retrieves the gradient for a parameter.
//
// Returns nil if the parameter was not part of the computation graph.
func getGradient(param *nn.Parameter, grads map[*tensor.Tensor]*tensor.Tensor) *tensor.Tensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}
