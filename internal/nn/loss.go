package nn

import (
	"github.com/born-ml/shapegen/internal/tensor"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// Every step runs on the backend, so under an autodiff backend the loss is
// differentiable with respect to the predictions.
//
// Example:
//
//	mse := nn.NewMSELoss(backend)
//	loss := mse.Forward(model.Forward(input), targets)
type MSELoss struct {
	backend tensor.Backend
}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss(backend tensor.Backend) *MSELoss {
	return &MSELoss{backend: backend}
}

// Forward computes the MSE loss as a scalar tensor.
//
// Panics if predictions and targets differ in shape.
func (m *MSELoss) Forward(predictions, targets *tensor.Tensor) *tensor.Tensor {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	diff := m.backend.Sub(predictions, targets)
	squared := m.backend.Mul(diff, diff)
	return m.backend.Mean(squared)
}
