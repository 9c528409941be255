// Package model defines the shape regressor: a fixed three-layer
// feed-forward network mapping a flat vertex-position vector to another.
//
// Topology:
//
//	Linear(in → hidden) → Tanh → Linear(hidden → hidden) → Tanh → Linear(hidden → out)
package model

import (
	"math/rand"

	"github.com/born-ml/shapegen/internal/nn"
	"github.com/born-ml/shapegen/internal/tensor"
)

// DefaultHiddenWidth is the width of both hidden layers when none is configured.
const DefaultHiddenWidth = 512

// Regressor is the fixed-topology regression network.
//
// It owns its parameters; only an optimizer stepping over Parameters()
// mutates them. Forward has no hidden state, so repeated calls on the same
// input return identical results.
type Regressor struct {
	fc1, fc2, fc3 *nn.Linear
	net           *nn.Sequential
	backend       tensor.Backend
}

// New creates a Regressor with weights drawn from rng.
//
// Panics if any width is not positive; callers validate configuration first.
func New(inputWidth, hiddenWidth, outputWidth int, backend tensor.Backend, rng *rand.Rand) *Regressor {
	if inputWidth <= 0 || hiddenWidth <= 0 || outputWidth <= 0 {
		panic("model.New: widths must be positive")
	}
	return assemble(
		nn.NewLinear(inputWidth, hiddenWidth, backend, rng),
		nn.NewLinear(hiddenWidth, hiddenWidth, backend, rng),
		nn.NewLinear(hiddenWidth, outputWidth, backend, rng),
		backend,
	)
}

func assemble(fc1, fc2, fc3 *nn.Linear, backend tensor.Backend) *Regressor {
	return &Regressor{
		fc1: fc1,
		fc2: fc2,
		fc3: fc3,
		net: nn.NewSequential(
			fc1,
			nn.NewTanh(backend),
			fc2,
			nn.NewTanh(backend),
			fc3,
		),
		backend: backend,
	}
}

// Forward maps an [N, InputWidth] matrix to an [N, OutputWidth] matrix.
// An input with no rows yields an empty [0, OutputWidth] matrix.
//
// Returns a *tensor.ShapeError wrapping tensor.ErrShapeMismatch when the
// input is not a matrix of the expected width.
func (r *Regressor) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if err := tensor.CheckCols("model.Forward", input, r.InputWidth()); err != nil {
		return nil, err
	}
	if input.Rows() == 0 {
		return tensor.New([]float64{}, tensor.Shape{0, r.OutputWidth()}), nil
	}
	return r.net.Forward(input), nil
}

// WithBackend returns a Regressor sharing these parameters whose forward
// pass runs on backend. Used to detach a trained model from its autodiff
// backend before serving predictions.
func (r *Regressor) WithBackend(backend tensor.Backend) *Regressor {
	return assemble(r.fc1.WithBackend(backend), r.fc2.WithBackend(backend), r.fc3.WithBackend(backend), backend)
}

// Backend returns the backend the forward pass runs on.
func (r *Regressor) Backend() tensor.Backend {
	return r.backend
}

// InputWidth returns the number of input features.
func (r *Regressor) InputWidth() int {
	return r.fc1.InFeatures()
}

// HiddenWidth returns the width of the hidden layers.
func (r *Regressor) HiddenWidth() int {
	return r.fc1.OutFeatures()
}

// OutputWidth returns the number of output features.
func (r *Regressor) OutputWidth() int {
	return r.fc3.OutFeatures()
}

// Parameters returns all trainable parameters in layer order.
func (r *Regressor) Parameters() []*nn.Parameter {
	return r.net.Parameters()
}

// StateDict returns the parameters keyed as "0.weight", "0.bias", "2.weight",
// "2.bias", "4.weight", "4.bias".
func (r *Regressor) StateDict() map[string]*tensor.Tensor {
	return r.net.StateDict()
}

// LoadStateDict copies weights from stateDict into the model.
func (r *Regressor) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	return r.net.LoadStateDict(stateDict)
}
