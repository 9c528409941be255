// Package predict turns a raw neutral-pose matrix into a raw predicted pose
// matrix using a trained bundle.
//
// A Predictor is read-only after construction and safe for concurrent use
// as long as its model runs on a backend that does not record operations.
package predict

import (
	"errors"

	"github.com/born-ml/shapegen/internal/artifact"
	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/tensor"
)

// Predictor composes input normalization, the model forward pass and output
// denormalization.
type Predictor struct {
	model  *model.Regressor
	input  normalize.Stats
	output normalize.Stats
}

// New creates a Predictor after checking that the stats match the model widths.
//
// A model bound to an autodiff backend is rebound to the wrapped backend so
// prediction never records operations.
func New(m *model.Regressor, input, output normalize.Stats) (*Predictor, error) {
	if m == nil {
		return nil, errors.New("predict: nil model")
	}
	b := &artifact.Bundle{Model: m, Input: input, Output: output}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if ad, ok := m.Backend().(*autodiff.AutodiffBackend); ok {
		m = m.WithBackend(ad.Inner())
	}
	return &Predictor{model: m, input: input, output: output}, nil
}

// FromBundle creates a Predictor from a loaded or freshly trained bundle.
func FromBundle(b *artifact.Bundle) (*Predictor, error) {
	if b == nil {
		return nil, errors.New("predict: nil bundle")
	}
	return New(b.Model, b.Input, b.Output)
}

// Predict maps raw inputs [N, InputWidth] to raw outputs [N, OutputWidth].
//
// Returns an error wrapping tensor.ErrShapeMismatch if inputs do not have
// the width the input stats were computed for.
func (p *Predictor) Predict(inputs *tensor.Tensor) (*tensor.Tensor, error) {
	normalized, err := normalize.Apply(inputs, p.input)
	if err != nil {
		return nil, err
	}
	out, err := p.model.Forward(normalized)
	if err != nil {
		return nil, err
	}
	return normalize.Reverse(out, p.output)
}

// InputWidth returns the number of input features expected by Predict.
func (p *Predictor) InputWidth() int {
	return p.model.InputWidth()
}

// OutputWidth returns the number of output features produced by Predict.
func (p *Predictor) OutputWidth() int {
	return p.model.OutputWidth()
}
