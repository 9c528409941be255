package nn

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
	backend     tensor.Backend
}

// NewLinear creates a new Linear layer drawing its initial weights from rng.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, rng))
	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// WithBackend returns a layer that shares this layer's parameters but runs
// its forward pass on backend.
func (l *Linear) WithBackend(backend tensor.Backend) *Linear {
	clone := *l
	clone.backend = backend
	return &clone
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in] @ [in, out] = [batch, out]
	wT := l.backend.Transpose(l.weight.Tensor())
	output := l.backend.MatMul(input, wT)

	// Bias [out] is repeated along the batch rows.
	return l.backend.Add(output, l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to tensors.
func (l *Linear) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"weight": l.weight.Tensor(),
		"bias":   l.bias.Tensor(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
//
// Values are copied into the existing parameter tensors, so the
// parameters keep their identity.
func (l *Linear) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	if err := loadInto(l.weight, stateDict, tensor.Shape{l.outFeatures, l.inFeatures}); err != nil {
		return err
	}
	return loadInto(l.bias, stateDict, tensor.Shape{l.outFeatures})
}

func loadInto(p *Parameter, stateDict map[string]*tensor.Tensor, want tensor.Shape) error {
	src, ok := stateDict[p.Name()]
	if !ok {
		return fmt.Errorf("missing %s in state dict", p.Name())
	}
	if !src.Shape().Equal(want) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", p.Name(), want, src.Shape())
	}
	if !allFinite(src.Data()) {
		return fmt.Errorf("%s contains non-finite values", p.Name())
	}
	copy(p.Tensor().Data(), src.Data())
	return nil
}

func allFinite(data []float64) bool {
	if len(data) == 0 {
		return true
	}
	if floats.HasNaN(data) {
		return false
	}
	return !math.IsInf(floats.Max(data), 1) && !math.IsInf(floats.Min(data), -1)
}
