package autodiff

import (
	"github.com/born-ml/shapegen/internal/autodiff/ops"
	"github.com/born-ml/shapegen/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	for i := range t.operations {
		t.operations[i] = nil
	}
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients for all inputs by walking the tape in reverse.
//
// Algorithm:
//  1. Start with the output gradient (ones for a scalar loss)
//  2. Walk operations in reverse order
//  3. For each operation, compute input gradients using chain rule
//  4. Accumulate gradients when the same tensor is used multiple times
//
// Returns a map from tensor to its accumulated gradient.
func (t *GradientTape) Backward(output, outputGrad *tensor.Tensor, backend tensor.Backend) map[*tensor.Tensor]*tensor.Tensor {
	grads := make(map[*tensor.Tensor]*tensor.Tensor)
	if len(t.operations) == 0 {
		return grads
	}

	// Gradient computations must not land on the tape.
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads[output] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opOutputGrad, hasGrad := grads[op.Output()]
		if !hasGrad {
			continue
		}
		inputGrads := op.Backward(opOutputGrad, backend)
		accumulateGrads(op.Inputs(), inputGrads, grads, backend)
	}

	return grads
}

// accumulateGrads adds each input gradient into the gradient map.
func accumulateGrads(
	inputs []*tensor.Tensor,
	inputGrads []*tensor.Tensor,
	grads map[*tensor.Tensor]*tensor.Tensor,
	backend tensor.Backend,
) {
	for j, input := range inputs {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrads[j])
		} else {
			grads[input] = inputGrads[j]
		}
	}
}
