package autodiff

import (
	"fmt"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Backward computes gradients of t with respect to every tensor that took
// part in the recorded forward pass.
//
// The seed gradient is ones with t's shape, so for a scalar loss the
// result holds dL/dx for each recorded input x. Gradient arithmetic runs
// on the wrapped backend and is never recorded.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y := backend.Mean(backend.Mul(x, x))
//	gradients := autodiff.Backward(y, backend)
//	grad := gradients[x] // 2x / n
func Backward(t *tensor.Tensor, backend *AutodiffBackend) map[*tensor.Tensor]*tensor.Tensor {
	tape := backend.Tape()
	if tape.NumOps() == 0 {
		panic(fmt.Sprintf("backward: no operations recorded for %v (did you forget to call Tape().StartRecording()?)", t))
	}
	return tape.Backward(t, tensor.Ones(t.Shape()), backend.Inner())
}
