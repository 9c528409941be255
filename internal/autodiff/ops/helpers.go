package ops

import (
	"fmt"

	"github.com/born-ml/shapegen/internal/tensor"
)

// reduceTo sums a gradient down to the shape of the operand it belongs to.
//
// Row broadcasting repeats a [C] or [1, C] operand over N rows, so its
// gradient is the row sum of the [N, C] output gradient.
func reduceTo(grad *tensor.Tensor, target tensor.Shape, backend tensor.Backend) *tensor.Tensor {
	if grad.Shape().Equal(target) {
		return grad
	}
	if !tensor.RowBroadcast(grad.Shape(), target) {
		panic(fmt.Sprintf("reduceTo: cannot reduce gradient %v to %v", grad.Shape(), target))
	}
	summed := backend.SumRows(grad)
	return summed.Reshape(target...)
}
