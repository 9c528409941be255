package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/shapegen/internal/parallel"
	"github.com/born-ml/shapegen/internal/tensor"
)

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, math.Tanh)
}

// Mean returns the mean of all elements as a scalar tensor.
// Elements are summed in storage order so the result is reproducible.
func (cpu *CPUBackend) Mean(x *tensor.Tensor) *tensor.Tensor {
	var sum float64
	for _, v := range x.Data() {
		sum += v
	}
	return tensor.Scalar(sum / float64(x.NumElements()))
}

// SumRows sums a 2D tensor over its rows: [N, C] -> [C].
func (cpu *CPUBackend) SumRows(x *tensor.Tensor) *tensor.Tensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("sumrows: only 2D tensors supported, got shape %v", shape))
	}

	rows, cols := shape[0], shape[1]
	xd := x.Data()
	out := make([]float64, cols)

	// Each column is owned by one worker and accumulated top to bottom.
	parallel.ForRange(cols, func(start, end int) {
		for r := 0; r < rows; r++ {
			base := r * cols
			for c := start; c < end; c++ {
				out[c] += xd[base+c]
			}
		}
	}, cpu.rowConfig(rows))

	return tensor.New(out, tensor.Shape{cols})
}
