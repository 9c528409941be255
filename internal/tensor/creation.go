package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
// Panics if the shape is invalid.
func Zeros(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.Zeros: %v", err))
	}
	return New(make([]float64, shape.NumElements()), shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Scalar creates a 0-D tensor holding v.
func Scalar(v float64) *Tensor {
	return New([]float64{v}, Shape{})
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	buf := make([]float64, len(data))
	copy(buf, data)
	return New(buf, shape), nil
}

// FromRows creates an [len(rows), C] matrix from a slice of rows.
// Every row must have the same, non-zero length; a ragged input returns
// a *ShapeError.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("tensor.FromRows: empty matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, &ShapeError{
				Op:   "tensor.FromRows",
				Got:  Shape{i, len(row)},
				Want: Shape{i, cols},
				Msg:  fmt.Sprintf("row %d has %d columns", i, len(row)),
			}
		}
		data = append(data, row...)
	}
	return New(data, Shape{len(rows), cols}), nil
}

// Uniform creates a tensor with values drawn from U(low, high) using rng.
func Uniform(shape Shape, low, high float64, rng *rand.Rand) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = low + rng.Float64()*(high-low)
	}
	return t
}
