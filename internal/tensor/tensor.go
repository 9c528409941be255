// Package tensor provides the float64 tensor type shared by the regression core.
//
// A Tensor is a dense row-major array with an immutable shape. Matrices
// (rank 2) are the common case: rows are samples and columns are features.
// Computation is performed by a Backend; the tensor itself only owns data.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense float64 tensor stored in row-major order.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	t.Set(1.5, 1, 2) // Row 1, column 2
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// New wraps data in a Tensor without copying.
// Panics if the shape does not describe len(data) elements.
func New(data []float64, shape Shape) *Tensor {
	if shape.NumElements() != len(data) {
		panic(fmt.Sprintf("tensor.New: shape %v requires %d elements, got %d", shape, shape.NumElements(), len(data)))
	}
	s := shape.Clone()
	return &Tensor{shape: s, strides: computeStrides(s), data: data}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rows returns the size of the first dimension (1 for a scalar).
func (t *Tensor) Rows() int {
	if len(t.shape) == 0 {
		return 1
	}
	return t.shape[0]
}

// Cols returns the size of the last dimension (1 for a scalar).
func (t *Tensor) Cols() int {
	if len(t.shape) == 0 {
		return 1
	}
	return t.shape[len(t.shape)-1]
}

// Data returns the underlying storage (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Row returns a view of row i of a 2-D tensor.
func (t *Tensor) Row(i int) []float64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Row() only works for 2-D tensors, got shape %v", t.shape))
	}
	if i < 0 || i >= t.shape[0] {
		panic(fmt.Sprintf("row %d out of bounds (rows %d)", i, t.shape[0]))
	}
	cols := t.shape[1]
	return t.data[i*cols : (i+1)*cols : (i+1)*cols]
}

// Item returns the value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		off += idx * t.strides[i]
	}
	return off
}

// Reshape returns a tensor sharing t's data with a new shape.
// Panics if the element count differs.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	return New(t.data, Shape(shape))
}

// Clone creates a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return New(data, t.shape)
}

// SliceRows copies rows [start, end) of a 2-D tensor into a new tensor.
func (t *Tensor) SliceRows(start, end int) *Tensor {
	if len(t.shape) != 2 || start < 0 || end > t.shape[0] || start >= end {
		panic(fmt.Sprintf("SliceRows(%d, %d): invalid range for shape %v", start, end, t.shape))
	}
	cols := t.shape[1]
	data := make([]float64, (end-start)*cols)
	copy(data, t.data[start*cols:end*cols])
	return New(data, Shape{end - start, cols})
}

// SelectRows gathers the given rows of a 2-D tensor, in order, into a new tensor.
func (t *Tensor) SelectRows(indices []int) *Tensor {
	if len(t.shape) != 2 || len(indices) == 0 {
		panic(fmt.Sprintf("SelectRows: need a 2-D tensor and at least one index, got shape %v", t.shape))
	}
	cols := t.shape[1]
	data := make([]float64, len(indices)*cols)
	for i, idx := range indices {
		copy(data[i*cols:(i+1)*cols], t.Row(idx))
	}
	return New(data, Shape{len(indices), cols})
}

// ToRows copies a 2-D tensor into a slice of rows.
func (t *Tensor) ToRows() [][]float64 {
	rows := make([][]float64, t.Rows())
	for i := range rows {
		rows[i] = append([]float64(nil), t.Row(i)...)
	}
	return rows
}

// Dense returns a gonum view over a 2-D tensor's data (zero-copy).
func (t *Tensor) Dense() *mat.Dense {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("Dense() only works for 2-D tensors, got shape %v", t.shape))
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

// Equal reports whether two tensors have the same shape and bit-identical values.
func (t *Tensor) Equal(other *Tensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// String returns a human-readable representation of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[float64]%v", t.shape)
}

// computeStrides calculates row-major strides for the shape.
func computeStrides(s Shape) []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
