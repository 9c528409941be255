package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two matrices that must agree on a
// dimension do not, or when a matrix disagrees with the width a model or
// a set of statistics was built for.
var ErrShapeMismatch = errors.New("input shape mismatch")

// ShapeError provides detailed information about a shape mismatch.
type ShapeError struct {
	Op   string // Operation that rejected the input (e.g., "normalize.Apply")
	Got  Shape  // Shape that was supplied
	Want Shape  // Shape that was expected; -1 marks a free dimension
	Msg  string // Optional detail
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %v: got %v, want %v (%s)", e.Op, ErrShapeMismatch, e.Got, e.Want, e.Msg)
	}
	return fmt.Sprintf("%s: %v: got %v, want %v", e.Op, ErrShapeMismatch, e.Got, e.Want)
}

// Unwrap allows errors.Is(err, ErrShapeMismatch).
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckCols returns a *ShapeError if t is not a 2-D matrix with cols columns.
func CheckCols(op string, t *Tensor, cols int) error {
	shape := t.Shape()
	if len(shape) != 2 || shape[1] != cols {
		return &ShapeError{Op: op, Got: shape.Clone(), Want: Shape{-1, cols}}
	}
	return nil
}

// CheckRows returns a *ShapeError if a and b do not have the same row count.
func CheckRows(op string, a, b *Tensor) error {
	if len(a.Shape()) != 2 || len(b.Shape()) != 2 || a.Rows() != b.Rows() {
		return &ShapeError{
			Op:   op,
			Got:  b.Shape().Clone(),
			Want: Shape{a.Rows(), -1},
			Msg:  "paired matrices must have the same number of rows",
		}
	}
	return nil
}
