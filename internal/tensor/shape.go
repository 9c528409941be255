package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// RowBroadcast reports whether b can be added to a by repeating b along
// the rows of a. b must be a vector [C] or a single row [1, C] where C is
// the column count of the 2-D shape a.
//
// Examples:
//
//	[4, 3] + [3]    → true
//	[4, 3] + [1, 3] → true
//	[4, 3] + [4, 3] → false (same shape, no broadcast needed)
//	[4, 3] + [2, 3] → false
func RowBroadcast(a, b Shape) bool {
	if len(a) != 2 {
		return false
	}
	switch len(b) {
	case 1:
		return b[0] == a[1]
	case 2:
		return b[0] == 1 && b[1] == a[1] && a[0] != 1
	default:
		return false
	}
}
