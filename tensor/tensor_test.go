// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/shapegen/backend/cpu"
	"github.com/born-ml/shapegen/tensor"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = cpu.New()
}

func TestFromRows(t *testing.T) {
	m, err := tensor.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if !m.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", m.Shape())
	}
	if got := m.At(1, 2); got != 6 {
		t.Errorf("At(1, 2) = %v, want 6", got)
	}
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := tensor.FromRows([][]float64{{1, 2, 3}, {4, 5}})
	if !errors.Is(err, tensor.ErrShapeMismatch) {
		t.Errorf("FromRows(ragged) error = %v, want ErrShapeMismatch", err)
	}
	var se *tensor.ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error is not a *ShapeError: %T", err)
	}
}

func TestFromSlice(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	m, err := tensor.FromSlice(data, tensor.Shape{2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	data[0] = 100
	if m.At(0, 0) != 1 {
		t.Error("FromSlice must copy its input")
	}

	if _, err := tensor.FromSlice(data, tensor.Shape{3, 2}); err == nil {
		t.Error("FromSlice with wrong element count should fail")
	}
}
