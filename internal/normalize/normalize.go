// Package normalize standardizes feature columns and inverts the standardization.
//
// Fit computes per-column statistics from training data; Apply reuses stored
// statistics at inference time; Reverse maps network outputs back to raw
// feature space. Every function is pure: inputs are never modified.
package normalize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Epsilon widens the standard deviation before dividing so constant columns
// stay finite. It is the machine epsilon of a float32.
const Epsilon = 1.1920928955078125e-07

// Stats holds the per-column mean and standard deviation of a feature matrix.
type Stats struct {
	Mean []float64
	Std  []float64
}

// Width returns the number of feature columns the stats describe.
func (s Stats) Width() int {
	return len(s.Mean)
}

// Validate reports whether the stats are usable: equal non-zero lengths,
// finite values and non-negative standard deviations.
func (s Stats) Validate() error {
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Std) {
		return fmt.Errorf("normalize: mean has %d entries, std has %d", len(s.Mean), len(s.Std))
	}
	for i := range s.Mean {
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) {
			return fmt.Errorf("normalize: mean[%d] is not finite", i)
		}
		if math.IsNaN(s.Std[i]) || math.IsInf(s.Std[i], 0) || s.Std[i] < 0 {
			return fmt.Errorf("normalize: std[%d] = %v is not a finite non-negative value", i, s.Std[i])
		}
	}
	return nil
}

// Fit computes column statistics of m and returns m standardized with them.
//
// The standard deviation is the population standard deviation of the
// centered column.
func Fit(m *tensor.Tensor) (*tensor.Tensor, Stats, error) {
	shape := m.Shape()
	if len(shape) != 2 || shape[0] == 0 || shape[1] == 0 {
		return nil, Stats{}, &tensor.ShapeError{Op: "normalize.Fit", Got: shape.Clone(), Want: tensor.Shape{-1, -1}, Msg: "need a non-empty matrix"}
	}

	rows, cols := shape[0], shape[1]
	stats := Stats{Mean: make([]float64, cols), Std: make([]float64, cols)}
	column := make([]float64, rows)
	data := m.Data()
	for j, n_ := 0, cols; j < n_; j++ {
		for i, n_ := 0, rows; i < n_; i++ {
			column[i] = data[i*cols+j]
		}
		mean := stat.Mean(column, nil)
		for i := range column {
			column[i] -= mean
		}
		stats.Mean[j] = mean
		stats.Std[j] = math.Sqrt(stat.PopVariance(column, nil))
	}

	normalized, err := Apply(m, stats)
	if err != nil {
		return nil, Stats{}, err
	}
	return normalized, stats, nil
}

// Apply returns (m - mean) / (std + Epsilon) using precomputed stats.
func Apply(m *tensor.Tensor, stats Stats) (*tensor.Tensor, error) {
	if err := check("normalize.Apply", m, stats); err != nil {
		return nil, err
	}
	out := m.Clone()
	data := out.Data()
	cols := stats.Width()
	for i := range data {
		j := i % cols
		data[i] = (data[i] - stats.Mean[j]) / (stats.Std[j] + Epsilon)
	}
	return out, nil
}

// Reverse returns m * std + mean, the inverse of Apply up to Epsilon.
func Reverse(m *tensor.Tensor, stats Stats) (*tensor.Tensor, error) {
	if err := check("normalize.Reverse", m, stats); err != nil {
		return nil, err
	}
	out := m.Clone()
	data := out.Data()
	cols := stats.Width()
	for i := range data {
		j := i % cols
		data[i] = data[i]*stats.Std[j] + stats.Mean[j]
	}
	return out, nil
}

func check(op string, m *tensor.Tensor, stats Stats) error {
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return tensor.CheckCols(op, m, stats.Width())
}
