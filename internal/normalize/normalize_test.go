package normalize_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/tensor"
)

func TestFit_Stats(t *testing.T) {
	m, _ := tensor.FromRows([][]float64{
		{1, 10},
		{2, 10},
		{3, 10},
		{6, 10},
	})

	normalized, stats, err := normalize.Fit(m)
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 10}, stats.Mean)
	assert.InDelta(t, math.Sqrt(3.5), stats.Std[0], 1e-12) // (4+1+0+9)/4
	assert.Equal(t, 0.0, stats.Std[1])

	// Constant column normalizes to zero instead of dividing by zero.
	for i, n_ := 0, 4; i < n_; i++ {
		assert.Equal(t, 0.0, normalized.At(i, 1))
	}
	assert.InDelta(t, -2/(math.Sqrt(3.5)+normalize.Epsilon), normalized.At(0, 0), 1e-12)
}

func TestFit_ZeroMeanUnitVariance(t *testing.T) {
	m := tensor.Uniform(tensor.Shape{200, 6}, -5, 5, rand.New(rand.NewSource(1)))
	normalized, _, err := normalize.Fit(m)
	require.NoError(t, err)

	_, stats, err := normalize.Fit(normalized)
	require.NoError(t, err)
	for j, n_ := 0, 6; j < n_; j++ {
		assert.InDelta(t, 0, stats.Mean[j], 1e-9)
		assert.InDelta(t, 1, stats.Std[j], 1e-6)
	}
}

func TestFit_DoesNotMutateInput(t *testing.T) {
	m := tensor.Uniform(tensor.Shape{5, 3}, -1, 1, rand.New(rand.NewSource(2)))
	before := m.Clone()
	_, _, err := normalize.Fit(m)
	require.NoError(t, err)
	assert.True(t, before.Equal(m))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := tensor.Uniform(tensor.Shape{50, 6}, -100, 100, rng)

	normalized, stats, err := normalize.Fit(m)
	require.NoError(t, err)

	back, err := normalize.Reverse(normalized, stats)
	require.NoError(t, err)
	for i, v := range m.Data() {
		assert.InDelta(t, v, back.Data()[i], 1e-6*math.Max(1, math.Abs(v)))
	}
}

func TestApply_UsesSuppliedStats(t *testing.T) {
	stats := normalize.Stats{Mean: []float64{1, -1}, Std: []float64{2, 0.5}}
	m, _ := tensor.FromRows([][]float64{{3, 0}})

	out, err := normalize.Apply(m, stats)
	require.NoError(t, err)
	assert.InDelta(t, 1, out.At(0, 0), 1e-6)
	assert.InDelta(t, 2, out.At(0, 1), 1e-6)

	raw, err := normalize.Reverse(tensor.Ones(tensor.Shape{1, 2}), stats)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, -0.5}}, raw.ToRows())
}

func TestShapeMismatch(t *testing.T) {
	stats := normalize.Stats{Mean: []float64{0, 0, 0}, Std: []float64{1, 1, 1}}

	_, err := normalize.Apply(tensor.Zeros(tensor.Shape{4, 2}), stats)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = normalize.Reverse(tensor.Zeros(tensor.Shape{4, 5}), stats)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, _, err = normalize.Fit(tensor.Zeros(tensor.Shape{3}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestStats_Validate(t *testing.T) {
	tests := []struct {
		name  string
		stats normalize.Stats
		ok    bool
	}{
		{"valid", normalize.Stats{Mean: []float64{1}, Std: []float64{0}}, true},
		{"empty", normalize.Stats{}, false},
		{"length mismatch", normalize.Stats{Mean: []float64{1, 2}, Std: []float64{1}}, false},
		{"negative std", normalize.Stats{Mean: []float64{1}, Std: []float64{-1}}, false},
		{"nan mean", normalize.Stats{Mean: []float64{math.NaN()}, Std: []float64{1}}, false},
		{"inf std", normalize.Stats{Mean: []float64{0}, Std: []float64{math.Inf(1)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
