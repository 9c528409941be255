package trainer

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/tensor"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		split float64
		order config.PoolOrder
		train Range
		val   Range
	}{
		{"train first", 50, 0.2, config.TrainFirst, Range{0, 40}, Range{40, 50}},
		{"validation first", 50, 0.2, config.ValidationFirst, Range{40, 50}, Range{0, 40}},
		{"default order", 10, 0.3, "", Range{0, 7}, Range{7, 10}},
		{"floor", 7, 0.5, config.TrainFirst, Range{0, 3}, Range{3, 7}},
		{"disabled", 20, 0, config.TrainFirst, Range{0, 20}, Range{}},
		{"disabled ignores order", 20, 0, config.ValidationFirst, Range{0, 20}, Range{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := Partition(tt.n, tt.split, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.train, split.Train)
			assert.Equal(t, tt.val, split.Validation)
			assert.Equal(t, tt.val.Len() > 0, split.ValidationEnabled())
		})
	}
}

func TestPartition_Invalid(t *testing.T) {
	_, err := Partition(1, 0.5, config.TrainFirst) // splitIndex 0
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = Partition(0, 0, config.TrainFirst)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = Partition(10, 1, config.TrainFirst)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = Partition(10, 0.2, "sideways")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNew_ValidatesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Epochs = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// affineData returns a small vertex-like dataset where outputs = 2*inputs + 1.
func affineData(n int, seed int64) (inputs, outputs *tensor.Tensor) {
	inputs = tensor.Uniform(tensor.Shape{n, 6}, -1, 1, rand.New(rand.NewSource(seed)))
	outputs = inputs.Clone()
	for i, v := range outputs.Data() {
		outputs.Data()[i] = 2*v + 1
	}
	return inputs, outputs
}

func normalized(t *testing.T, n int, seed int64) (*tensor.Tensor, *tensor.Tensor) {
	t.Helper()
	inputs, outputs := affineData(n, seed)
	x, _, err := normalize.Fit(inputs)
	require.NoError(t, err)
	y, _, err := normalize.Fit(outputs)
	require.NoError(t, err)
	return x, y
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.HiddenWidth = 16
	cfg.LearningRate = 0.01
	cfg.Epochs = 60
	cfg.ValidationSplit = 0.25
	cfg.Seed = 11
	return cfg
}

func TestFit_LossDecreases(t *testing.T) {
	x, y := normalized(t, 20, 1)

	var reports []EpochReport
	tr, err := New(smallConfig(), WithProgress(func(r EpochReport) { reports = append(reports, r) }))
	require.NoError(t, err)

	result, err := tr.Fit(x, y)
	require.NoError(t, err)

	h := result.History
	require.Equal(t, 60, h.Len())
	require.Len(t, h.Validation, 60)
	assert.Less(t, h.FinalTrain(), h.Train[0])

	require.Len(t, reports, 60)
	assert.Equal(t, 1, reports[0].Epoch)
	assert.Equal(t, 60, reports[59].Epochs)
	assert.True(t, reports[0].HasValidation)
	assert.Equal(t, h.Validation[10], reports[10].ValidationLoss)

	assert.Equal(t, Range{0, 15}, result.Split.Train)
	assert.Equal(t, "CPU", result.Model.Backend().Name())
	assert.Equal(t, 16, result.Model.HiddenWidth())
}

func TestFit_ValidationDisabled(t *testing.T) {
	x, y := normalized(t, 20, 2)
	cfg := smallConfig()
	cfg.ValidationSplit = 0
	cfg.Epochs = 5

	var lines []string
	tr, err := New(cfg, WithProgress(func(r EpochReport) { lines = append(lines, r.String()) }))
	require.NoError(t, err)

	result, err := tr.Fit(x, y)
	require.NoError(t, err)
	assert.Empty(t, result.History.Validation)
	assert.False(t, result.Split.ValidationEnabled())
	for _, line := range lines {
		assert.NotContains(t, line, "validation")
	}
	_, at := result.History.BestValidation()
	assert.Equal(t, 0, at)
}

func TestFit_SeedReproducible(t *testing.T) {
	x, y := normalized(t, 20, 3)
	cfg := smallConfig()
	cfg.Epochs = 10

	run := func(seed int64) History {
		c := cfg
		c.Seed = seed
		tr, err := New(c)
		require.NoError(t, err)
		result, err := tr.Fit(x, y)
		require.NoError(t, err)
		return result.History
	}

	assert.Equal(t, run(5), run(5))
	assert.NotEqual(t, run(5).Train, run(6).Train)
}

func TestFit_NonFiniteLoss(t *testing.T) {
	x, y := normalized(t, 20, 4)
	x.Set(math.NaN(), 0, 0)

	tr, err := New(smallConfig())
	require.NoError(t, err)

	_, err = tr.Fit(x, y)
	require.ErrorIs(t, err, ErrNonFiniteLoss)
	var div *DivergenceError
	require.True(t, errors.As(err, &div))
	assert.Equal(t, 1, div.Epoch)
	assert.True(t, math.IsNaN(div.TrainLoss))
}

func TestFit_NonFiniteValidationLoss(t *testing.T) {
	x, y := normalized(t, 20, 4)
	y.Set(math.Inf(1), 19, 0) // row 19 is in the validation pool

	tr, err := New(smallConfig())
	require.NoError(t, err)

	_, err = tr.Fit(x, y)
	var div *DivergenceError
	require.True(t, errors.As(err, &div))
	assert.False(t, math.IsNaN(div.TrainLoss))
	assert.True(t, math.IsInf(div.ValidationLoss, 1))
}

func TestFit_ShapeMismatch(t *testing.T) {
	tr, err := New(smallConfig())
	require.NoError(t, err)

	_, err = tr.Fit(tensor.Zeros(tensor.Shape{10, 6}), tensor.Zeros(tensor.Shape{9, 6}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = tr.Fit(tensor.Zeros(tensor.Shape{10}), tensor.Zeros(tensor.Shape{10, 6}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestEpochReport_String(t *testing.T) {
	r := EpochReport{Epoch: 3, Epochs: 10, TrainLoss: 0.5, ValidationLoss: 0.25, HasValidation: true}
	assert.Equal(t, "[Epoch 3/10] [loss: 0.500000] [validation: 0.250000]", r.String())

	r.HasValidation = false
	assert.True(t, strings.HasPrefix(r.String(), "[Epoch 3/10] [loss: 0.500000]"))
	assert.NotContains(t, r.String(), "validation")
}
