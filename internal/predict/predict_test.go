package predict_test

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/artifact"
	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/config"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/predict"
	"github.com/born-ml/shapegen/internal/tensor"
	"github.com/born-ml/shapegen/internal/trainer"
)

func identityStats(width int) normalize.Stats {
	s := normalize.Stats{Mean: make([]float64, width), Std: make([]float64, width)}
	for i := range s.Std {
		s.Std[i] = 1
	}
	return s
}

func TestPredict_ComposesNormalization(t *testing.T) {
	m := model.New(2, 4, 2, cpu.New(), rand.New(rand.NewSource(1)))
	in := normalize.Stats{Mean: []float64{10, -10}, Std: []float64{2, 4}}
	out := normalize.Stats{Mean: []float64{1, 2}, Std: []float64{3, 0.5}}

	p, err := predict.New(m, in, out)
	require.NoError(t, err)

	raw, _ := tensor.FromRows([][]float64{{12, -6}, {10, -10}})
	before := raw.Clone()
	got, err := p.Predict(raw)
	require.NoError(t, err)

	x, err := normalize.Apply(raw, in)
	require.NoError(t, err)
	y, err := m.Forward(x)
	require.NoError(t, err)
	want, err := normalize.Reverse(y, out)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
	assert.True(t, before.Equal(raw), "input must not be modified")
}

func TestPredict_ShapeMismatch(t *testing.T) {
	m := model.New(6, 4, 6, cpu.New(), rand.New(rand.NewSource(1)))
	p, err := predict.New(m, identityStats(6), identityStats(6))
	require.NoError(t, err)

	_, err = p.Predict(tensor.Zeros(tensor.Shape{3, 5}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestPredict_NoRows(t *testing.T) {
	m := model.New(6, 4, 6, cpu.New(), rand.New(rand.NewSource(1)))
	p, err := predict.New(m, identityStats(6), identityStats(6))
	require.NoError(t, err)

	got, err := p.Predict(tensor.New([]float64{}, tensor.Shape{0, 6}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 6}, got.Shape())
}

func TestNew_RejectsMismatchedStats(t *testing.T) {
	m := model.New(6, 4, 3, cpu.New(), rand.New(rand.NewSource(1)))
	_, err := predict.New(m, identityStats(5), identityStats(3))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = predict.New(nil, identityStats(6), identityStats(3))
	assert.Error(t, err)

	_, err = predict.FromBundle(nil)
	assert.Error(t, err)
}

func TestNew_DetachesAutodiffBackend(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := model.New(3, 4, 3, backend, rand.New(rand.NewSource(1)))
	p, err := predict.New(m, identityStats(3), identityStats(3))
	require.NoError(t, err)

	backend.Tape().StartRecording()
	_, err = p.Predict(tensor.Ones(tensor.Shape{2, 3}))
	require.NoError(t, err)
	assert.Equal(t, 0, backend.Tape().NumOps())
}

func TestPredict_Concurrent(t *testing.T) {
	m := model.New(6, 16, 6, cpu.New(), rand.New(rand.NewSource(1)))
	p, err := predict.New(m, identityStats(6), identityStats(6))
	require.NoError(t, err)

	x := tensor.Uniform(tensor.Shape{8, 6}, -1, 1, rand.New(rand.NewSource(2)))
	want, err := p.Predict(x)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*tensor.Tensor, 8)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = p.Predict(x)
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.True(t, want.Equal(got))
	}
}

// TestEndToEnd trains on outputs = 2*inputs + 1, persists the bundle, and
// checks held-out predictions before and after reloading.
//
// Forty training rows do not pin down the affine map through two tanh
// layers: individual held-out coordinates miss by up to a few tenths, so
// the held-out check bounds the mean absolute error rather than each element.
func TestEndToEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	inputs := tensor.Uniform(tensor.Shape{50, 6}, -1, 1, rng)
	outputs := inputs.Clone()
	for i, v := range outputs.Data() {
		outputs.Data()[i] = 2*v + 1
	}

	x, inStats, err := normalize.Fit(inputs)
	require.NoError(t, err)
	y, outStats, err := normalize.Fit(outputs)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.HiddenWidth = 32
	cfg.LearningRate = 0.01
	cfg.Epochs = 200
	cfg.ValidationSplit = 0.2
	cfg.Seed = 7

	tr, err := trainer.New(cfg)
	require.NoError(t, err)
	result, err := tr.Fit(x, y)
	require.NoError(t, err)

	h := result.History
	require.Equal(t, 200, h.Len())
	require.Len(t, h.Validation, 200)
	assert.Less(t, h.FinalTrain(), 1e-2)
	assert.LessOrEqual(t, h.FinalTrain(), h.Train[0])
	finalVal := h.Validation[len(h.Validation)-1]
	assert.Less(t, finalVal, 0.1)
	assert.Less(t, finalVal, h.Validation[0]/10)

	bundle := &artifact.Bundle{Model: result.Model, Input: inStats, Output: outStats}
	p, err := predict.FromBundle(bundle)
	require.NoError(t, err)

	// Rows [40, 50) form the validation pool and were never trained on.
	heldOut := inputs.SliceRows(40, 50)
	got, err := p.Predict(heldOut)
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{10, 6}, got.Shape())
	var absErr float64
	for i, v := range heldOut.Data() {
		absErr += math.Abs(2*v + 1 - got.Data()[i])
	}
	assert.Less(t, absErr/float64(heldOut.NumElements()), 0.25)

	paths := artifact.DefaultPaths(t.TempDir())
	require.NoError(t, artifact.Save(context.Background(), bundle, paths))
	loaded, err := artifact.Load(context.Background(), paths, cpu.New())
	require.NoError(t, err)
	reloaded, err := predict.FromBundle(loaded)
	require.NoError(t, err)

	again, err := reloaded.Predict(heldOut)
	require.NoError(t, err)
	assert.True(t, got.Equal(again), "persisted bundle must reproduce predictions exactly")

	for _, v := range again.Data() {
		assert.False(t, math.IsNaN(v))
	}
}
