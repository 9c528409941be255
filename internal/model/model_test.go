package model

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/serialization"
	"github.com/born-ml/shapegen/internal/tensor"
)

func newTestModel(seed int64) *Regressor {
	return New(6, 16, 6, cpu.New(), rand.New(rand.NewSource(seed)))
}

func TestRegressor_ForwardShape(t *testing.T) {
	r := newTestModel(1)
	for _, n := range []int{1, 7, 50} {
		out, err := r.Forward(tensor.Uniform(tensor.Shape{n, 6}, -1, 1, rand.New(rand.NewSource(2))))
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{n, 6}, out.Shape())
	}
	assert.Equal(t, 6, r.InputWidth())
	assert.Equal(t, 16, r.HiddenWidth())
	assert.Equal(t, 6, r.OutputWidth())
	assert.Len(t, r.Parameters(), 6)
}

func TestRegressor_ShapeMismatch(t *testing.T) {
	r := newTestModel(1)
	for _, shape := range []tensor.Shape{{4, 5}, {4, 7}, {6}} {
		_, err := r.Forward(tensor.Zeros(shape))
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "shape %v", shape)
	}
}

func TestRegressor_ForwardNoRows(t *testing.T) {
	r := newTestModel(1)
	out, err := r.Forward(tensor.New([]float64{}, tensor.Shape{0, 6}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 6}, out.Shape())
	assert.Empty(t, out.Data())

	_, err = r.Forward(tensor.New([]float64{}, tensor.Shape{0, 5}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestRegressor_ForwardDeterministic(t *testing.T) {
	r := newTestModel(1)
	x := tensor.Uniform(tensor.Shape{10, 6}, -1, 1, rand.New(rand.NewSource(3)))

	a, err := r.Forward(x)
	require.NoError(t, err)
	b, err := r.Forward(x)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestRegressor_SeedReproducible(t *testing.T) {
	x := tensor.Uniform(tensor.Shape{3, 6}, -1, 1, rand.New(rand.NewSource(3)))
	a, _ := newTestModel(42).Forward(x)
	b, _ := newTestModel(42).Forward(x)
	c, _ := newTestModel(43).Forward(x)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestRegressor_StateDictKeys(t *testing.T) {
	sd := newTestModel(1).StateDict()
	assert.Len(t, sd, 6)
	for _, key := range []string{"0.weight", "0.bias", "2.weight", "2.bias", "4.weight", "4.bias"} {
		assert.Contains(t, sd, key)
	}
	assert.Equal(t, tensor.Shape{16, 6}, sd["0.weight"].Shape())
	assert.Equal(t, tensor.Shape{6, 16}, sd["4.weight"].Shape())
}

func TestRegressor_WithBackendSharesParameters(t *testing.T) {
	trained := New(6, 8, 6, autodiff.New(cpu.New()), rand.New(rand.NewSource(1)))
	served := trained.WithBackend(cpu.New())
	require.Equal(t, "CPU", served.Backend().Name())

	x := tensor.Uniform(tensor.Shape{4, 6}, -1, 1, rand.New(rand.NewSource(2)))
	a, _ := trained.Forward(x)
	b, _ := served.Forward(x)
	assert.True(t, a.Equal(b))

	trained.Parameters()[1].Tensor().Data()[0] += 1
	c, _ := served.Forward(x)
	assert.False(t, b.Equal(c), "served model should see parameter updates")
}

func TestSaveLoad_Exact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	src := newTestModel(7)
	require.NoError(t, Save(path, src))

	dst, err := Load(path, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, src.HiddenWidth(), dst.HiddenWidth())

	x := tensor.Uniform(tensor.Shape{5, 6}, -2, 2, rand.New(rand.NewSource(8)))
	a, _ := src.Forward(x)
	b, _ := dst.Forward(x)
	assert.True(t, a.Equal(b))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.safetensors"), cpu.New())
	assert.Error(t, err)

	r := newTestModel(1)
	tests := []struct {
		name   string
		mutate func(meta map[string]string)
		is     error
	}{
		{"future format", func(m map[string]string) { m[MetaFormatVersion] = "2.0.0" }, ErrIncompatibleFormat},
		{"garbage format", func(m map[string]string) { m[MetaFormatVersion] = "one" }, ErrIncompatibleFormat},
		{"no format", func(m map[string]string) { delete(m, MetaFormatVersion) }, ErrIncompatibleFormat},
		{"bad width", func(m map[string]string) { m[MetaHiddenWidth] = "-3" }, nil},
		{"wrong width", func(m map[string]string) { m[MetaHiddenWidth] = "17" }, nil},
		{"huge width", func(m map[string]string) { m[MetaHiddenWidth] = "3000000000" }, nil},
		{"huge input width", func(m map[string]string) { m[MetaInputWidth] = "3000000000" }, nil},
		{"activation", func(m map[string]string) { m[MetaActivation] = "relu" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := r.Metadata()
			tt.mutate(meta)
			path := filepath.Join(dir, tt.name+".safetensors")
			require.NoError(t, serialization.WriteSafeTensorsFile(path, r.StateDict(), meta))

			_, err := Load(path, cpu.New())
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestRead_WidthsComeFromWeights(t *testing.T) {
	r := newTestModel(1)

	var buf bytes.Buffer
	meta := r.Metadata()
	meta[MetaHiddenWidth] = "3000000000"
	require.NoError(t, serialization.WriteSafeTensors(&buf, r.StateDict(), meta))
	_, err := Read(&buf, cpu.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disagrees with stored weights")

	state := r.StateDict()
	delete(state, "2.weight")
	buf.Reset()
	require.NoError(t, serialization.WriteSafeTensors(&buf, state, r.Metadata()))
	_, err = Read(&buf, cpu.New())
	assert.ErrorContains(t, err, "missing 2.weight")

	buf.Reset()
	require.NoError(t, Write(&buf, r))
	loaded, err := Read(&buf, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, r.InputWidth(), loaded.InputWidth())
	assert.Equal(t, r.HiddenWidth(), loaded.HiddenWidth())
	assert.Equal(t, r.OutputWidth(), loaded.OutputWidth())
}

func TestCheckFormat_AcceptsMinorVersions(t *testing.T) {
	assert.NoError(t, checkFormat("1.0.0"))
	assert.NoError(t, checkFormat("1.4.2"))
	assert.ErrorIs(t, checkFormat("0.9.0"), ErrIncompatibleFormat)
}
