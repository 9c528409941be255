package watch_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/matrixio"
	"github.com/born-ml/shapegen/internal/model"
	"github.com/born-ml/shapegen/internal/normalize"
	"github.com/born-ml/shapegen/internal/predict"
	"github.com/born-ml/shapegen/internal/tensor"
	"github.com/born-ml/shapegen/internal/watch"
)

func newPredictor(t *testing.T) *predict.Predictor {
	t.Helper()
	m := model.New(6, 4, 6, cpu.New(), rand.New(rand.NewSource(1)))
	stats := normalize.Stats{Mean: make([]float64, 6), Std: make([]float64, 6)}
	for i := range stats.Std {
		stats.Std[i] = 1
	}
	p, err := predict.New(m, stats, stats)
	require.NoError(t, err)
	return p
}

func writeInput(t *testing.T, path string, rows, cols int) {
	t.Helper()
	m := tensor.Uniform(tensor.Shape{rows, cols}, -1, 1, rand.New(rand.NewSource(int64(rows))))
	require.NoError(t, matrixio.WriteFile(path, m))
}

func waitRows(t *testing.T, ch <-chan int, want int) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case rows := <-ch:
			if rows == want {
				return
			}
		case <-deadline:
			t.Fatalf("no prediction with %d rows", want)
		}
	}
}

func TestRun_RepredictsOnChange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "neutral.txt")
	out := filepath.Join(dir, "pose.txt")
	writeInput(t, in, 2, 6)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, newPredictor(t), watch.Options{
			InputPath:  in,
			OutputPath: out,
			Debounce:   20 * time.Millisecond,
			OnPredict:  func(rows int) { updates <- rows },
		})
	}()

	waitRows(t, updates, 2)
	got, err := matrixio.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 6}, got.Shape())

	writeInput(t, in, 3, 6)
	waitRows(t, updates, 3)
	got, err = matrixio.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 6}, got.Shape())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_StopsOnShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "neutral.txt")
	writeInput(t, in, 2, 5)

	err := watch.Run(context.Background(), newPredictor(t), watch.Options{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "pose.txt"),
	})
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestRun_RequiresPaths(t *testing.T) {
	err := watch.Run(context.Background(), newPredictor(t), watch.Options{InputPath: "x"})
	assert.Error(t, err)
}
