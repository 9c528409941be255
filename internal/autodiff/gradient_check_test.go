package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/shapegen/internal/autodiff"
	"github.com/born-ml/shapegen/internal/backend/cpu"
	"github.com/born-ml/shapegen/internal/tensor"
)

// lossFn builds a scalar loss from the parameter tensors using backend ops.
type lossFn func(b tensor.Backend, params []*tensor.Tensor) *tensor.Tensor

// numericalGradient estimates dL/dp[i] with central differences.
func numericalGradient(f lossFn, params []*tensor.Tensor, p *tensor.Tensor) []float64 {
	const h = 1e-6
	plain := cpu.New()
	grad := make([]float64, p.NumElements())
	data := p.Data()
	for i := range data {
		orig := data[i]
		data[i] = orig + h
		plus := f(plain, params).Item()
		data[i] = orig - h
		minus := f(plain, params).Item()
		data[i] = orig
		grad[i] = (plus - minus) / (2 * h)
	}
	return grad
}

func checkGradients(t *testing.T, f lossFn, params []*tensor.Tensor) {
	t.Helper()
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	loss := f(backend, params)
	grads := autodiff.Backward(loss, backend)

	for idx, p := range params {
		analytic, ok := grads[p]
		require.True(t, ok, "missing gradient for param %d", idx)
		require.True(t, analytic.Shape().Equal(p.Shape()), "gradient shape %v != param shape %v", analytic.Shape(), p.Shape())

		numeric := numericalGradient(f, params, p)
		for i, want := range numeric {
			assert.InDelta(t, want, analytic.Data()[i], 1e-5, "param %d element %d", idx, i)
		}
	}
}

func randTensor(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	return tensor.Uniform(shape, -1, 1, rng)
}

func TestGradient_MeanSquare(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := randTensor(rng, tensor.Shape{3, 4})

	checkGradients(t, func(b tensor.Backend, p []*tensor.Tensor) *tensor.Tensor {
		return b.Mean(b.Mul(p[0], p[0]))
	}, []*tensor.Tensor{x})
}

func TestGradient_LinearTanhMSE(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := randTensor(rng, tensor.Shape{5, 3})
	y := randTensor(rng, tensor.Shape{5, 2})
	w := randTensor(rng, tensor.Shape{2, 3})
	bias := randTensor(rng, tensor.Shape{2})

	checkGradients(t, func(b tensor.Backend, p []*tensor.Tensor) *tensor.Tensor {
		h := b.Add(b.MatMul(x, b.Transpose(p[0])), p[1])
		diff := b.Sub(b.Tanh(h), y)
		return b.Mean(b.Mul(diff, diff))
	}, []*tensor.Tensor{w, bias})
}

func TestGradient_RowVectorOperands(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x := randTensor(rng, tensor.Shape{4, 3})
	scale := randTensor(rng, tensor.Shape{1, 3})
	shift := randTensor(rng, tensor.Shape{3})

	checkGradients(t, func(b tensor.Backend, p []*tensor.Tensor) *tensor.Tensor {
		scaled := b.Mul(x, p[0])
		shifted := b.Sub(scaled, p[1])
		return b.Mean(b.MulScalar(b.SumRows(b.Mul(shifted, shifted)), 0.5))
	}, []*tensor.Tensor{scale, shift})
}

func TestGradient_ReusedTensorAccumulates(t *testing.T) {
	// y = mean(x*x + x) uses x three times.
	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	y := backend.Mean(backend.Add(backend.Mul(x, x), x))
	grads := autodiff.Backward(y, backend)

	// d/dx = (2x + 1) / 4
	assert.InDeltaSlice(t, []float64{0.75, 1.25, 1.75, 2.25}, grads[x].Data(), 1e-12)
}

func TestTape_NotRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	x := tensor.Ones(tensor.Shape{2, 2})

	_ = backend.Tanh(x)
	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.Panics(t, func() { autodiff.Backward(x, backend) })

	backend.Tape().StartRecording()
	_ = backend.Tanh(x)
	assert.Equal(t, 1, backend.Tape().NumOps())

	backend.Tape().Clear()
	assert.Equal(t, 0, backend.Tape().NumOps())
	assert.True(t, backend.Tape().IsRecording())
}

func TestAutodiffBackend_MatchesInner(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := randTensor(rng, tensor.Shape{3, 4})
	b := randTensor(rng, tensor.Shape{4, 2})

	inner := cpu.New()
	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	assert.True(t, inner.MatMul(a, b).Equal(backend.MatMul(a, b)))
	assert.True(t, inner.Tanh(a).Equal(backend.Tanh(a)))
	assert.Equal(t, "Autodiff(CPU)", backend.Name())
}
