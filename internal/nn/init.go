package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/shapegen/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// All randomness comes from rng, so a fixed seed reproduces the weights.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.Uniform(shape, -bound, bound, rng)
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}
