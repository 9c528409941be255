// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/shapegen/internal/nn"
	"github.com/born-ml/shapegen/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(6, 512, backend, rand.New(rand.NewSource(1)))
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, backend, rng)
}

// Activations

// Tanh represents the hyperbolic tangent activation.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation.
func NewTanh(backend tensor.Backend) *Tanh {
	return nn.NewTanh(backend)
}

// Containers

// Sequential applies modules in order.
type Sequential = nn.Sequential

// NewSequential creates a container running modules in the given order.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Loss functions

// MSELoss represents mean squared error loss.
type MSELoss = nn.MSELoss

// NewMSELoss creates a new MSE loss function.
func NewMSELoss(backend tensor.Backend) *MSELoss {
	return nn.NewMSELoss(backend)
}

// Initialization

// Xavier returns a tensor drawn from the Xavier (Glorot) uniform distribution.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	return nn.Xavier(fanIn, fanOut, shape, rng)
}
