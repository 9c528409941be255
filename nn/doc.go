// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network building blocks of shapegen.
//
// # Overview
//
//   - Module: common interface for layers and containers
//   - Parameter: a trainable tensor and its gradient
//   - Linear: fully connected layer with Xavier-initialized weights
//   - Tanh: hyperbolic tangent activation
//   - Sequential: ordered container with "index.name" state dict keys
//   - MSELoss: mean squared error
//
// # Basic Usage
//
//	rng := rand.New(rand.NewSource(1))
//	backend := autodiff.New(cpu.New())
//	model := nn.NewSequential(
//	    nn.NewLinear(6, 32, backend, rng),
//	    nn.NewTanh(backend),
//	    nn.NewLinear(32, 6, backend, rng),
//	)
//	loss := nn.NewMSELoss(backend).Forward(model.Forward(x), y)
package nn
