// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers that update model parameters from the
// gradients computed by autodiff.Backward.
//
// # Training Loop
//
//	backend := autodiff.New(cpu.New())
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    backend.Tape().StartRecording()
//	    loss := criterion.Forward(model.Forward(x), y)
//	    grads := autodiff.Backward(loss, backend)
//	    backend.Tape().StopRecording()
//
//	    optimizer.Step(grads)
//	    optimizer.ZeroGrad()
//	    backend.Tape().Clear()
//	}
//
// Only Adam is provided: every update scales the step per parameter by
// bias-corrected running averages of the gradient and its square.
package optim
