// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/shapegen/internal/nn"
	"github.com/born-ml/shapegen/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
