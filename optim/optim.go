// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based optimizers.
package optim

import (
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/optim"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD (Stochastic Gradient Descent)

// SGD implements stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	model, _ := nn.NewClassifier(cfg)
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam implements the Adam optimizer with bias correction.
type Adam = optim.Adam

// AdamConfig contains configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
// Example:
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{LR: 0.001},
//	)
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
