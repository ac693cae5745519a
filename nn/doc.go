// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Models: Classifier (configurable MLP), Config
//   - Layers: Linear, Dropout, Sequential
//   - Activations: ReLU, Sigmoid, Tanh, LogSoftmax
//   - Loss functions: NLLLoss, Accuracy
//   - Checkpointing: Checkpoint, LoadCheckpoint
//
// # Basic Usage
//
//	import (
//	    "github.com/percept-ml/percept/nn"
//	    "github.com/percept-ml/percept/optim"
//	)
//
//	func main() {
//	    model, err := nn.NewClassifier(nn.Config{
//	        InputSize:   784,
//	        OutputSize:  10,
//	        HiddenSizes: []int{128, 64},
//	        Dropout:     0.2,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Forward pass: log-probabilities for a batch
//	    logProbs := model.Forward(input)
//	}
//
// # Checkpoints
//
// A checkpoint records the model architecture alongside every parameter, so
// loading reconstructs the model without any external configuration:
//
//	err := nn.SaveCheckpoint("model.pcpt", model, optimizer, epoch)
//
//	checkpoint, err := nn.LoadCheckpoint("model.pcpt")
//	model = checkpoint.Model
//
// Loading fails with a *ShapeMismatchError if a stored tensor disagrees
// with the architecture block, and with a format error if the file is not a
// valid checkpoint.
package nn
