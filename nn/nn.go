// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/percept-ml/percept/internal/nn"
)

// Module is the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// Models

// Config describes a Classifier architecture.
type Config = nn.Config

// Classifier is a configurable multi-layer perceptron for classification.
type Classifier = nn.Classifier

// NewClassifier builds a Classifier from a configuration.
//
// Example:
//
//	model, err := nn.NewClassifier(nn.Config{
//	    InputSize:   784,
//	    OutputSize:  10,
//	    HiddenSizes: []int{128},
//	    Dropout:     0.2,
//	})
func NewClassifier(cfg Config) (*Classifier, error) {
	return nn.NewClassifier(cfg)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear(inFeatures, outFeatures int) *Linear {
	return nn.NewLinear(inFeatures, outFeatures)
}

// Dropout randomly zeroes activations during training.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout(p float64) *Dropout {
	return nn.NewDropout(p)
}

// Sequential chains modules, running them in order.
type Sequential = nn.Sequential

// NewSequential creates a sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sigmoid represents the sigmoid activation function.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh represents the hyperbolic tangent activation function.
type Tanh = nn.Tanh

// NewTanh creates a new tanh activation layer.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// LogSoftmax computes row-wise log-probabilities.
type LogSoftmax = nn.LogSoftmax

// NewLogSoftmax creates a new log-softmax layer.
func NewLogSoftmax() *LogSoftmax {
	return nn.NewLogSoftmax()
}

// Losses

// NLLLoss computes the negative log-likelihood loss for classification.
type NLLLoss = nn.NLLLoss

// NewNLLLoss creates a new negative log-likelihood loss.
func NewNLLLoss() *NLLLoss {
	return nn.NewNLLLoss()
}

// Accuracy returns the fraction of rows whose argmax matches the label.
var Accuracy = nn.Accuracy

// Checkpoints

// Checkpoint is a complete training state snapshot.
type Checkpoint = nn.Checkpoint

// OptimizerState is implemented by optimizers that serialize their state.
type OptimizerState = nn.OptimizerState

// SaveCheckpoint writes a checkpoint to a .pcpt file.
func SaveCheckpoint(path string, model *Classifier, optimizer OptimizerState, epoch int) error {
	return nn.SaveCheckpoint(path, model, optimizer, epoch)
}

// LoadCheckpoint reads a .pcpt file and reconstructs the model it
// describes.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path)
}

// Errors

// ShapeMismatchError reports a checkpoint tensor whose shape disagrees
// with the model.
type ShapeMismatchError = nn.ShapeMismatchError

// ErrMissingParameter reports a state dictionary missing a model parameter.
var ErrMissingParameter = nn.ErrMissingParameter
