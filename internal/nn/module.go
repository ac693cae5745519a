// Package nn implements the neural network building blocks for Percept.
//
// This package provides:
//   - Module interface: base interface for all network components
//   - Parameter: trainable parameters with accumulated gradients
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Dropout: stochastic regularization with train/eval modes
//   - LogSoftmax + NLLLoss: the classification head and its loss
//   - Sequential: container for stacking layers
//   - Classifier: configurable multi-layer perceptron
//   - Checkpoint: save/restore of architecture and parameter values
//
// Design inspired by PyTorch's nn.Module, with gradients propagated through
// an explicit per-layer backward chain instead of a recorded tape.
package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Forward and Backward are paired: Backward must be called with the gradient
// of the loss with respect to the output of the most recent Forward, and
// returns the gradient with respect to that Forward's input. Modules with
// trainable parameters accumulate parameter gradients during Backward.
type Module interface {
	// Forward computes the module output for a batch.
	//
	// The input has shape [batch_size, in_features]; the output shape is
	// determined by the module type.
	Forward(input *mat.Dense) *mat.Dense

	// Backward propagates the gradient of the loss through the module.
	//
	// grad has the shape of the most recent Forward output. The returned
	// matrix has the shape of that Forward's input.
	Backward(grad *mat.Dense) *mat.Dense

	// Parameters returns all trainable parameters of this module.
	//
	// Returns nil for modules without trainable parameters (activations,
	// dropout).
	Parameters() []*Parameter
}

// Trainable is implemented by modules whose behavior differs between
// training and inference (currently only Dropout).
//
// Containers propagate the mode via interface assertion, so plain modules
// do not need to implement it.
type Trainable interface {
	SetTraining(training bool)
}

// StateModule is implemented by modules that can export and import their
// parameter values as a state dictionary.
type StateModule interface {
	// StateDict returns a map of parameter names to value snapshots.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies values from a state dictionary into the module,
	// validating shapes before any mutation.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
