package optim

import (
	"github.com/percept-ml/percept/internal/tensor"
)

// Optimizer updates model parameters from their accumulated gradients.
//
// Implementations read each parameter's gradient during Step and skip
// parameters whose gradient is nil (nothing was accumulated since the last
// zeroing).
type Optimizer interface {
	// Step performs a single parameter update from the current gradients.
	Step()

	// ZeroGrad clears the gradients of all managed parameters.
	//
	// Call this at the start of every training step; gradients otherwise
	// accumulate across batches.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR changes the learning rate, e.g. for a schedule.
	SetLR(lr float64)

	// Type returns a short identifier ("SGD", "Adam") for checkpoints.
	Type() string

	// StateDict returns the optimizer state (momentum buffers, moment
	// estimates) keyed by buffer name and parameter index.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores optimizer state saved by StateDict.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
