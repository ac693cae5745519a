package nn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/percept-ml/percept/internal/serialization"
	"github.com/percept-ml/percept/internal/tensor"
)

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is implemented by the optim package; declaring it here lets
// checkpoints serialize optimizer buffers without an import cycle.
type OptimizerState interface {
	// Type returns a short identifier ("SGD", "Adam") recorded in the
	// checkpoint header.
	Type() string

	// StateDict returns the optimizer state for serialization.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict restores optimizer state from serialization.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Checkpoint is a complete training state snapshot: the model configuration,
// every parameter value, optional optimizer buffers, and training metadata.
//
// The architecture block in the file is authoritative: loading reconstructs
// a fresh model from it and then copies values in, failing if any stored
// shape disagrees with the reconstructed model.
type Checkpoint struct {
	Model     *Classifier       // The model (never nil)
	Optimizer OptimizerState    // Optional; nil for model-only snapshots
	Epoch     int               // Training epoch number
	Step      int64             // Training step number
	Loss      float64           // Loss value at this checkpoint
	Metadata  map[string]string // Additional training metadata (run id, dataset, ...)
	CreatedAt time.Time         // When the checkpoint was created

	// optimizerState holds raw optimizer buffers after a load, until the
	// caller reconstructs an optimizer and calls RestoreOptimizer.
	optimizerState map[string]*tensor.RawTensor
}

// Save writes the checkpoint to a .pcpt file atomically.
func (c *Checkpoint) Save(path string) error {
	if c.Model == nil {
		return fmt.Errorf("checkpoint: model is nil")
	}

	stateDict := c.Model.StateDict()
	meta := &serialization.CheckpointMeta{
		Epoch:        c.Epoch,
		Step:         c.Step,
		Loss:         c.Loss,
		TrainingMeta: c.Metadata,
	}
	if c.Optimizer != nil {
		for name, raw := range c.Optimizer.StateDict() {
			stateDict["optimizer."+name] = raw
		}
		meta.OptimizerType = c.Optimizer.Type()
		meta.LearningRate = c.Optimizer.GetLR()
	}

	cfg := c.Model.Config()
	header := serialization.Header{
		ModelType: "Classifier",
		CreatedAt: c.CreatedAt,
		Architecture: &serialization.Architecture{
			InputSize:    cfg.InputSize,
			OutputSize:   cfg.OutputSize,
			HiddenLayers: cfg.HiddenSizes,
			Dropout:      cfg.Dropout,
		},
		Checkpoint: meta,
	}

	if err := serialization.Save(path, stateDict, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// SaveCheckpoint is a convenience wrapper for the common save call.
func SaveCheckpoint(path string, model *Classifier, optimizer OptimizerState, epoch int) error {
	checkpoint := &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     epoch,
		CreatedAt: time.Now().UTC(),
	}
	return checkpoint.Save(path)
}

// LoadCheckpoint reads a .pcpt file and reconstructs the model it describes.
//
// The model architecture comes from the file's architecture block; a file
// without one fails with a format error. Every stored parameter must match
// the reconstructed model's shape exactly, or loading fails with a
// *ShapeMismatchError naming the parameter and both shapes. Values are
// copied wholesale; nothing is truncated or padded.
//
// Optimizer buffers, if present, are kept raw on the returned Checkpoint;
// reconstruct a matching optimizer and call RestoreOptimizer to apply them.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		if errors.Is(err, serialization.ErrInvalidMagic) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotCheckpoint)
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	header := reader.Header()
	if header.Architecture == nil {
		return nil, fmt.Errorf("checkpoint %s: %w", path, serialization.ErrMissingArchitecture)
	}

	arch := header.Architecture
	model, err := NewClassifier(Config{
		InputSize:   arch.InputSize,
		OutputSize:  arch.OutputSize,
		HiddenSizes: arch.HiddenLayers,
		Dropout:     arch.Dropout,
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint %s: invalid architecture: %w", path, err)
	}

	stateDict, err := reader.ReadStateDict()
	if err != nil {
		return nil, fmt.Errorf("failed to read state dict: %w", err)
	}

	modelState := make(map[string]*tensor.RawTensor)
	optimizerState := make(map[string]*tensor.RawTensor)
	for name, raw := range stateDict {
		if strings.HasPrefix(name, "optimizer.") {
			optimizerState[strings.TrimPrefix(name, "optimizer.")] = raw
		} else {
			modelState[name] = raw
		}
	}

	if err := model.LoadStateDict(modelState); err != nil {
		return nil, err
	}

	checkpoint := &Checkpoint{
		Model:     model,
		CreatedAt: header.CreatedAt,
	}
	if header.Checkpoint != nil {
		checkpoint.Epoch = header.Checkpoint.Epoch
		checkpoint.Step = header.Checkpoint.Step
		checkpoint.Loss = header.Checkpoint.Loss
		checkpoint.Metadata = header.Checkpoint.TrainingMeta
	}
	if len(optimizerState) > 0 {
		checkpoint.optimizerState = optimizerState
	}
	return checkpoint, nil
}

// HasOptimizerState reports whether the loaded file carried optimizer
// buffers.
func (c *Checkpoint) HasOptimizerState() bool {
	return len(c.optimizerState) > 0
}

// RestoreOptimizer applies loaded optimizer buffers to a freshly
// constructed optimizer.
//
// The optimizer must be built over the reconstructed model's parameters
// with the same configuration as when the checkpoint was saved.
func (c *Checkpoint) RestoreOptimizer(optimizer OptimizerState) error {
	if len(c.optimizerState) == 0 {
		return nil
	}
	if err := optimizer.LoadStateDict(c.optimizerState); err != nil {
		return fmt.Errorf("failed to restore optimizer state: %w", err)
	}
	c.Optimizer = optimizer
	return nil
}
