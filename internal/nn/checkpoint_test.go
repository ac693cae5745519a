package nn

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/serialization"
	"github.com/percept-ml/percept/internal/tensor"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	model, err := NewClassifier(Config{
		InputSize:   6,
		OutputSize:  3,
		HiddenSizes: []int{4},
		Dropout:     0.1,
	})
	require.NoError(t, err)
	return model
}

// fakeOptimizer implements OptimizerState for checkpoint tests without
// importing the optim package.
type fakeOptimizer struct {
	state map[string]*tensor.RawTensor
	lr    float64
}

func (f *fakeOptimizer) Type() string                            { return "SGD" }
func (f *fakeOptimizer) StateDict() map[string]*tensor.RawTensor { return f.state }
func (f *fakeOptimizer) GetLR() float64                          { return f.lr }
func (f *fakeOptimizer) LoadStateDict(s map[string]*tensor.RawTensor) error {
	f.state = s
	return nil
}

func TestCheckpointRoundTrip(t *testing.T) {
	model := newTestClassifier(t)
	path := filepath.Join(t.TempDir(), "model.pcpt")

	checkpoint := &Checkpoint{
		Model:     model,
		Epoch:     7,
		Step:      1234,
		Loss:      0.456,
		Metadata:  map[string]string{"run_id": "test-run"},
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, checkpoint.Save(path))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, 7, loaded.Epoch)
	assert.Equal(t, int64(1234), loaded.Step)
	assert.InDelta(t, 0.456, loaded.Loss, 1e-15)
	assert.Equal(t, "test-run", loaded.Metadata["run_id"])
	assert.Equal(t, model.Config(), loaded.Model.Config())

	// Parameter values survive bit for bit.
	want := model.StateDict()
	got := loaded.Model.StateDict()
	require.Len(t, got, len(want))
	for name, raw := range want {
		require.Contains(t, got, name)
		assert.Equal(t, raw.Data(), got[name].Data(), "tensor %s", name)
	}
}

func TestCheckpointReloadedModelAgrees(t *testing.T) {
	model := newTestClassifier(t)
	path := filepath.Join(t.TempDir(), "model.pcpt")
	require.NoError(t, SaveCheckpoint(path, model, nil, 1))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)

	input := mat.NewDense(3, 6, []float64{
		1, 2, 3, 4, 5, 6,
		-1, 0, 1, -1, 0, 1,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5,
	})
	model.SetTraining(false)
	loaded.Model.SetTraining(false)
	assert.True(t, mat.EqualApprox(model.Forward(input), loaded.Model.Forward(input), 0),
		"reloaded model must produce identical outputs")
}

func TestCheckpointOptimizerState(t *testing.T) {
	model := newTestClassifier(t)
	velocity, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	optimizer := &fakeOptimizer{
		state: map[string]*tensor.RawTensor{"velocity.0": velocity},
		lr:    0.05,
	}

	path := filepath.Join(t.TempDir(), "model.pcpt")
	checkpoint := &Checkpoint{Model: model, Optimizer: optimizer, Epoch: 2}
	require.NoError(t, checkpoint.Save(path))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	require.True(t, loaded.HasOptimizerState())

	restored := &fakeOptimizer{}
	require.NoError(t, loaded.RestoreOptimizer(restored))
	require.Contains(t, restored.state, "velocity.0")
	assert.Equal(t, []float64{1, 2, 3, 4}, restored.state["velocity.0"].Data())

	// Header records the optimizer type and learning rate.
	reader, err := serialization.NewReader(path)
	require.NoError(t, err)
	meta := reader.Header().Checkpoint
	require.NotNil(t, meta)
	assert.Equal(t, "SGD", meta.OptimizerType)
	assert.InDelta(t, 0.05, meta.LearningRate, 1e-15)
}

func TestLoadCheckpointShapeMismatch(t *testing.T) {
	model := newTestClassifier(t)
	path := filepath.Join(t.TempDir(), "model.pcpt")

	// Save with a tampered architecture block: the header claims a wider
	// hidden layer than the stored tensors actually have.
	stateDict := model.StateDict()
	header := serialization.Header{
		ModelType: "Classifier",
		Architecture: &serialization.Architecture{
			InputSize:    6,
			OutputSize:   3,
			HiddenLayers: []int{5}, // stored tensors are built for width 4
			Dropout:      0.1,
		},
	}
	require.NoError(t, serialization.Save(path, stateDict, header))

	_, err := LoadCheckpoint(path)
	var sme *ShapeMismatchError
	require.ErrorAs(t, err, &sme)
	assert.Contains(t, sme.Param, "layers.0.")
	assert.Contains(t, err.Error(), "shape mismatch")
}

func TestLoadCheckpointMissingArchitecture(t *testing.T) {
	model := newTestClassifier(t)
	path := filepath.Join(t.TempDir(), "model.pcpt")
	require.NoError(t, serialization.Save(path, model.StateDict(), serialization.Header{
		ModelType: "Classifier",
	}))

	_, err := LoadCheckpoint(path)
	assert.ErrorIs(t, err, serialization.ErrMissingArchitecture)
}

func TestLoadCheckpointRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-checkpoint.bin")
	junk := bytes.Repeat([]byte("not a checkpoint "), 8)
	require.NoError(t, os.WriteFile(path, junk, 0o644))

	_, err := LoadCheckpoint(path)
	assert.True(t, errors.Is(err, ErrNotCheckpoint), "got %v", err)
}

func TestSaveIsAtomic(t *testing.T) {
	model := newTestClassifier(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "model.pcpt")

	require.NoError(t, SaveCheckpoint(path, model, nil, 1))
	require.NoError(t, SaveCheckpoint(path, model, nil, 2))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "model.pcpt", entries[0].Name())

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Epoch)
}
