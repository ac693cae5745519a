package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
model:
  input_size: 784
  output_size: 10
  hidden_layers: [128, 64]
  dropout: 0.2
training:
  epochs: 5
  batch_size: 64
  shuffle: true
  seed: 42
optimizer:
  type: adam
  lr: 0.001
data:
  format: blobs
  samples: 300
  classes: 10
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRunConfig(t *testing.T) {
	cfg, err := LoadRunConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	model := cfg.modelConfig()
	assert.Equal(t, 784, model.InputSize)
	assert.Equal(t, 10, model.OutputSize)
	assert.Equal(t, []int{128, 64}, model.HiddenSizes)
	assert.InDelta(t, 0.2, model.Dropout, 1e-15)

	tc := cfg.trainConfig()
	assert.Equal(t, 5, tc.Epochs)
	assert.Equal(t, 64, tc.BatchSize)
	assert.True(t, tc.Shuffle)
	assert.Equal(t, int64(42), tc.Seed)
}

func TestLoadRunConfigRejectsBadYAML(t *testing.T) {
	_, err := LoadRunConfig(writeConfig(t, "model: [not: a: mapping"))
	assert.Error(t, err)
}

func TestBuildOptimizer(t *testing.T) {
	cfg, err := LoadRunConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	opt, err := cfg.buildOptimizer(nil)
	require.NoError(t, err)
	assert.Equal(t, "Adam", opt.Type())

	cfg.Optimizer.Type = "lbfgs"
	_, err = cfg.buildOptimizer(nil)
	assert.Error(t, err)
}

func TestLoadDataBlobs(t *testing.T) {
	cfg, err := LoadRunConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	cfg.Model.InputSize = 4 // blobs dimensionality follows the model input

	trainSet, testSet, err := cfg.loadData()
	require.NoError(t, err)
	assert.Nil(t, testSet)
	assert.Equal(t, 300, trainSet.Len())
	assert.Equal(t, 4, trainSet.NumFeatures())
}

func TestLoadDataUnknownFormat(t *testing.T) {
	cfg := &RunConfig{}
	cfg.Data.Format = "parquet"
	_, _, err := cfg.loadData()
	assert.Error(t, err)
}
