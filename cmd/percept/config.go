package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/percept-ml/percept/internal/dataset"
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/optim"
	"github.com/percept-ml/percept/internal/train"
)

// RunConfig is the YAML configuration for a training or evaluation run.
type RunConfig struct {
	Model     ModelConfig     `yaml:"model"`
	Training  TrainingConfig  `yaml:"training"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Data      DataConfig      `yaml:"data"`
}

// ModelConfig mirrors nn.Config in YAML form.
type ModelConfig struct {
	InputSize    int     `yaml:"input_size"`
	OutputSize   int     `yaml:"output_size"`
	HiddenLayers []int   `yaml:"hidden_layers"`
	Dropout      float64 `yaml:"dropout"`
}

// TrainingConfig mirrors train.Config in YAML form.
type TrainingConfig struct {
	Epochs    int   `yaml:"epochs"`
	BatchSize int   `yaml:"batch_size"`
	Shuffle   bool  `yaml:"shuffle"`
	Seed      int64 `yaml:"seed"`
	LogEvery  int   `yaml:"log_every"`
}

// OptimizerConfig selects and configures the optimizer.
type OptimizerConfig struct {
	Type     string  `yaml:"type"` // "sgd" (default) or "adam"
	LR       float64 `yaml:"lr"`
	Momentum float64 `yaml:"momentum"`
}

// DataConfig selects the dataset source.
//
// Exactly one source is used, picked by Format: "csv" reads Kaggle-style
// CSV files, "idx" reads IDX image/label pairs, "blobs" generates a
// synthetic clusters dataset.
type DataConfig struct {
	Format string `yaml:"format"`

	// csv
	TrainCSV   string `yaml:"train_csv"`
	TestCSV    string `yaml:"test_csv"`
	MaxSamples int    `yaml:"max_samples"`

	// idx
	TrainImages string `yaml:"train_images"`
	TrainLabels string `yaml:"train_labels"`
	TestImages  string `yaml:"test_images"`
	TestLabels  string `yaml:"test_labels"`

	// blobs
	Samples int     `yaml:"samples"`
	Classes int     `yaml:"classes"`
	StdDev  float64 `yaml:"std_dev"`
	Seed    int64   `yaml:"seed"`
}

// LoadRunConfig reads and parses a YAML run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	//nolint:gosec // G304: config path comes from the command line by design
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *RunConfig) modelConfig() nn.Config {
	return nn.Config{
		InputSize:   c.Model.InputSize,
		OutputSize:  c.Model.OutputSize,
		HiddenSizes: c.Model.HiddenLayers,
		Dropout:     c.Model.Dropout,
	}
}

func (c *RunConfig) trainConfig() train.Config {
	return train.Config{
		Epochs:    c.Training.Epochs,
		BatchSize: c.Training.BatchSize,
		Shuffle:   c.Training.Shuffle,
		Seed:      c.Training.Seed,
		LogEvery:  c.Training.LogEvery,
	}
}

func (c *RunConfig) buildOptimizer(params []*nn.Parameter) (optim.Optimizer, error) {
	switch c.Optimizer.Type {
	case "", "sgd":
		return optim.NewSGD(params, optim.SGDConfig{
			LR:       c.Optimizer.LR,
			Momentum: c.Optimizer.Momentum,
		}), nil
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: c.Optimizer.LR}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer type %q (want sgd or adam)", c.Optimizer.Type)
	}
}

// loadData returns the training set and, when configured, a held-out test
// set (nil otherwise).
func (c *RunConfig) loadData() (*dataset.Dataset, *dataset.Dataset, error) {
	switch c.Data.Format {
	case "csv":
		if c.Data.TrainCSV == "" {
			return nil, nil, fmt.Errorf("data.train_csv is required for csv format")
		}
		trainSet, err := dataset.LoadCSV(c.Data.TrainCSV, c.Data.MaxSamples)
		if err != nil {
			return nil, nil, err
		}
		var testSet *dataset.Dataset
		if c.Data.TestCSV != "" {
			if testSet, err = dataset.LoadCSV(c.Data.TestCSV, c.Data.MaxSamples); err != nil {
				return nil, nil, err
			}
		}
		return trainSet, testSet, nil

	case "idx":
		if c.Data.TrainImages == "" || c.Data.TrainLabels == "" {
			return nil, nil, fmt.Errorf("data.train_images and data.train_labels are required for idx format")
		}
		trainSet, err := dataset.LoadIDXPair(c.Data.TrainImages, c.Data.TrainLabels)
		if err != nil {
			return nil, nil, err
		}
		var testSet *dataset.Dataset
		if c.Data.TestImages != "" && c.Data.TestLabels != "" {
			if testSet, err = dataset.LoadIDXPair(c.Data.TestImages, c.Data.TestLabels); err != nil {
				return nil, nil, err
			}
		}
		return trainSet, testSet, nil

	case "blobs":
		ds, err := dataset.Blobs(dataset.BlobsConfig{
			Samples:  c.Data.Samples,
			Classes:  c.Data.Classes,
			Features: c.Model.InputSize,
			StdDev:   c.Data.StdDev,
			Seed:     c.Data.Seed,
		})
		if err != nil {
			return nil, nil, err
		}
		return ds, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown data format %q (want csv, idx or blobs)", c.Data.Format)
	}
}
