// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides in-memory datasets for classifier training.
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/dataset"
	"github.com/percept-ml/percept/internal/tensor"
)

// Dataset is an in-memory labeled dataset.
type Dataset = dataset.Dataset

// New creates a dataset from a feature matrix and labels.
func New(x *mat.Dense, labels []int) (*Dataset, error) {
	return dataset.New(x, labels)
}

// Batcher iterates over a dataset in mini-batches.
type Batcher = dataset.Batcher

// Option configures a Batcher.
type Option = dataset.Option

// NewBatcher creates a batcher over the dataset.
func NewBatcher(ds *Dataset, batchSize int, opts ...Option) *Batcher {
	return dataset.NewBatcher(ds, batchSize, opts...)
}

// WithShuffle makes the batcher visit samples in a random order.
var WithShuffle = dataset.WithShuffle

// WithDropLast makes the batcher skip a trailing partial batch.
var WithDropLast = dataset.WithDropLast

// Synthetic data

// BlobsConfig configures the synthetic blobs generator.
type BlobsConfig = dataset.BlobsConfig

// Blobs generates an isotropic Gaussian clusters dataset.
//
// Example:
//
//	ds, err := dataset.Blobs(dataset.BlobsConfig{
//	    Samples: 600,
//	    Classes: 4,
//	    Seed:    42,
//	})
func Blobs(config BlobsConfig) (*Dataset, error) {
	return dataset.Blobs(config)
}

// Flatten reshapes a batch of multi-dimensional samples into a
// [batch, featureSize] matrix, failing if the per-sample element count
// disagrees with featureSize.
func Flatten(batch *tensor.RawTensor, featureSize int) (*mat.Dense, error) {
	return dataset.Flatten(batch, featureSize)
}

// IDX image corpora

// LoadIDXImages reads an IDX image file into a [count, rows*cols] matrix.
var LoadIDXImages = dataset.LoadIDXImages

// LoadIDXLabels reads an IDX label file into a class index slice.
var LoadIDXLabels = dataset.LoadIDXLabels

// LoadIDXPair reads matching image and label files into a dataset.
func LoadIDXPair(imagesPath, labelsPath string) (*Dataset, error) {
	return dataset.LoadIDXPair(imagesPath, labelsPath)
}

// LoadCSV loads a labeled dataset from a Kaggle-style CSV file
// (label,pixel0,...). Feature values are scaled to [0, 1].
func LoadCSV(path string, maxSamples int) (*Dataset, error) {
	return dataset.LoadCSV(path, maxSamples)
}
