// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train drives the optimization loop for classifiers.
package train

import (
	"github.com/percept-ml/percept/internal/dataset"
	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/optim"
	"github.com/percept-ml/percept/internal/train"
)

// Config configures a training run.
type Config = train.Config

// Metrics holds the loss and accuracy over some set of samples.
type Metrics = train.Metrics

// EpochMetrics holds per-epoch training results.
type EpochMetrics = train.EpochMetrics

// Trainer runs the optimization loop for a classifier.
type Trainer = train.Trainer

// New creates a trainer.
//
// Example:
//
//	trainer, err := train.New(model, optimizer, train.Config{
//	    Epochs:    20,
//	    BatchSize: 64,
//	    Shuffle:   true,
//	})
//	history, err := trainer.Fit(trainSet, valSet)
func New(model *nn.Classifier, optimizer optim.Optimizer, config Config) (*Trainer, error) {
	return train.New(model, optimizer, config)
}

// Evaluate measures loss and accuracy over a dataset without mutating the
// model.
func Evaluate(model *nn.Classifier, ds *dataset.Dataset, batchSize int) (Metrics, error) {
	return train.Evaluate(model, ds, batchSize)
}
