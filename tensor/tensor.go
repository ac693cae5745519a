// Copyright 2026 Percept ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the raw tensor carrier used by state
// dictionaries and checkpoints.
package tensor

import (
	"github.com/percept-ml/percept/internal/tensor"
)

// Shape describes tensor dimensions.
type Shape = tensor.Shape

// RawTensor is a shape-tagged float64 buffer.
type RawTensor = tensor.RawTensor

// FromSlice creates a raw tensor from values with the given shape.
func FromSlice(values []float64, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(values, shape)
}
