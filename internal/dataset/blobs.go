package dataset

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BlobsConfig configures the synthetic blobs generator.
//
// Zero values select the defaults: 300 samples, 3 classes, 2 features,
// standard deviation 0.5.
type BlobsConfig struct {
	Samples  int     // Total sample count, spread evenly across classes (default: 300)
	Classes  int     // Number of Gaussian clusters (default: 3)
	Features int     // Dimensionality of each sample (default: 2)
	StdDev   float64 // Cluster spread (default: 0.5)
	Seed     int64   // RNG seed; the same seed reproduces the same dataset
}

// Blobs generates an isotropic Gaussian clusters dataset.
//
// Each class gets a random center in [-4, 4]^Features and Samples/Classes
// points drawn around it. The clusters are well separated at the default
// spread, so a small classifier should fit them to near-perfect accuracy;
// that makes Blobs the workhorse for examples and end-to-end tests.
func Blobs(config BlobsConfig) (*Dataset, error) {
	if config.Samples == 0 {
		config.Samples = 300
	}
	if config.Classes == 0 {
		config.Classes = 3
	}
	if config.Features == 0 {
		config.Features = 2
	}
	if config.StdDev == 0 {
		config.StdDev = 0.5
	}
	if config.Samples < config.Classes {
		return nil, fmt.Errorf("blobs: %d samples cannot cover %d classes", config.Samples, config.Classes)
	}
	if config.StdDev < 0 {
		return nil, fmt.Errorf("blobs: standard deviation must be non-negative, got %v", config.StdDev)
	}

	rng := rand.New(rand.NewSource(config.Seed))

	centers := make([][]float64, config.Classes)
	for c := range centers {
		center := make([]float64, config.Features)
		for j := range center {
			center[j] = rng.Float64()*8 - 4
		}
		centers[c] = center
	}

	x := mat.NewDense(config.Samples, config.Features, nil)
	labels := make([]int, config.Samples)
	for i := 0; i < config.Samples; i++ {
		class := i % config.Classes
		labels[i] = class
		row := x.RawRowView(i)
		for j := range row {
			row[j] = centers[class][j] + rng.NormFloat64()*config.StdDev
		}
	}

	return &Dataset{X: x, Labels: labels}, nil
}
