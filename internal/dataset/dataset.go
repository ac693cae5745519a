package dataset

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dataset is an in-memory labeled dataset.
//
// X holds one flattened sample per row; Labels holds the class index for
// each row.
type Dataset struct {
	X      *mat.Dense
	Labels []int
}

// New creates a dataset, checking that X and Labels agree on sample count.
func New(x *mat.Dense, labels []int) (*Dataset, error) {
	rows, _ := x.Dims()
	if rows != len(labels) {
		return nil, fmt.Errorf("dataset: %d feature rows but %d labels", rows, len(labels))
	}
	return &Dataset{X: x, Labels: labels}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// NumFeatures returns the flattened feature count per sample.
func (d *Dataset) NumFeatures() int {
	_, cols := d.X.Dims()
	return cols
}

// Subset returns a new dataset holding copies of the given rows.
func (d *Dataset) Subset(indices []int) *Dataset {
	cols := d.NumFeatures()
	x := mat.NewDense(len(indices), cols, nil)
	labels := make([]int, len(indices))
	for i, idx := range indices {
		x.SetRow(i, d.X.RawRowView(idx))
		labels[i] = d.Labels[idx]
	}
	return &Dataset{X: x, Labels: labels}
}

// Split partitions the dataset into two parts, the first holding fraction
// of the samples. Useful for carving a validation set off a training set.
func (d *Dataset) Split(fraction float64, rng *rand.Rand) (*Dataset, *Dataset, error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("dataset: split fraction must be in (0, 1), got %v", fraction)
	}
	n := d.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	}
	cut := int(float64(n) * fraction)
	if cut == 0 || cut == n {
		return nil, nil, fmt.Errorf("dataset: split fraction %v leaves an empty part for %d samples", fraction, n)
	}
	return d.Subset(perm[:cut]), d.Subset(perm[cut:]), nil
}

// NumClasses returns 1 + the maximum label, the conventional class count
// for dense label encodings.
func (d *Dataset) NumClasses() int {
	maxLabel := -1
	for _, label := range d.Labels {
		if label > maxLabel {
			maxLabel = label
		}
	}
	return maxLabel + 1
}
