package dataset

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Option configures a Batcher.
type Option func(*Batcher)

// WithShuffle makes the batcher visit samples in a random order, reshuffled
// on every Reset. A nil rng disables shuffling.
func WithShuffle(rng *rand.Rand) Option {
	return func(b *Batcher) {
		b.rng = rng
	}
}

// WithDropLast makes the batcher skip a trailing partial batch.
func WithDropLast() Option {
	return func(b *Batcher) {
		b.dropLast = true
	}
}

// Batcher iterates over a dataset in mini-batches.
//
// Each Next call copies the batch rows into a fresh matrix, so training
// code may mutate batches freely.
type Batcher struct {
	ds        *Dataset
	batchSize int
	rng       *rand.Rand
	dropLast  bool

	perm []int
	pos  int
}

// NewBatcher creates a batcher over the dataset.
//
// batchSize values below 1 are clamped to 1.
func NewBatcher(ds *Dataset, batchSize int, opts ...Option) *Batcher {
	if batchSize < 1 {
		batchSize = 1
	}
	b := &Batcher{ds: ds, batchSize: batchSize}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// Reset rewinds the batcher, reshuffling if configured.
func (b *Batcher) Reset() {
	n := b.ds.Len()
	if b.perm == nil {
		b.perm = make([]int, n)
	}
	for i := range b.perm {
		b.perm[i] = i
	}
	if b.rng != nil {
		b.rng.Shuffle(n, func(i, j int) { b.perm[i], b.perm[j] = b.perm[j], b.perm[i] })
	}
	b.pos = 0
}

// NumBatches returns the number of batches a full pass yields.
func (b *Batcher) NumBatches() int {
	n := b.ds.Len()
	if b.dropLast {
		return n / b.batchSize
	}
	return (n + b.batchSize - 1) / b.batchSize
}

// Next returns the next batch, or ok=false when the pass is exhausted.
func (b *Batcher) Next() (x *mat.Dense, labels []int, ok bool) {
	n := b.ds.Len()
	if b.pos >= n {
		return nil, nil, false
	}
	end := b.pos + b.batchSize
	if end > n {
		if b.dropLast {
			return nil, nil, false
		}
		end = n
	}

	cols := b.ds.NumFeatures()
	x = mat.NewDense(end-b.pos, cols, nil)
	labels = make([]int, end-b.pos)
	for i, idx := range b.perm[b.pos:end] {
		x.SetRow(i, b.ds.X.RawRowView(idx))
		labels[i] = b.ds.Labels[idx]
	}
	b.pos = end
	return x, labels, true
}
