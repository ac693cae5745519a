package dataset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

func TestNewRejectsRowMismatch(t *testing.T) {
	_, err := New(mat.NewDense(3, 2, nil), []int{0, 1})
	assert.Error(t, err)
}

func TestDatasetAccessors(t *testing.T) {
	ds, err := New(mat.NewDense(4, 3, nil), []int{0, 1, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 3, ds.NumFeatures())
	assert.Equal(t, 3, ds.NumClasses())
}

func TestSubsetCopiesRows(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	ds, err := New(x, []int{0, 1, 2})
	require.NoError(t, err)

	sub := ds.Subset([]int{2, 0})
	assert.Equal(t, []int{2, 0}, sub.Labels)
	assert.Equal(t, []float64{3, 3}, sub.X.RawRowView(0))

	sub.X.Set(0, 0, 99)
	assert.Equal(t, 3.0, ds.X.At(2, 0), "subset must not alias the source")
}

func TestSplitPartitions(t *testing.T) {
	ds, err := New(mat.NewDense(10, 1, nil), make([]int, 10))
	require.NoError(t, err)

	a, b, err := ds.Split(0.3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 7, b.Len())

	_, _, err = ds.Split(0, nil)
	assert.Error(t, err)
}

func TestBatcherCoversAllSamples(t *testing.T) {
	x := mat.NewDense(7, 1, []float64{0, 1, 2, 3, 4, 5, 6})
	ds, err := New(x, []int{0, 1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	b := NewBatcher(ds, 3)
	assert.Equal(t, 3, b.NumBatches())

	var seen []int
	sizes := []int{}
	for {
		batch, labels, ok := b.Next()
		if !ok {
			break
		}
		rows, _ := batch.Dims()
		sizes = append(sizes, rows)
		seen = append(seen, labels...)
	}
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6}, seen)
}

func TestBatcherDropLast(t *testing.T) {
	ds, err := New(mat.NewDense(7, 1, nil), make([]int, 7))
	require.NoError(t, err)

	b := NewBatcher(ds, 3, WithDropLast())
	assert.Equal(t, 2, b.NumBatches())

	count := 0
	for {
		_, labels, ok := b.Next()
		if !ok {
			break
		}
		assert.Len(t, labels, 3)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestBatcherShuffleIsReproducible(t *testing.T) {
	x := mat.NewDense(20, 1, nil)
	labels := make([]int, 20)
	for i := range labels {
		x.Set(i, 0, float64(i))
		labels[i] = i
	}
	ds, err := New(x, labels)
	require.NoError(t, err)

	order := func(seed int64) []int {
		b := NewBatcher(ds, 5, WithShuffle(rand.New(rand.NewSource(seed))))
		var got []int
		for {
			_, l, ok := b.Next()
			if !ok {
				break
			}
			got = append(got, l...)
		}
		return got
	}

	assert.Equal(t, order(42), order(42), "same seed, same order")
	assert.NotEqual(t, order(1), order(2), "different seeds should shuffle differently")
}

func TestBatcherBatchIsACopy(t *testing.T) {
	ds, err := New(mat.NewDense(2, 1, []float64{1, 2}), []int{0, 1})
	require.NoError(t, err)

	b := NewBatcher(ds, 2)
	batch, _, ok := b.Next()
	require.True(t, ok)
	batch.Set(0, 0, 99)
	assert.Equal(t, 1.0, ds.X.At(0, 0), "mutating a batch must not touch the dataset")
}

func TestFlatten(t *testing.T) {
	// Two 2×3 "images".
	raw, err := tensor.FromSlice([]float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}, tensor.Shape{2, 2, 3})
	require.NoError(t, err)

	x, err := Flatten(raw, 6)
	require.NoError(t, err)
	rows, cols := x.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 6, cols)
	assert.Equal(t, []float64{7, 8, 9, 10, 11, 12}, x.RawRowView(1))
}

func TestFlattenRejectsWrongFeatureCount(t *testing.T) {
	raw, err := tensor.FromSlice(make([]float64, 2*4*4), tensor.Shape{2, 4, 4})
	require.NoError(t, err)

	_, err = Flatten(raw, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16")
	assert.Contains(t, err.Error(), "10")
}

func TestBlobsShapeAndDeterminism(t *testing.T) {
	cfg := BlobsConfig{Samples: 90, Classes: 3, Features: 2, Seed: 7}
	ds, err := Blobs(cfg)
	require.NoError(t, err)
	assert.Equal(t, 90, ds.Len())
	assert.Equal(t, 2, ds.NumFeatures())
	assert.Equal(t, 3, ds.NumClasses())

	counts := map[int]int{}
	for _, label := range ds.Labels {
		counts[label]++
	}
	assert.Equal(t, map[int]int{0: 30, 1: 30, 2: 30}, counts)

	again, err := Blobs(cfg)
	require.NoError(t, err)
	assert.Equal(t, ds.X.RawRowView(0), again.X.RawRowView(0), "same seed, same data")
}

func TestBlobsRejectsBadConfig(t *testing.T) {
	_, err := Blobs(BlobsConfig{Samples: 2, Classes: 5})
	assert.Error(t, err)
	_, err = Blobs(BlobsConfig{StdDev: -1})
	assert.Error(t, err)
}
