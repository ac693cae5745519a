package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Flatten reshapes a batch of multi-dimensional samples into a
// [batch, featureSize] matrix.
//
// The first dimension of the batch is the sample count; the remaining
// dimensions are collapsed in row-major order. Fails if the per-sample
// element count disagrees with featureSize, e.g. feeding 32×32 images to a
// model built for 28×28 inputs.
func Flatten(batch *tensor.RawTensor, featureSize int) (*mat.Dense, error) {
	shape := batch.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("flatten: batch must have at least 2 dimensions, got shape %v", shape)
	}
	samples := shape[0]
	perSample := batch.NumElements() / samples
	if perSample != featureSize {
		return nil, fmt.Errorf("flatten: sample shape %v has %d elements, model expects %d",
			[]int(shape[1:]), perSample, featureSize)
	}
	return mat.NewDense(samples, featureSize, batch.Data()), nil
}
