package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dropout randomly zeroes activations during training.
//
// This implements inverted dropout: surviving activations are scaled by
// 1/(1-p) at training time so that inference needs no rescaling. In
// evaluation mode (the default for a freshly constructed module is training
// mode off until a container enables it) the input passes through unchanged.
type Dropout struct {
	p        float64
	training bool
	rng      *rand.Rand
	lastMask *mat.Dense // scaled keep-mask from the most recent training Forward
}

// NewDropout creates a Dropout module with drop probability p in [0, 1).
//
// Panics on an out-of-range probability; Config.Validate rejects it earlier
// for configured models.
func NewDropout(p float64) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{
		p: p,
		//nolint:gosec // math/rand is fine for dropout masks
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
}

// Seed reseeds the mask generator. Used by tests for determinism.
func (d *Dropout) Seed(seed int64) {
	d.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic masks wanted
}

// SetTraining switches between training (masking) and inference
// (pass-through) behavior.
func (d *Dropout) SetTraining(training bool) {
	d.training = training
}

// Forward masks the input during training and passes it through otherwise.
func (d *Dropout) Forward(input *mat.Dense) *mat.Dense {
	if !d.training || d.p == 0 {
		d.lastMask = nil
		return input
	}

	rows, cols := input.Dims()
	scale := 1.0 / (1.0 - d.p)
	mask := mat.NewDense(rows, cols, nil)
	output := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		maskRow := mask.RawRowView(i)
		outRow := output.RawRowView(i)
		inRow := input.RawRowView(i)
		for j := range maskRow {
			if d.rng.Float64() >= d.p {
				maskRow[j] = scale
				outRow[j] = inRow[j] * scale
			}
		}
	}
	d.lastMask = mask
	return output
}

// Backward applies the same scaled mask to the gradient.
func (d *Dropout) Backward(grad *mat.Dense) *mat.Dense {
	if d.lastMask == nil {
		// Forward ran in inference mode (or p == 0); gradient passes through.
		return grad
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.MulElem(grad, d.lastMask)
	return out
}

// Parameters returns nil (Dropout has no trainable parameters).
func (d *Dropout) Parameters() []*Parameter {
	return nil
}

// P returns the drop probability.
func (d *Dropout) P() float64 {
	return d.p
}
