package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The value is held as a gonum matrix for computation; bias vectors are
// carried as 1×n matrices but keep their logical 1-D shape for state
// dictionaries and shape validation.
//
// Gradients accumulate across Backward calls. Callers must zero them before
// each training step; accumulation is deliberate so that the zeroing contract
// stays explicit rather than hidden inside the layers.
type Parameter struct {
	name  string
	shape tensor.Shape // logical shape, e.g. [128 784] or [128]
	value *mat.Dense
	grad  *mat.Dense // nil until the first Backward after a zeroing
}

// NewParameter creates a trainable parameter.
//
// The value matrix should already be initialized. shape is the logical shape
// recorded in state dictionaries; for a bias held as a 1×n matrix pass
// Shape{n}.
func NewParameter(name string, value *mat.Dense, shape tensor.Shape) *Parameter {
	return &Parameter{
		name:  name,
		shape: shape.Clone(),
		value: value,
	}
}

// Name returns the parameter name (e.g. "weight", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Shape returns the logical shape of the parameter.
func (p *Parameter) Shape() tensor.Shape {
	return p.shape
}

// Value returns the parameter matrix. Mutating it mutates the model.
func (p *Parameter) Value() *mat.Dense {
	return p.value
}

// Grad returns the accumulated gradient, or nil if none has been recorded
// since the last ZeroGrad.
func (p *Parameter) Grad() *mat.Dense {
	return p.grad
}

// AccumulateGrad adds delta into the parameter gradient.
//
// The gradient buffer is allocated lazily on the first call after a zeroing.
func (p *Parameter) AccumulateGrad(delta *mat.Dense) {
	if p.grad == nil {
		r, c := p.value.Dims()
		p.grad = mat.NewDense(r, c, nil)
	}
	p.grad.Add(p.grad, delta)
}

// ZeroGrad clears the accumulated gradient.
//
// This must be called before each training step to avoid cross-batch
// accumulation.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}

// Raw returns a snapshot of the parameter value with its logical shape.
func (p *Parameter) Raw() *tensor.RawTensor {
	if len(p.shape) == 1 {
		raw, err := tensor.FromDenseVector(p.value)
		if err != nil {
			panic(fmt.Sprintf("Parameter %q: %v", p.name, err))
		}
		return raw
	}
	return tensor.FromDense(p.value)
}

// SetFromRaw copies values from raw into the parameter.
//
// Returns a *ShapeMismatchError if the raw shape disagrees with the
// parameter's logical shape. The parameter is not mutated on error.
func (p *Parameter) SetFromRaw(raw *tensor.RawTensor) error {
	if !raw.Shape().Equal(p.shape) {
		return &ShapeMismatchError{
			Param: p.name,
			Want:  p.shape.Clone(),
			Got:   raw.Shape().Clone(),
		}
	}
	rows, cols := p.value.Dims()
	data := raw.Data()
	for i := 0; i < rows; i++ {
		copy(p.value.RawRowView(i), data[i*cols:(i+1)*cols])
	}
	return nil
}
