package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function f(x) = max(0, x). The mask of positive
// inputs is cached by Forward and reused during Backward.
type ReLU struct {
	lastInput *mat.Dense
}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(input *mat.Dense) *mat.Dense {
	r.lastInput = input
	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, input)
	return output
}

// Backward passes the gradient through where the input was positive.
func (r *ReLU) Backward(grad *mat.Dense) *mat.Dense {
	if r.lastInput == nil {
		panic("ReLU.Backward: no cached input; call Forward first")
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, g float64) float64 {
		if r.lastInput.At(i, j) > 0 {
			return g
		}
		return 0
	}, grad)
	return out
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies σ(x) = 1 / (1 + exp(-x)). The output is cached for the backward
// pass, which uses σ'(x) = σ(x)(1 - σ(x)).
type Sigmoid struct {
	lastOutput *mat.Dense
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
func (s *Sigmoid) Forward(input *mat.Dense) *mat.Dense {
	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	}, input)
	s.lastOutput = output
	return output
}

// Backward scales the gradient by σ(x)(1 - σ(x)).
func (s *Sigmoid) Backward(grad *mat.Dense) *mat.Dense {
	if s.lastOutput == nil {
		panic("Sigmoid.Backward: no cached output; call Forward first")
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, g float64) float64 {
		y := s.lastOutput.At(i, j)
		return g * y * (1 - y)
	}, grad)
	return out
}

// Parameters returns nil (Sigmoid has no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
//
// Squashes values to (-1, 1); zero-centered, which can help optimization.
type Tanh struct {
	lastOutput *mat.Dense
}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh activation.
func (t *Tanh) Forward(input *mat.Dense) *mat.Dense {
	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return math.Tanh(v)
	}, input)
	t.lastOutput = output
	return output
}

// Backward scales the gradient by 1 - tanh(x)².
func (t *Tanh) Backward(grad *mat.Dense) *mat.Dense {
	if t.lastOutput == nil {
		panic("Tanh.Backward: no cached output; call Forward first")
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, g float64) float64 {
		y := t.lastOutput.At(i, j)
		return g * (1 - y*y)
	}, grad)
	return out
}

// Parameters returns nil (Tanh has no trainable parameters).
func (t *Tanh) Parameters() []*Parameter {
	return nil
}
