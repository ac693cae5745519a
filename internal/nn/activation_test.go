package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestReLUForward tests the ReLU forward pass.
func TestReLUForward(t *testing.T) {
	relu := NewReLU()
	input := mat.NewDense(1, 5, []float64{-2, -0.5, 0, 0.5, 2})
	output := relu.Forward(input)

	want := []float64{0, 0, 0, 0.5, 2}
	for j, w := range want {
		if got := output.At(0, j); got != w {
			t.Errorf("ReLU(%v) = %v, want %v", input.At(0, j), got, w)
		}
	}
}

// TestReLUBackward verifies the gradient passes only where input > 0.
func TestReLUBackward(t *testing.T) {
	relu := NewReLU()
	input := mat.NewDense(1, 4, []float64{-1, 0, 1, 2})
	relu.Forward(input)

	grad := mat.NewDense(1, 4, []float64{10, 10, 10, 10})
	out := relu.Backward(grad)

	want := []float64{0, 0, 10, 10}
	for j, w := range want {
		if got := out.At(0, j); got != w {
			t.Errorf("grad[%d] = %v, want %v", j, got, w)
		}
	}
}

// TestSigmoidForward checks σ against hand-computed values.
func TestSigmoidForward(t *testing.T) {
	sigmoid := NewSigmoid()
	input := mat.NewDense(1, 3, []float64{-2, 0, 2})
	output := sigmoid.Forward(input)

	// σ(-2) ≈ 0.1192, σ(0) = 0.5, σ(2) ≈ 0.8808
	want := []float64{0.1192, 0.5, 0.8808}
	for j, w := range want {
		if got := output.At(0, j); math.Abs(got-w) > 1e-3 {
			t.Errorf("σ(%v) = %v, want %v", input.At(0, j), got, w)
		}
	}
}

// TestSigmoidBackward checks σ'(0) = 0.25.
func TestSigmoidBackward(t *testing.T) {
	sigmoid := NewSigmoid()
	sigmoid.Forward(mat.NewDense(1, 1, []float64{0}))
	out := sigmoid.Backward(mat.NewDense(1, 1, []float64{1}))
	if got := out.At(0, 0); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("σ'(0) = %v, want 0.25", got)
	}
}

// TestTanhForward checks tanh against the standard library.
func TestTanhForward(t *testing.T) {
	tanh := NewTanh()
	input := mat.NewDense(1, 3, []float64{-1, 0, 1})
	output := tanh.Forward(input)

	for j := 0; j < 3; j++ {
		want := math.Tanh(input.At(0, j))
		if got := output.At(0, j); math.Abs(got-want) > 1e-12 {
			t.Errorf("tanh(%v) = %v, want %v", input.At(0, j), got, want)
		}
	}
}

// TestTanhBackward checks the gradient 1 - tanh²(x) at x = 1.
func TestTanhBackward(t *testing.T) {
	tanh := NewTanh()
	tanh.Forward(mat.NewDense(1, 1, []float64{1}))
	out := tanh.Backward(mat.NewDense(1, 1, []float64{1}))

	y := math.Tanh(1)
	want := 1 - y*y
	if got := out.At(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("tanh'(1) = %v, want %v", got, want)
	}
}

func TestActivationsHaveNoParameters(t *testing.T) {
	if NewReLU().Parameters() != nil {
		t.Error("ReLU should have no parameters")
	}
	if NewSigmoid().Parameters() != nil {
		t.Error("Sigmoid should have no parameters")
	}
	if NewTanh().Parameters() != nil {
		t.Error("Tanh should have no parameters")
	}
}
