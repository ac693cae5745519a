package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestNLLLossForward checks the mean negative log-likelihood against
// hand-computed values.
func TestNLLLossForward(t *testing.T) {
	criterion := NewNLLLoss()

	// Two samples, three classes.
	logProbs := mat.NewDense(2, 3, []float64{
		math.Log(0.7), math.Log(0.2), math.Log(0.1),
		math.Log(0.1), math.Log(0.1), math.Log(0.8),
	})
	loss := criterion.Forward(logProbs, []int{0, 2})

	want := -(math.Log(0.7) + math.Log(0.8)) / 2
	if math.Abs(loss-want) > 1e-12 {
		t.Errorf("loss = %v, want %v", loss, want)
	}
}

// TestNLLLossBackward verifies the gradient is -1/B at target indices and
// zero elsewhere.
func TestNLLLossBackward(t *testing.T) {
	criterion := NewNLLLoss()
	logProbs := mat.NewDense(2, 3, []float64{
		-1, -2, -3,
		-3, -2, -1,
	})
	criterion.Forward(logProbs, []int{1, 2})
	grad := criterion.Backward()

	want := mat.NewDense(2, 3, []float64{
		0, -0.5, 0,
		0, 0, -0.5,
	})
	if !mat.EqualApprox(grad, want, 1e-12) {
		t.Errorf("grad =\n%v\nwant\n%v", mat.Formatted(grad), mat.Formatted(want))
	}
}

func TestNLLLossPanicsOnBatchMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for target count mismatch")
		}
	}()
	NewNLLLoss().Forward(mat.NewDense(2, 3, nil), []int{0})
}

func TestNLLLossPanicsOnOutOfRangeTarget(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range label")
		}
	}()
	NewNLLLoss().Forward(mat.NewDense(1, 3, nil), []int{3})
}

// TestAccuracyBounds checks the perfect and worthless cases.
func TestAccuracyBounds(t *testing.T) {
	logProbs := mat.NewDense(2, 2, []float64{
		-0.1, -5,
		-5, -0.1,
	})

	if acc := Accuracy(logProbs, []int{0, 1}); acc != 1.0 {
		t.Errorf("all-correct accuracy = %v, want 1.0", acc)
	}
	if acc := Accuracy(logProbs, []int{1, 0}); acc != 0.0 {
		t.Errorf("all-wrong accuracy = %v, want 0.0", acc)
	}
}

func TestAccuracyMixed(t *testing.T) {
	logProbs := mat.NewDense(4, 2, []float64{
		-0.1, -5,
		-0.1, -5,
		-5, -0.1,
		-5, -0.1,
	})
	if acc := Accuracy(logProbs, []int{0, 1, 1, 0}); acc != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", acc)
	}
}
