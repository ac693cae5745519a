package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestLogSoftmaxNormalization verifies every row's probabilities sum to 1.
func TestLogSoftmaxNormalization(t *testing.T) {
	ls := NewLogSoftmax()
	input := mat.NewDense(2, 4, []float64{
		1, 2, 3, 4,
		-10, 0, 10, 20,
	})
	output := ls.Forward(input)

	for i := 0; i < 2; i++ {
		sum := 0.0
		for _, lp := range output.RawRowView(i) {
			if lp > 0 {
				t.Errorf("log-probability %v > 0 in row %d", lp, i)
			}
			sum += math.Exp(lp)
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("row %d probabilities sum to %v, want 1", i, sum)
		}
	}
}

// TestLogSoftmaxUniform checks the uniform case: equal logits give
// log(1/n) everywhere.
func TestLogSoftmaxUniform(t *testing.T) {
	ls := NewLogSoftmax()
	output := ls.Forward(mat.NewDense(1, 4, []float64{3, 3, 3, 3}))

	want := math.Log(0.25)
	for j := 0; j < 4; j++ {
		if got := output.At(0, j); math.Abs(got-want) > 1e-12 {
			t.Errorf("log-prob[%d] = %v, want %v", j, got, want)
		}
	}
}

// TestLogSoftmaxStability feeds large logits that would overflow a naive
// implementation.
func TestLogSoftmaxStability(t *testing.T) {
	ls := NewLogSoftmax()
	output := ls.Forward(mat.NewDense(1, 2, []float64{1000, 1000}))

	want := math.Log(0.5)
	for j := 0; j < 2; j++ {
		got := output.At(0, j)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("log-prob[%d] = %v, not finite", j, got)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("log-prob[%d] = %v, want %v", j, got, want)
		}
	}
}

// TestLogSoftmaxBackwardWithNLL checks the classic identity: the gradient
// of NLL through LogSoftmax at the logits is (softmax(z) - one_hot)/B.
func TestLogSoftmaxBackwardWithNLL(t *testing.T) {
	ls := NewLogSoftmax()
	logits := mat.NewDense(1, 3, []float64{1, 2, 3})
	logProbs := ls.Forward(logits)

	criterion := NewNLLLoss()
	criterion.Forward(logProbs, []int{0})
	gradLogits := ls.Backward(criterion.Backward())

	// softmax([1 2 3]) with target 0: grad = p - [1 0 0]
	sum := math.Exp(1) + math.Exp(2) + math.Exp(3)
	want := []float64{math.Exp(1)/sum - 1, math.Exp(2) / sum, math.Exp(3) / sum}
	for j, w := range want {
		if got := gradLogits.At(0, j); math.Abs(got-w) > 1e-12 {
			t.Errorf("grad[%d] = %v, want %v", j, got, w)
		}
	}
}
