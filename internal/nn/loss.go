package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NLLLoss computes the negative log-likelihood loss for classification.
//
// It expects log-probabilities (the output of LogSoftmax) and integer class
// labels, and averages over the batch:
//
//	Loss = -(1/B) Σ_b log_probs[b][target[b]]
//
// Paired with LogSoftmax, the combined gradient reaching the final Linear
// layer is the familiar softmax(z) - one_hot(target), scaled by 1/B.
type NLLLoss struct {
	lastLogProbs *mat.Dense
	lastTargets  []int
}

// NewNLLLoss creates a new negative log-likelihood loss.
func NewNLLLoss() *NLLLoss {
	return &NLLLoss{}
}

// Forward computes the mean NLL of logProbs against targets.
//
// logProbs has shape [batch_size, num_classes]; targets holds one class
// index per row. Panics on a batch size mismatch or an out-of-range label.
func (n *NLLLoss) Forward(logProbs *mat.Dense, targets []int) float64 {
	batch, classes := logProbs.Dims()
	if len(targets) != batch {
		panic(fmt.Sprintf("NLLLoss: %d targets for batch of %d", len(targets), batch))
	}

	total := 0.0
	for b, target := range targets {
		if target < 0 || target >= classes {
			panic(fmt.Sprintf("NLLLoss: target %d out of range [0, %d)", target, classes))
		}
		total -= logProbs.At(b, target)
	}

	n.lastLogProbs = logProbs
	n.lastTargets = targets
	return total / float64(batch)
}

// Backward returns the gradient of the loss with respect to the
// log-probabilities: -1/B at each target index, zero elsewhere.
func (n *NLLLoss) Backward() *mat.Dense {
	if n.lastLogProbs == nil {
		panic("NLLLoss.Backward: no cached forward pass")
	}
	batch, classes := n.lastLogProbs.Dims()
	grad := mat.NewDense(batch, classes, nil)
	inv := 1.0 / float64(batch)
	for b, target := range n.lastTargets {
		grad.Set(b, target, -inv)
	}
	return grad
}

// Accuracy returns the fraction of rows whose argmax matches the label.
//
// Returns 1.0 when every prediction matches and 0.0 when none do.
func Accuracy(logProbs *mat.Dense, targets []int) float64 {
	batch, _ := logProbs.Dims()
	if len(targets) != batch {
		panic(fmt.Sprintf("Accuracy: %d targets for batch of %d", len(targets), batch))
	}
	correct := 0
	for b, target := range targets {
		if argmax(logProbs.RawRowView(b)) == target {
			correct++
		}
	}
	return float64(correct) / float64(batch)
}

// argmax returns the index of the maximum value in the slice.
func argmax(row []float64) int {
	maxIdx := 0
	maxVal := row[0]
	for i, v := range row[1:] {
		if v > maxVal {
			maxVal = v
			maxIdx = i + 1
		}
	}
	return maxIdx
}
