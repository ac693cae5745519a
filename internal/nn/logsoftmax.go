package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogSoftmax converts logits into log-probabilities row by row.
//
// Uses the log-sum-exp trick for numerical stability:
//
//	LogSoftmax(z)[i] = z[i] - (max(z) + log(Σ exp(z - max(z))))
//
// The softmax probabilities are cached for the backward pass.
type LogSoftmax struct {
	lastProbs *mat.Dense // softmax(z), cached by Forward
}

// NewLogSoftmax creates a new LogSoftmax module.
func NewLogSoftmax() *LogSoftmax {
	return &LogSoftmax{}
}

// Forward computes row-wise log-probabilities from logits.
func (l *LogSoftmax) Forward(input *mat.Dense) *mat.Dense {
	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)
	probs := mat.NewDense(rows, cols, nil)

	for i := 0; i < rows; i++ {
		logits := input.RawRowView(i)
		logProbs := output.RawRowView(i)
		probRow := probs.RawRowView(i)

		maxZ := logits[0]
		for _, z := range logits[1:] {
			if z > maxZ {
				maxZ = z
			}
		}

		sumExp := 0.0
		for _, z := range logits {
			sumExp += math.Exp(z - maxZ)
		}
		logSumExp := maxZ + math.Log(sumExp)

		for j, z := range logits {
			logProbs[j] = z - logSumExp
			probRow[j] = math.Exp(logProbs[j])
		}
	}

	l.lastProbs = probs
	return output
}

// Backward propagates the gradient through the log-softmax.
//
// For each row, with upstream gradient g and cached probabilities p:
//
//	∂L/∂z[j] = g[j] - p[j] * Σ_k g[k]
func (l *LogSoftmax) Backward(grad *mat.Dense) *mat.Dense {
	if l.lastProbs == nil {
		panic("LogSoftmax.Backward: no cached probabilities; call Forward first")
	}
	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		gRow := grad.RawRowView(i)
		pRow := l.lastProbs.RawRowView(i)
		oRow := out.RawRowView(i)

		gSum := 0.0
		for _, g := range gRow {
			gSum += g
		}
		for j := range oRow {
			oRow[j] = gRow[j] - pRow[j]*gSum
		}
	}
	return out
}

// Parameters returns nil (LogSoftmax has no trainable parameters).
func (l *LogSoftmax) Parameters() []*Parameter {
	return nil
}
