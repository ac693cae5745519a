package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Linear implements a fully connected (affine) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// Weights use Xavier/Glorot initialization; biases start at zero.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features], held as 1×out
	lastInput   *mat.Dense // cached by Forward for the backward pass
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int) *Linear {
	weight := NewParameter("weight", Xavier(outFeatures, inFeatures),
		tensor.Shape{outFeatures, inFeatures})
	bias := NewParameter("bias", Zeros(1, outFeatures), tensor.Shape{outFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]. Panics on a shape mismatch; batch
// shape validation with error returns belongs to the training layer.
func (l *Linear) Forward(input *mat.Dense) *mat.Dense {
	batch, features := input.Dims()
	if features != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d",
			l.inFeatures, features))
	}

	l.lastInput = input

	// x @ W.T: [batch, in] @ [in, out] = [batch, out]
	output := mat.NewDense(batch, l.outFeatures, nil)
	output.Mul(input, l.weight.Value().T())

	// Broadcast bias across the batch.
	biasRow := l.bias.Value().RawRowView(0)
	for i := 0; i < batch; i++ {
		row := output.RawRowView(i)
		for j := range row {
			row[j] += biasRow[j]
		}
	}

	return output
}

// Backward accumulates parameter gradients and returns the input gradient.
//
// Given grad = ∂L/∂y with shape [batch_size, out_features]:
//
//	∂L/∂W = grad.T @ x        [out_features, in_features]
//	∂L/∂b = column sums of grad
//	∂L/∂x = grad @ W          [batch_size, in_features]
//
// No batch averaging happens here; the loss gradient is already scaled by
// 1/batch_size.
func (l *Linear) Backward(grad *mat.Dense) *mat.Dense {
	if l.lastInput == nil {
		panic("Linear.Backward: no cached input; call Forward first")
	}
	batch, out := grad.Dims()
	inBatch, _ := l.lastInput.Dims()
	if out != l.outFeatures || batch != inBatch {
		panic(fmt.Sprintf("Linear.Backward: gradient shape [%d %d] does not match output [%d %d]",
			batch, out, inBatch, l.outFeatures))
	}

	// ∂L/∂W = grad.T @ x
	gradW := mat.NewDense(l.outFeatures, l.inFeatures, nil)
	gradW.Mul(grad.T(), l.lastInput)
	l.weight.AccumulateGrad(gradW)

	// ∂L/∂b = column sums of grad
	gradB := mat.NewDense(1, l.outFeatures, nil)
	gradBRow := gradB.RawRowView(0)
	for i := 0; i < batch; i++ {
		row := grad.RawRowView(i)
		for j := range row {
			gradBRow[j] += row[j]
		}
	}
	l.bias.AccumulateGrad(gradB)

	// ∂L/∂x = grad @ W
	gradIn := mat.NewDense(batch, l.inFeatures, nil)
	gradIn.Mul(grad, l.weight.Value())
	return gradIn
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns snapshots of the weight and bias values.
func (l *Linear) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Raw(),
		"bias":   l.bias.Raw(),
	}
}

// LoadStateDict copies weight and bias values from a state dictionary.
//
// Fails with ErrMissingParameter if a key is absent and with a
// *ShapeMismatchError if a stored shape disagrees.
func (l *Linear) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	weightRaw, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("weight: %w", ErrMissingParameter)
	}
	if err := l.weight.SetFromRaw(weightRaw); err != nil {
		return err
	}

	biasRaw, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("bias: %w", ErrMissingParameter)
	}
	return l.bias.SetFromRaw(biasRaw)
}
