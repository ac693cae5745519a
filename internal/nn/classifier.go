package nn

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Config describes a Classifier architecture.
//
// The configuration is immutable after construction; a model built from a
// Config carries a copy and exposes it via Classifier.Config, so checkpoints
// can reconstruct an architecture-compatible model without any runtime
// introspection of the layer stack.
type Config struct {
	InputSize   int     // Flattened feature count per sample
	OutputSize  int     // Number of classes
	HiddenSizes []int   // Ordered hidden layer widths
	Dropout     float64 // Drop probability between hidden layers, in [0, 1)
}

// Validate checks the configuration.
//
// Every width must be positive and the dropout probability must lie in
// [0, 1).
func (c Config) Validate() error {
	if c.InputSize <= 0 {
		return fmt.Errorf("config: input size must be positive, got %d", c.InputSize)
	}
	if c.OutputSize <= 0 {
		return fmt.Errorf("config: output size must be positive, got %d", c.OutputSize)
	}
	for i, h := range c.HiddenSizes {
		if h <= 0 {
			return fmt.Errorf("config: hidden layer %d width must be positive, got %d", i, h)
		}
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("config: dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

// clone returns a deep copy so the model owns its configuration.
func (c Config) clone() Config {
	out := c
	out.HiddenSizes = make([]int, len(c.HiddenSizes))
	copy(out.HiddenSizes, c.HiddenSizes)
	return out
}

// Classifier is a configurable multi-layer perceptron for classification.
//
// Architecture: Linear(input→h1) → ReLU → Dropout → ... →
// Linear(h_last→output) → LogSoftmax. Forward produces log-probabilities;
// pair it with NLLLoss for training.
type Classifier struct {
	cfg Config
	seq *Sequential
}

// NewClassifier builds a Classifier from a configuration.
//
// Fails with a configuration error if any width is non-positive or the
// dropout probability is out of range.
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seq := NewSequential()
	in := cfg.InputSize
	for _, hidden := range cfg.HiddenSizes {
		seq.Add(NewLinear(in, hidden))
		seq.Add(NewReLU())
		seq.Add(NewDropout(cfg.Dropout))
		in = hidden
	}
	seq.Add(NewLinear(in, cfg.OutputSize))
	seq.Add(NewLogSoftmax())

	return &Classifier{cfg: cfg.clone(), seq: seq}, nil
}

// Config returns a copy of the model configuration.
func (m *Classifier) Config() Config {
	return m.cfg.clone()
}

// Forward computes log-probabilities for a batch.
//
// Input shape: [batch_size, input_size]. Panics on a feature-count mismatch;
// the training layer validates batches and returns errors before calling
// into the model.
func (m *Classifier) Forward(input *mat.Dense) *mat.Dense {
	_, features := input.Dims()
	if features != m.cfg.InputSize {
		panic(fmt.Sprintf("Classifier.Forward: expected %d features, got %d",
			m.cfg.InputSize, features))
	}
	return m.seq.Forward(input)
}

// Backward propagates the loss gradient through the layer stack,
// accumulating parameter gradients.
func (m *Classifier) Backward(grad *mat.Dense) *mat.Dense {
	return m.seq.Backward(grad)
}

// Parameters returns all trainable parameters.
//
// The count is always 2 × (len(HiddenSizes) + 1): one weight and one bias
// per affine layer.
func (m *Classifier) Parameters() []*Parameter {
	return m.seq.Parameters()
}

// SetTraining switches dropout between masking and pass-through.
func (m *Classifier) SetTraining(training bool) {
	m.seq.SetTraining(training)
}

// ZeroGrad clears the accumulated gradient of every parameter.
func (m *Classifier) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// Predict returns the argmax class index for each row of the input.
func (m *Classifier) Predict(input *mat.Dense) []int {
	m.SetTraining(false)
	logProbs := m.Forward(input)
	rows, _ := logProbs.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		out[i] = argmax(logProbs.RawRowView(i))
	}
	return out
}

// StateDict returns snapshots of all parameter values.
//
// Keys follow the "layers.{index}.{name}" convention, where index is the
// position in the layer stack (activations and dropout keep the numbering
// stable but contribute no entries).
func (m *Classifier) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for key, raw := range m.seq.StateDict() {
		stateDict["layers."+key] = raw
	}
	return stateDict
}

// LoadStateDict copies parameter values into the model.
//
// Every model parameter must be present with a matching shape; a mismatch
// surfaces as a *ShapeMismatchError carrying the fully qualified name. The
// model may be partially mutated on error, so callers loading checkpoints
// construct a fresh model first.
func (m *Classifier) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	inner := make(map[string]*tensor.RawTensor, len(stateDict))
	for key, raw := range stateDict {
		if !strings.HasPrefix(key, "layers.") {
			return fmt.Errorf("%w: %q", ErrUnexpectedKey, key)
		}
		inner[strings.TrimPrefix(key, "layers.")] = raw
	}

	if err := m.seq.LoadStateDict(inner); err != nil {
		var sme *ShapeMismatchError
		if errors.As(err, &sme) {
			sme.Param = "layers." + sme.Param
			return sme
		}
		return err
	}
	return nil
}
