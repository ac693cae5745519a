package optim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// SGDConfig configures stochastic gradient descent.
//
// Zero values select the defaults: LR 0.01, no momentum.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum coefficient in [0, 1) (default: 0, plain SGD)
}

// SGD implements stochastic gradient descent with optional momentum.
//
// Plain SGD:
//
//	param = param - lr * grad
//
// With momentum:
//
//	velocity = momentum * velocity + grad
//	param    = param - lr * velocity
//
// Velocity buffers are allocated lazily for parameters that receive a
// gradient, keyed by parameter index for serialization.
type SGD struct {
	params   []*nn.Parameter
	lr       float64
	momentum float64
	velocity map[int]*mat.Dense
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		velocity: make(map[int]*mat.Dense),
	}
}

// Step applies one SGD update to every parameter with a gradient.
func (s *SGD) Step() {
	for i, p := range s.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}
		value := p.Value()

		update := grad
		if s.momentum > 0 {
			v, ok := s.velocity[i]
			if !ok {
				r, c := value.Dims()
				v = mat.NewDense(r, c, nil)
				s.velocity[i] = v
			}
			v.Scale(s.momentum, v)
			v.Add(v, grad)
			update = v
		}

		var scaled mat.Dense
		scaled.Scale(s.lr, update)
		value.Sub(value, &scaled)
	}
}

// ZeroGrad clears the gradients of all managed parameters.
func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		p.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR changes the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Type returns "SGD".
func (s *SGD) Type() string {
	return "SGD"
}

// StateDict returns the velocity buffers keyed as "velocity.{index}".
//
// Plain SGD has no state and returns an empty map.
func (s *SGD) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor, len(s.velocity))
	for i, v := range s.velocity {
		stateDict[fmt.Sprintf("velocity.%d", i)] = tensor.FromDense(v)
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict.
//
// Buffers for unknown parameter indices or with mismatched dimensions are
// rejected; missing buffers are fine (they are allocated lazily anyway).
func (s *SGD) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for name, raw := range stateDict {
		var index int
		if _, err := fmt.Sscanf(name, "velocity.%d", &index); err != nil {
			return fmt.Errorf("sgd: unexpected state key %q", name)
		}
		if index < 0 || index >= len(s.params) {
			return fmt.Errorf("sgd: state key %q: parameter index out of range (have %d parameters)",
				name, len(s.params))
		}

		v, err := raw.Dense()
		if err != nil {
			return fmt.Errorf("sgd: state key %q: %w", name, err)
		}
		pr, pc := s.params[index].Value().Dims()
		vr, vc := v.Dims()
		if vr != pr || vc != pc {
			return fmt.Errorf("sgd: state key %q: buffer is %dx%d, parameter is %dx%d",
				name, vr, vc, pr, pc)
		}
		s.velocity[index] = v
	}
	return nil
}
