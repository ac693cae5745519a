package optim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/nn"
	"github.com/percept-ml/percept/internal/tensor"
)

// AdamConfig configures the Adam optimizer.
//
// Zero values select the standard defaults: LR 0.001, betas (0.9, 0.999),
// epsilon 1e-8.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Exponential decay rates for moment estimates (default: 0.9, 0.999)
	Eps   float64    // Numerical stability term (default: 1e-8)
}

// Adam implements the Adam optimizer (Kingma & Ba, 2014).
//
//	m = beta1*m + (1-beta1)*grad
//	v = beta2*v + (1-beta2)*grad^2
//	mHat = m / (1 - beta1^t)
//	vHat = v / (1 - beta2^t)
//	param = param - lr * mHat / (sqrt(vHat) + eps)
//
// Moment buffers are allocated lazily per parameter. The step count t is
// shared across parameters and is part of the serialized state so bias
// correction continues correctly after a resume.
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	step   int64
	m      map[int]*mat.Dense
	v      map[int]*mat.Dense
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas == [2]float64{} {
		config.Betas = [2]float64{0.9, 0.999}
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[int]*mat.Dense),
		v:      make(map[int]*mat.Dense),
	}
}

// Step applies one Adam update to every parameter with a gradient.
func (a *Adam) Step() {
	a.step++
	biasCorr1 := 1 - math.Pow(a.beta1, float64(a.step))
	biasCorr2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, p := range a.params {
		grad := p.Grad()
		if grad == nil {
			continue
		}
		value := p.Value()
		rows, cols := value.Dims()

		m, ok := a.m[i]
		if !ok {
			m = mat.NewDense(rows, cols, nil)
			a.m[i] = m
		}
		v, ok := a.v[i]
		if !ok {
			v = mat.NewDense(rows, cols, nil)
			a.v[i] = v
		}

		mData := m.RawMatrix().Data
		vData := v.RawMatrix().Data
		gData := grad.RawMatrix().Data
		pData := value.RawMatrix().Data
		for j := range pData {
			g := gData[j]
			mData[j] = a.beta1*mData[j] + (1-a.beta1)*g
			vData[j] = a.beta2*vData[j] + (1-a.beta2)*g*g

			mHat := mData[j] / biasCorr1
			vHat := vData[j] / biasCorr2
			pData[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears the gradients of all managed parameters.
func (a *Adam) ZeroGrad() {
	for _, p := range a.params {
		p.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR changes the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// Type returns "Adam".
func (a *Adam) Type() string {
	return "Adam"
}

// StateDict returns the moment buffers and step count.
//
// Keys are "m.{index}", "v.{index}" and "step" (a single-element tensor).
func (a *Adam) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor, len(a.m)+len(a.v)+1)
	for i, m := range a.m {
		stateDict[fmt.Sprintf("m.%d", i)] = tensor.FromDense(m)
	}
	for i, v := range a.v {
		stateDict[fmt.Sprintf("v.%d", i)] = tensor.FromDense(v)
	}

	step, err := tensor.FromSlice([]float64{float64(a.step)}, tensor.Shape{1})
	if err != nil {
		panic(fmt.Sprintf("Adam.StateDict: %v", err))
	}
	stateDict["step"] = step
	return stateDict
}

// LoadStateDict restores moment buffers and the step count saved by
// StateDict.
func (a *Adam) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	for name, raw := range stateDict {
		if name == "step" {
			if raw.NumElements() != 1 {
				return fmt.Errorf("adam: state key %q: expected a single element, got shape %v",
					name, raw.Shape())
			}
			a.step = int64(raw.Data()[0])
			continue
		}

		var target map[int]*mat.Dense
		switch {
		case strings.HasPrefix(name, "m."):
			target = a.m
		case strings.HasPrefix(name, "v."):
			target = a.v
		default:
			return fmt.Errorf("adam: unexpected state key %q", name)
		}

		var index int
		if _, err := fmt.Sscanf(name[2:], "%d", &index); err != nil {
			return fmt.Errorf("adam: unexpected state key %q", name)
		}
		if index < 0 || index >= len(a.params) {
			return fmt.Errorf("adam: state key %q: parameter index out of range (have %d parameters)",
				name, len(a.params))
		}

		buf, err := raw.Dense()
		if err != nil {
			return fmt.Errorf("adam: state key %q: %w", name, err)
		}
		pr, pc := a.params[index].Value().Dims()
		br, bc := buf.Dims()
		if br != pr || bc != pc {
			return fmt.Errorf("adam: state key %q: buffer is %dx%d, parameter is %dx%d",
				name, br, bc, pr, pc)
		}
		target[index] = buf
	}
	return nil
}
