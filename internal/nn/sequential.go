package nn

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input; Backward runs the
// chain in reverse. State-dict keys are prefixed with the module index
// ("0.weight", "3.bias", ...) so that parameterless modules keep the
// numbering stable.
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *mat.Dense) *mat.Dense {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Backward propagates the gradient through all modules in reverse order.
func (s *Sequential) Backward(grad *mat.Dense) *mat.Dense {
	for i := len(s.modules) - 1; i >= 0; i-- {
		grad = s.modules[i].Backward(grad)
	}
	return grad
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// SetTraining propagates the training mode to every module that cares.
func (s *Sequential) SetTraining(training bool) {
	for _, module := range s.modules {
		if t, ok := module.(Trainable); ok {
			t.SetTraining(training)
		}
	}
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns a map of parameter names to value snapshots.
//
// Keys are prefixed with the module index, e.g. "0.weight", "0.bias".
func (s *Sequential) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		sm, ok := module.(StateModule)
		if !ok {
			continue
		}
		for name, raw := range sm.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = raw
		}
	}
	return stateDict
}

// LoadStateDict copies parameter values from a state dictionary.
//
// Shape mismatches surface as *ShapeMismatchError with the index-qualified
// parameter name. Keys whose index prefix matches no stateful module fail
// with ErrUnexpectedKey; loading is all-or-nothing over the dictionary.
func (s *Sequential) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	consumed := make(map[string]bool, len(stateDict))
	for i, module := range s.modules {
		sm, ok := module.(StateModule)
		if !ok {
			continue
		}

		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*tensor.RawTensor)
		for key, raw := range stateDict {
			if strings.HasPrefix(key, prefix) {
				moduleStateDict[strings.TrimPrefix(key, prefix)] = raw
				consumed[key] = true
			}
		}

		if err := sm.LoadStateDict(moduleStateDict); err != nil {
			var sme *ShapeMismatchError
			if errors.As(err, &sme) {
				sme.Param = prefix + sme.Param
				return sme
			}
			return fmt.Errorf("module %d: %w", i, err)
		}
	}

	var unknown []string
	for key := range stateDict {
		if !consumed[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %q", ErrUnexpectedKey, unknown[0])
	}
	return nil
}
