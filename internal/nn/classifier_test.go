package nn

import (
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/percept-ml/percept/internal/tensor"
)

func TestClassifierParameterCount(t *testing.T) {
	tests := []struct {
		name   string
		hidden []int
	}{
		{"no hidden layers", nil},
		{"one hidden layer", []int{16}},
		{"three hidden layers", []int{32, 16, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewClassifier(Config{
				InputSize:   4,
				OutputSize:  3,
				HiddenSizes: tt.hidden,
			})
			if err != nil {
				t.Fatalf("NewClassifier: %v", err)
			}
			// One weight and one bias per affine layer.
			want := 2 * (len(tt.hidden) + 1)
			if got := len(model.Parameters()); got != want {
				t.Errorf("parameter count = %d, want %d", got, want)
			}
		})
	}
}

func TestClassifierConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero input", Config{InputSize: 0, OutputSize: 2}},
		{"negative output", Config{InputSize: 2, OutputSize: -1}},
		{"zero hidden width", Config{InputSize: 2, OutputSize: 2, HiddenSizes: []int{8, 0}}},
		{"dropout one", Config{InputSize: 2, OutputSize: 2, Dropout: 1.0}},
		{"dropout negative", Config{InputSize: 2, OutputSize: 2, Dropout: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClassifier(tt.cfg); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}

func TestClassifierForwardShape(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 5, OutputSize: 3, HiddenSizes: []int{8}})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	output := model.Forward(mat.NewDense(7, 5, nil))
	rows, cols := output.Dims()
	if rows != 7 || cols != 3 {
		t.Errorf("output dims = %dx%d, want 7x3", rows, cols)
	}
}

func TestClassifierConfigIsCopied(t *testing.T) {
	hidden := []int{8, 4}
	model, err := NewClassifier(Config{InputSize: 2, OutputSize: 2, HiddenSizes: hidden})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	hidden[0] = 999
	if model.Config().HiddenSizes[0] == 999 {
		t.Error("mutating the caller's slice changed the model configuration")
	}
}

func TestClassifierStateDictKeys(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 4, OutputSize: 2, HiddenSizes: []int{3}})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	// Layer stack: Linear(0) ReLU(1) Dropout(2) Linear(3) LogSoftmax(4).
	stateDict := model.StateDict()
	for _, key := range []string{"layers.0.weight", "layers.0.bias", "layers.3.weight", "layers.3.bias"} {
		if _, ok := stateDict[key]; !ok {
			t.Errorf("state dict missing key %q (have %d keys)", key, len(stateDict))
		}
	}
	if len(stateDict) != 4 {
		t.Errorf("state dict has %d keys, want 4", len(stateDict))
	}
}

func TestClassifierStateDictRoundTrip(t *testing.T) {
	cfg := Config{InputSize: 6, OutputSize: 3, HiddenSizes: []int{5}}
	source, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	target, err := NewClassifier(cfg)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	if err := target.LoadStateDict(source.StateDict()); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	input := mat.NewDense(2, 6, []float64{
		0.1, 0.2, 0.3, 0.4, 0.5, 0.6,
		-1, -2, -3, 1, 2, 3,
	})
	source.SetTraining(false)
	target.SetTraining(false)
	if !mat.EqualApprox(source.Forward(input), target.Forward(input), 1e-15) {
		t.Error("models disagree after loading the same state dict")
	}
}

func TestClassifierLoadStateDictShapeMismatch(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 4, OutputSize: 2, HiddenSizes: []int{3}})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	stateDict := model.StateDict()
	wrong, _ := tensor.FromSlice(make([]float64, 8), tensor.Shape{2, 4})
	stateDict["layers.0.weight"] = wrong // model expects [3 4]

	loadErr := model.LoadStateDict(stateDict)
	var sme *ShapeMismatchError
	if !errors.As(loadErr, &sme) {
		t.Fatalf("expected *ShapeMismatchError, got %v", loadErr)
	}
	if sme.Param != "layers.0.weight" {
		t.Errorf("Param = %q, want \"layers.0.weight\"", sme.Param)
	}
	if !sme.Want.Equal(tensor.Shape{3, 4}) || !sme.Got.Equal(tensor.Shape{2, 4}) {
		t.Errorf("shapes: want %v, got %v", sme.Want, sme.Got)
	}
}

func TestClassifierLoadStateDictRejectsUnknownKey(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 2, OutputSize: 2})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	stateDict := model.StateDict()
	stateDict["bogus"] = stateDict["layers.0.bias"]
	if err := model.LoadStateDict(stateDict); err == nil {
		t.Error("expected an error for an unprefixed key")
	}
}

func TestClassifierLoadStateDictRejectsUnknownLayerIndex(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 2, OutputSize: 2})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	// A key with a well-formed prefix but an index matching no layer must
	// not be silently dropped.
	stateDict := model.StateDict()
	stateDict["layers.99.weight"] = stateDict["layers.0.weight"]
	loadErr := model.LoadStateDict(stateDict)
	if !errors.Is(loadErr, ErrUnexpectedKey) {
		t.Fatalf("expected ErrUnexpectedKey, got %v", loadErr)
	}
	if !strings.Contains(loadErr.Error(), "99.weight") {
		t.Errorf("error %q does not name the offending key", loadErr)
	}
}

func TestClassifierPredict(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 2, OutputSize: 2})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	// Make class 1 win iff x0 > x1 by pinning the final layer.
	wRaw, _ := tensor.FromSlice([]float64{0, 1, 1, 0}, tensor.Shape{2, 2})
	bRaw, _ := tensor.FromSlice([]float64{0, 0}, tensor.Shape{2})
	if err := model.LoadStateDict(map[string]*tensor.RawTensor{
		"layers.0.weight": wRaw,
		"layers.0.bias":   bRaw,
	}); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	preds := model.Predict(mat.NewDense(2, 2, []float64{
		3, 1, // class 1 scores x0=3
		1, 3, // class 0 scores x1=3
	}))
	if preds[0] != 1 || preds[1] != 0 {
		t.Errorf("Predict = %v, want [1 0]", preds)
	}
}

func TestClassifierZeroGrad(t *testing.T) {
	model, err := NewClassifier(Config{InputSize: 3, OutputSize: 2, HiddenSizes: []int{4}})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	model.SetTraining(true)

	criterion := NewNLLLoss()
	logProbs := model.Forward(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	criterion.Forward(logProbs, []int{0, 1})
	model.Backward(criterion.Backward())

	recorded := 0
	for _, p := range model.Parameters() {
		if p.Grad() != nil {
			recorded++
		}
	}
	if recorded != len(model.Parameters()) {
		t.Fatalf("only %d of %d parameters received gradients", recorded, len(model.Parameters()))
	}

	model.ZeroGrad()
	for _, p := range model.Parameters() {
		if p.Grad() != nil {
			t.Fatal("ZeroGrad left a non-nil gradient")
		}
	}
}
