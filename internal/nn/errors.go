package nn

import (
	"errors"
	"fmt"

	"github.com/percept-ml/percept/internal/tensor"
)

// Common errors.
var (
	ErrMissingParameter = errors.New("parameter missing from state dict")
	ErrUnexpectedKey    = errors.New("unexpected key in state dict")
	ErrNotCheckpoint    = errors.New("file is not a checkpoint")
)

// ShapeMismatchError reports a disagreement between a stored parameter shape
// and the shape the model expects.
//
// Checkpoint loading never truncates or pads: any mismatch fails with the
// offending parameter name and both shapes.
type ShapeMismatchError struct {
	Param string       // Fully qualified parameter name (e.g. "layers.0.weight")
	Want  tensor.Shape // Shape the model expects
	Got   tensor.Shape // Shape found in the state dict
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: shape mismatch: model expects %v, checkpoint has %v",
		e.Param, e.Want, e.Got)
}
