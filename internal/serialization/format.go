package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "PCPT"
	FormatVersion   = 1
	FixedHeaderSize = 64   // fixed header is 0x40 bytes
	HeaderAlignment = 64   // data section starts on a 64-byte boundary
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum position within the fixed header
)

// Data type string constants. Only float64 payloads exist today; the field
// is recorded per tensor so the format can grow without a version bump.
const (
	DTypeFloat64 = "float64"
)

// Flags for the .pcpt format.
const (
	FlagHasOptimizer uint32 = 1 << 0 // optimizer state included
	FlagHasMetadata  uint32 = 1 << 1 // custom metadata included
)

// Validation limits.
const (
	MaxHeaderSize = 64 << 20 // JSON header larger than this is rejected
	MaxTensors    = 65536
	MaxNameLength = 256
)

// Header is the JSON header of a .pcpt file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	PerceptVersion string            `json:"percept_version"` // library version that wrote the file
	ModelType      string            `json:"model_type"`      // e.g. "Classifier"
	CreatedAt      time.Time         `json:"created_at"`
	Architecture   *Architecture     `json:"architecture,omitempty"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Checkpoint     *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// Architecture captures enough of a model configuration to reconstruct an
// architecture-compatible model on load.
type Architecture struct {
	InputSize    int     `json:"input_size"`
	OutputSize   int     `json:"output_size"`
	HiddenLayers []int   `json:"hidden_layers"`
	Dropout      float64 `json:"dropout"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch         int               `json:"epoch"`
	Step          int64             `json:"step"`
	Loss          float64           `json:"loss"`
	OptimizerType string            `json:"optimizer_type,omitempty"`
	LearningRate  float64           `json:"learning_rate,omitempty"`
	TrainingMeta  map[string]string `json:"training_meta,omitempty"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "layers.0.weight"
	DType  string `json:"dtype"`  // "float64"
	Shape  []int  `json:"shape"`  // logical shape
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // payload size in bytes
}
