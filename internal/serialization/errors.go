package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic        = errors.New("invalid magic bytes")
	ErrUnsupportedVersion  = errors.New("unsupported format version")
	ErrChecksumMismatch    = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge      = errors.New("header exceeds maximum size")
	ErrTruncatedFile       = errors.New("file truncated")
	ErrUnsupportedDType    = errors.New("unsupported tensor dtype")
	ErrMissingArchitecture = errors.New("header missing architecture block")
	ErrTooManyTensors      = errors.New("too many tensors in file")
	ErrTensorNameTooLong   = errors.New("tensor name too long")
	ErrInvalidTensorName   = errors.New("invalid tensor name")
	ErrNegativeOffset      = errors.New("negative offset or size")
	ErrOutOfBounds         = errors.New("tensor extends beyond data section")
	ErrOffsetOverlap       = errors.New("tensor offsets overlap")
)

// ValidationError provides detailed information about tensor metadata
// validation failures.
type ValidationError struct {
	Err     error  // Sentinel error categorizing the failure
	Tensor  string // Primary tensor name involved
	Tensor2 string // Secondary tensor name (for overlap errors)
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor2 != "" {
		return fmt.Sprintf("%v: tensors %q and %q: %s", e.Err, e.Tensor, e.Tensor2, e.Details)
	}
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap exposes the sentinel error for errors.Is checks.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
