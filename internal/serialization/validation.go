package serialization

import (
	"fmt"
	"sort"
	"unicode"
)

// ValidateTensors checks tensor metadata against the data section size.
//
// Rejects negative offsets or sizes, out-of-bounds payloads, overlapping
// payloads, duplicate or malformed names, size/shape disagreements, and
// absurd tensor counts. Called by the reader before any payload is decoded.
func ValidateTensors(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensors {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("%d tensors, limit %d", len(tensors), MaxTensors),
		}
	}

	seen := make(map[string]bool, len(tensors))
	for _, t := range tensors {
		if err := validateName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] {
			return &ValidationError{
				Err:     ErrInvalidTensorName,
				Tensor:  t.Name,
				Details: "duplicate tensor name",
			}
		}
		seen[t.Name] = true

		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d size=%d", t.Offset, t.Size),
			}
		}
		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d size=%d data section=%d bytes", t.Offset, t.Size, dataSize),
			}
		}

		elements := int64(1)
		for _, dim := range t.Shape {
			if dim <= 0 {
				return &ValidationError{
					Err:     ErrOutOfBounds,
					Tensor:  t.Name,
					Details: fmt.Sprintf("non-positive dimension in shape %v", t.Shape),
				}
			}
			elements *= int64(dim)
		}
		if t.Size != elements*8 {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("size %d does not match shape %v (%d float64 elements)", t.Size, t.Shape, elements),
			}
		}
	}

	// Overlap check: sort by offset, then each tensor must end before the
	// next begins.
	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Size > cur.Offset {
			return &ValidationError{
				Err:     ErrOffsetOverlap,
				Tensor:  prev.Name,
				Tensor2: cur.Name,
				Details: fmt.Sprintf("[%d,%d) overlaps [%d,%d)", prev.Offset, prev.Offset+prev.Size, cur.Offset, cur.Offset+cur.Size),
			}
		}
	}

	return nil
}

// validateName rejects empty, oversized, or control-character names.
func validateName(name string) error {
	if name == "" {
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty tensor name"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{
			Err:     ErrTensorNameTooLong,
			Tensor:  name[:16] + "...",
			Details: fmt.Sprintf("%d bytes, limit %d", len(name), MaxNameLength),
		}
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return &ValidationError{
				Err:     ErrInvalidTensorName,
				Tensor:  name,
				Details: "control character in tensor name",
			}
		}
	}
	return nil
}
