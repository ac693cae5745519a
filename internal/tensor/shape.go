package tensor

import (
	"fmt"
	"strings"
)

// Shape describes the dimensions of a tensor.
//
// A weight matrix of a 784→128 layer has Shape{128, 784}; its bias has
// Shape{128}.
type Shape []int

// NumElements returns the total number of elements implied by the shape.
//
// An empty shape has zero elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, dim := range s {
		if dim != other[i] {
			return false
		}
	}
	return true
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	if len(s) == 0 {
		return false
	}
	for _, dim := range s {
		if dim <= 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// String renders the shape as "[d0 d1 ...]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprintf("%d", dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
