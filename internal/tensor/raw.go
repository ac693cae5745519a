package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// RawTensor is a shape-annotated flat float64 buffer.
//
// It is the interchange type between the nn layer (which computes on gonum
// matrices) and the serialization layer (which reads and writes flat arrays).
// The buffer is stored in row-major order.
type RawTensor struct {
	shape Shape
	data  []float64
}

// NewRaw creates a zero-filled tensor with the given shape.
//
// Returns an error if any dimension is non-positive.
func NewRaw(shape Shape) (*RawTensor, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("tensor: invalid shape %v", shape)
	}
	return &RawTensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}, nil
}

// FromSlice creates a tensor that takes ownership of data.
//
// Returns an error if the element count does not match the shape.
func FromSlice(data []float64, shape Shape) (*RawTensor, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("tensor: invalid shape %v", shape)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	return &RawTensor{shape: shape.Clone(), data: data}, nil
}

// FromDense copies a gonum matrix into a new 2-D tensor.
func FromDense(m *mat.Dense) *RawTensor {
	rows, cols := m.Dims()
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		copy(data[i*cols:(i+1)*cols], m.RawRowView(i))
	}
	return &RawTensor{shape: Shape{rows, cols}, data: data}
}

// FromDenseVector copies a single-row gonum matrix into a new 1-D tensor.
//
// This is used for bias parameters, which are logically vectors but held as
// 1×n matrices for gonum arithmetic.
func FromDenseVector(m *mat.Dense) (*RawTensor, error) {
	rows, cols := m.Dims()
	if rows != 1 {
		return nil, fmt.Errorf("tensor: expected single-row matrix for vector, got %d rows", rows)
	}
	data := make([]float64, cols)
	copy(data, m.RawRowView(0))
	return &RawTensor{shape: Shape{cols}, data: data}, nil
}

// Shape returns the tensor shape. Callers must not mutate it.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Data returns the underlying buffer. Callers must not resize it.
func (r *RawTensor) Data() []float64 {
	return r.data
}

// NumElements returns the number of elements in the tensor.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float64, len(r.data))
	copy(data, r.data)
	return &RawTensor{shape: r.shape.Clone(), data: data}
}

// Dense converts a 2-D tensor into a gonum matrix, copying the buffer.
//
// A 1-D tensor of n elements converts to a 1×n matrix, mirroring how bias
// vectors are carried during computation.
func (r *RawTensor) Dense() (*mat.Dense, error) {
	switch len(r.shape) {
	case 1:
		data := make([]float64, len(r.data))
		copy(data, r.data)
		return mat.NewDense(1, r.shape[0], data), nil
	case 2:
		data := make([]float64, len(r.data))
		copy(data, r.data)
		return mat.NewDense(r.shape[0], r.shape[1], data), nil
	default:
		return nil, fmt.Errorf("tensor: cannot convert shape %v to matrix", r.shape)
	}
}
