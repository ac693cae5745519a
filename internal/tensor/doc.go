// Package tensor provides the named-array carrier used between model state
// dictionaries and the checkpoint serialization layer.
//
// A RawTensor is a shape plus a flat float64 buffer. It is a container, not a
// compute type: all arithmetic in this library happens on gonum matrices, and
// RawTensor exists so that parameters, optimizer buffers, and checkpoint
// records can describe themselves without dragging gonum types through the
// file format.
package tensor
