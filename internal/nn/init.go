package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Xavier (Glorot) initialization for weight matrices.
//
// Values are drawn from a uniform distribution
// U(-sqrt(6/(fan_in+fan_out)), sqrt(6/(fan_in+fan_out))), which keeps the
// variance of activations roughly constant across layers.
func Xavier(rows, cols int) *mat.Dense {
	bound := math.Sqrt(6.0 / float64(rows+cols))
	data := make([]float64, rows*cols)
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = (rand.Float64()*2.0 - 1.0) * bound
	}
	return mat.NewDense(rows, cols, data)
}

// Zeros creates a zero-filled matrix. Used for bias initialization.
func Zeros(rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, nil)
}
