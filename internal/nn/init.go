package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/mlp/internal/matrix"
)

// HeUniform fills m with He-scaled uniform values:
//
//	w = sqrt(1/fanIn) * (U(0,1)*2 - 1)
//
// so every value lies in [-sqrt(1/fanIn), sqrt(1/fanIn)]. Values are drawn
// in row-major order from rng, which the caller seeds explicitly.
func HeUniform(m *matrix.Matrix, fanIn int, rng *rand.Rand) {
	scale := math.Sqrt(1.0 / float64(fanIn))

	data := m.Data()
	for i := range data {
		data[i] = scale * (rng.Float64()*2.0 - 1.0)
	}
}

// NewRand returns a deterministic random source for seed.
//
//nolint:gosec // Weight initialization is not security-critical.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
