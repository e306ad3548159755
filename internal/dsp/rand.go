package dsp

import (
	"math"
	"math/rand"
)

// RandNC draws n samples from a circularly-symmetric complex Gaussian
// distribution with unit average power: real and imaginary parts are
// independent, zero-mean, with variance 1/2 each.
func RandNC(rng *rand.Rand, n int) []complex128 {
	out := make([]complex128, n)
	scale := 1 / math.Sqrt2
	for i := range out {
		out[i] = complex(rng.NormFloat64()*scale, rng.NormFloat64()*scale)
	}
	return out
}
