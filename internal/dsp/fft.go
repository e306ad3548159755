package dsp

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT wraps a fixed-size complex FFT plan so repeated transforms of the
// same length reuse the precomputed twiddle factors. Not safe for
// concurrent use.
type FFT struct {
	size int
	plan *fourier.CmplxFFT
}

// NewFFT builds a transform plan of the given size. Size must be positive.
func NewFFT(size int) *FFT {
	return &FFT{size: size, plan: fourier.NewCmplxFFT(size)}
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Forward computes the DFT of x, zero-padding it to the plan size when it
// is shorter. Inputs longer than the plan size are truncated.
func (f *FFT) Forward(x []complex128) []complex128 {
	padded := make([]complex128, f.size)
	copy(padded, x)
	return f.plan.Coefficients(nil, padded)
}

// Inverse computes the inverse DFT of X and normalizes by the plan size,
// so Inverse(Forward(x)) reproduces x.
func (f *FFT) Inverse(X []complex128) []complex128 {
	padded := make([]complex128, f.size)
	copy(padded, X)
	out := f.plan.Sequence(nil, padded)
	scale := complex(1/float64(f.size), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// FFTShift returns the FFT output reordered so that the zero-frequency bin
// is centered.
func FFTShift(data []complex128) []complex128 {
	n := len(data)
	if n == 0 {
		return []complex128{}
	}
	half := n / 2
	shifted := make([]complex128, 0, n)
	shifted = append(shifted, data[half:]...)
	shifted = append(shifted, data[:half]...)
	return shifted
}
