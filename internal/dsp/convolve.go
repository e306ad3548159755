package dsp

import "math/cmplx"

// Convolve computes the full linear convolution of x and h. The result has
// length len(x)+len(h)-1. Either input being empty yields an empty result.
func Convolve(x, h []complex128) []complex128 {
	if len(x) == 0 || len(h) == 0 {
		return []complex128{}
	}
	out := make([]complex128, len(x)+len(h)-1)
	for i, hv := range h {
		if hv == 0 {
			continue
		}
		for k, xv := range x {
			out[i+k] += hv * xv
		}
	}
	return out
}

// Autocorrelation computes the unnormalized autocorrelation of x for lags
// 0..len(x)-1: R[k] = sum_n x[n+k] * conj(x[n]).
func Autocorrelation(x []complex128) []complex128 {
	out := make([]complex128, len(x))
	for k := range out {
		var acc complex128
		for n := 0; n+k < len(x); n++ {
			acc += x[n+k] * cmplx.Conj(x[n])
		}
		out[k] = acc
	}
	return out
}
