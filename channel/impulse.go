package channel

import (
	"fmt"

	"github.com/caihao/gophysim/internal/dsp"
)

// ImpulseResponse is one realization of the channel's discretized impulse
// response over a stretch of fading time. Tap positions are bins on the
// sampling grid; each occupied bin carries a sequence of complex gains,
// one per signal sample (time-domain corruption) or one per transform
// block (frequency-domain corruption). Values are immutable after
// creation: all accessors return copies.
type ImpulseResponse struct {
	ts    float64
	bins  []int          // occupied grid positions, strictly increasing
	gains [][]complex128 // gains[i][k] is the gain of tap i at instant k
}

func newImpulseResponse(ts float64, bins []int, gains [][]complex128) *ImpulseResponse {
	return &ImpulseResponse{ts: ts, bins: bins, gains: gains}
}

// SamplingInterval returns the grid spacing the tap delays were snapped
// to. It is zero for a flat channel built without a sampling interval.
func (ir *ImpulseResponse) SamplingInterval() float64 { return ir.ts }

// NumTaps returns the number of occupied grid positions.
func (ir *ImpulseResponse) NumTaps() int { return len(ir.bins) }

// NumTapsWithPadding returns the impulse-response support on the sampling
// grid: the last occupied bin plus one, counting the zero-gain positions
// between occupied bins.
func (ir *ImpulseResponse) NumTapsWithPadding() int {
	return ir.bins[len(ir.bins)-1] + 1
}

// NumSamples returns how many gain instants each tap carries.
func (ir *ImpulseResponse) NumSamples() int {
	if len(ir.gains) == 0 {
		return 0
	}
	return len(ir.gains[0])
}

// TapDelayBins returns the occupied grid positions.
func (ir *ImpulseResponse) TapDelayBins() []int {
	return append([]int(nil), ir.bins...)
}

// TapGainsSparse returns the per-tap gain sequences, one row per occupied
// bin, aligned with TapDelayBins.
func (ir *ImpulseResponse) TapGainsSparse() [][]complex128 {
	out := make([][]complex128, len(ir.gains))
	for i, row := range ir.gains {
		out[i] = append([]complex128(nil), row...)
	}
	return out
}

// TapGains returns the gain sequences on the full padded grid: one row per
// grid position up to NumTapsWithPadding, with all-zero rows for the
// unoccupied positions.
func (ir *ImpulseResponse) TapGains() [][]complex128 {
	out := make([][]complex128, ir.NumTapsWithPadding())
	n := ir.NumSamples()
	for i := range out {
		out[i] = make([]complex128, n)
	}
	for i, bin := range ir.bins {
		copy(out[bin], ir.gains[i])
	}
	return out
}

// TapGainsAt returns the padded impulse response at one instant k as a
// vector of length NumTapsWithPadding.
func (ir *ImpulseResponse) TapGainsAt(k int) ([]complex128, error) {
	if k < 0 || k >= ir.NumSamples() {
		return nil, fmt.Errorf("%w: instant %d outside [0, %d)", ErrSizeMismatch, k, ir.NumSamples())
	}
	out := make([]complex128, ir.NumTapsWithPadding())
	for i, bin := range ir.bins {
		out[bin] = ir.gains[i][k]
	}
	return out, nil
}

// FreqResponse returns the channel frequency response at every instant:
// the DFT of the zero-padded impulse response, one row of fftSize bins per
// instant. fftSize must cover the impulse-response support.
func (ir *ImpulseResponse) FreqResponse(fftSize int) ([][]complex128, error) {
	if fftSize < ir.NumTapsWithPadding() {
		return nil, fmt.Errorf("%w: fft size %d smaller than impulse response support %d",
			ErrSizeMismatch, fftSize, ir.NumTapsWithPadding())
	}
	fft := dsp.NewFFT(fftSize)
	out := make([][]complex128, ir.NumSamples())
	h := make([]complex128, ir.NumTapsWithPadding())
	for k := range out {
		for i := range h {
			h[i] = 0
		}
		for i, bin := range ir.bins {
			h[bin] = ir.gains[i][k]
		}
		out[k] = fft.Forward(h)
	}
	return out, nil
}

// Scale returns a new impulse response with every gain multiplied by the
// real factor a. The single-user facade uses it to fold the amplitude
// effect of path loss into the reported response.
func (ir *ImpulseResponse) Scale(a float64) *ImpulseResponse {
	c := complex(a, 0)
	gains := make([][]complex128, len(ir.gains))
	for i, row := range ir.gains {
		gains[i] = make([]complex128, len(row))
		for k, v := range row {
			gains[i][k] = v * c
		}
	}
	return newImpulseResponse(ir.ts, append([]int(nil), ir.bins...), gains)
}
