package channel

import (
	"fmt"
	"math"

	"github.com/caihao/gophysim/internal/dsp"
)

// TDLChannel is a tapped-delay-line multipath channel: a power-delay
// profile, one fading stream per tap, and a sampling interval that snaps
// the continuous tap delays onto a discrete grid. Each corruption call
// draws fresh fading samples, so the channel varies over time.
//
// A TDLChannel is not safe for concurrent use: keep one corruption call in
// flight per instance and serialize externally if needed.
type TDLChannel struct {
	profile *TDLProfile
	ts      float64

	// discretized form, valid when discretized is true
	discretized bool
	bins        []int
	tapScale    []float64 // sqrt of per-bin linear power
	gens        []FadingGenerator

	last *ImpulseResponse
}

// NewTDLChannel builds a TDL channel from a profile, a fading generator,
// and a sampling interval ts in seconds. The generator is forked once per
// discretized tap so tap streams advance independently.
//
// ts may be zero only for a profile whose delays are all zero (flat
// fading); any other profile stays non-discretized and corruption calls
// fail with ErrNotDiscretized until the channel is rebuilt with a valid ts.
func NewTDLChannel(gen FadingGenerator, profile *TDLProfile, ts float64) (*TDLChannel, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: fading generator is required", ErrInvalidParameter)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: channel profile is required", ErrInvalidParameter)
	}
	if ts < 0 {
		return nil, fmt.Errorf("%w: sampling interval must be non-negative, got %v", ErrInvalidParameter, ts)
	}
	c := &TDLChannel{profile: profile, ts: ts}

	switch {
	case ts > 0:
		bins, linear, err := profile.discretize(ts)
		if err != nil {
			return nil, err
		}
		c.setDiscretized(gen, bins, linear)
	case profile.maxDelay() == 0:
		// No time dispersion: the single tap sits at grid position zero
		// regardless of the (unset) sampling interval.
		c.setDiscretized(gen, []int{0}, profile.TapLinearPowers()[:1])
	}
	return c, nil
}

func (c *TDLChannel) setDiscretized(gen FadingGenerator, bins []int, linear []float64) {
	c.discretized = true
	c.bins = bins
	c.tapScale = make([]float64, len(linear))
	c.gens = make([]FadingGenerator, len(bins))
	for i, p := range linear {
		c.tapScale[i] = math.Sqrt(p)
	}
	c.gens[0] = gen
	for i := 1; i < len(bins); i++ {
		c.gens[i] = gen.Fork()
	}
}

// Profile returns the channel's power-delay profile.
func (c *TDLChannel) Profile() *TDLProfile { return c.profile }

// SamplingInterval returns the configured sampling interval in seconds.
func (c *TDLChannel) SamplingInterval() float64 { return c.ts }

// NumTaps returns the number of physical taps in the profile.
func (c *TDLChannel) NumTaps() int { return c.profile.NumTaps() }

// NumTapsWithPadding returns the impulse-response support on the sampling
// grid, including zero-gain positions between occupied bins. It fails with
// ErrNotDiscretized when no sampling interval was set.
func (c *TDLChannel) NumTapsWithPadding() (int, error) {
	if !c.discretized {
		return 0, fmt.Errorf("%w: padded tap count requires a sampling interval", ErrNotDiscretized)
	}
	return c.bins[len(c.bins)-1] + 1, nil
}

// CorruptData transmits signal through the channel in the time domain.
// One fading sample is drawn per tap per signal sample, so the channel
// varies during the transmission. The output carries the convolution
// growth: len(signal) + NumTapsWithPadding - 1 samples.
func (c *TDLChannel) CorruptData(signal []complex128) ([]complex128, error) {
	if !c.discretized {
		return nil, fmt.Errorf("%w: cannot corrupt data without a sampling interval", ErrNotDiscretized)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("%w: empty input signal", ErrSizeMismatch)
	}
	n := len(signal)
	gains := c.drawGains(n)
	ir := newImpulseResponse(c.ts, c.bins, gains)

	out := make([]complex128, n+ir.NumTapsWithPadding()-1)
	for i, bin := range c.bins {
		row := gains[i]
		for k, s := range signal {
			out[k+bin] += s * row[k]
		}
	}
	c.last = ir
	return out, nil
}

// CorruptDataInFreqDomain transmits signal through the channel in the
// frequency domain, approximating OFDM transmission without the explicit
// modem. The channel is held block-static: each group of len(carriers)
// signal samples (fftSize when carriers is nil) sees a single frequency
// response, obtained from one fresh fading draw per tap. Between blocks
// the generators skip fftSize-1 samples so fading time stays continuous.
func (c *TDLChannel) CorruptDataInFreqDomain(signal []complex128, fftSize int, carriers []int) ([]complex128, error) {
	if !c.discretized {
		return nil, fmt.Errorf("%w: cannot corrupt data without a sampling interval", ErrNotDiscretized)
	}
	support := c.bins[len(c.bins)-1] + 1
	if fftSize < support {
		return nil, fmt.Errorf("%w: fft size %d smaller than impulse response support %d",
			ErrSizeMismatch, fftSize, support)
	}
	if carriers == nil {
		carriers = make([]int, fftSize)
		for i := range carriers {
			carriers[i] = i
		}
	}
	for _, idx := range carriers {
		if idx < 0 || idx >= fftSize {
			return nil, fmt.Errorf("%w: carrier index %d outside [0, %d)", ErrInvalidParameter, idx, fftSize)
		}
	}
	block := len(carriers)
	if block == 0 || len(signal) == 0 || len(signal)%block != 0 {
		return nil, fmt.Errorf("%w: signal length %d is not a multiple of the %d used carriers",
			ErrSizeMismatch, len(signal), block)
	}
	numBlocks := len(signal) / block

	gains := make([][]complex128, len(c.bins))
	for i := range gains {
		gains[i] = make([]complex128, numBlocks)
	}
	for b := 0; b < numBlocks; b++ {
		for i, g := range c.gens {
			gains[i][b] = g.NextSamples(1)[0] * complex(c.tapScale[i], 0)
			g.Skip(fftSize - 1)
		}
	}
	ir := newImpulseResponse(c.ts, c.bins, gains)

	fft := dsp.NewFFT(fftSize)
	h := make([]complex128, support)
	out := make([]complex128, len(signal))
	for b := 0; b < numBlocks; b++ {
		for i := range h {
			h[i] = 0
		}
		for i, bin := range c.bins {
			h[bin] = gains[i][b]
		}
		H := fft.Forward(h)
		for j, idx := range carriers {
			out[b*block+j] = signal[b*block+j] * H[idx]
		}
	}
	c.last = ir
	return out, nil
}

// LastImpulseResponse returns the impulse response applied by the most
// recent corruption call. It fails with ErrNoImpulseResponse before the
// first call.
func (c *TDLChannel) LastImpulseResponse() (*ImpulseResponse, error) {
	if c.last == nil {
		return nil, fmt.Errorf("%w: corrupt data first", ErrNoImpulseResponse)
	}
	return c.last, nil
}

// drawGains pulls n samples from every tap stream, scaled by the square
// root of the tap's linear power.
func (c *TDLChannel) drawGains(n int) [][]complex128 {
	gains := make([][]complex128, len(c.gens))
	for i, g := range c.gens {
		row := g.NextSamples(n)
		scale := complex(c.tapScale[i], 0)
		for k := range row {
			row[k] *= scale
		}
		gains[i] = row
	}
	return gains
}
