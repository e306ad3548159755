package channel

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/caihao/gophysim/internal/dsp"
)

// FadingGenerator produces a stream of complex channel gains for one tap.
// Successive calls continue the same stochastic process: samples returned
// by one NextSamples call are statistically contiguous with the previous
// call. Generators are not safe for concurrent use.
type FadingGenerator interface {
	// NextSamples returns the next n gain samples, advancing the
	// generator state. It returns nil when n <= 0.
	NextSamples(n int) []complex128

	// Skip advances the generator by n samples without producing them.
	// Block-static corruption uses it to keep fading time continuous
	// between transform windows.
	Skip(n int)

	// Fork returns an independent generator of the same kind and
	// parameters, seeded from this one. The TDL engine forks one stream
	// per tap so tap processes never alias each other's state.
	Fork() FadingGenerator
}

// RayleighGenerator draws independent circularly-symmetric complex Gaussian
// samples with unit average power (real and imaginary parts are zero-mean
// with variance 1/2 each). It models Rayleigh fading with no temporal
// correlation between samples.
type RayleighGenerator struct {
	rng *rand.Rand
}

// NewRayleighGenerator builds a Rayleigh fading generator using the given
// random source. A nil rng gets a time-seeded source; pass a seeded
// *rand.Rand for reproducible runs.
func NewRayleighGenerator(rng *rand.Rand) *RayleighGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RayleighGenerator{rng: rng}
}

func (g *RayleighGenerator) NextSamples(n int) []complex128 {
	if n <= 0 {
		return nil
	}
	return dsp.RandNC(g.rng, n)
}

// Skip is a no-op for sample count bookkeeping: the samples are
// independent, so discarding draws changes nothing statistically.
func (g *RayleighGenerator) Skip(_ int) {}

func (g *RayleighGenerator) Fork() FadingGenerator {
	return NewRayleighGenerator(rand.New(rand.NewSource(g.rng.Int63())))
}

// JakesGenerator produces Doppler-correlated Rayleigh fading using a
// sum-of-sinusoids model: L plane-wave rays with random arrival angles and
// phases, each Doppler-shifted by fd*cos(angle). The autocorrelation of the
// generated process approaches J0(2*pi*fd*tau) as L grows.
type JakesGenerator struct {
	fd      float64 // maximum Doppler frequency in Hz
	ts      float64 // sampling interval in seconds
	angles  []float64
	phases  []float64
	nextIdx int64 // index of the next sample to generate
	rng     *rand.Rand
}

// NewJakesGenerator builds a Jakes sum-of-sinusoids fading generator.
// dopplerHz must be non-negative and ts positive. rays is the number of
// sinusoids; values <= 0 select the default of 16. A nil rng gets a
// time-seeded source.
func NewJakesGenerator(dopplerHz, ts float64, rays int, rng *rand.Rand) (*JakesGenerator, error) {
	if dopplerHz < 0 {
		return nil, fmt.Errorf("%w: doppler frequency must be non-negative, got %v", ErrInvalidParameter, dopplerHz)
	}
	if ts <= 0 {
		return nil, fmt.Errorf("%w: sampling interval must be positive, got %v", ErrInvalidParameter, ts)
	}
	if rays <= 0 {
		rays = 16
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &JakesGenerator{fd: dopplerHz, ts: ts, rng: rng}
	g.angles = make([]float64, rays)
	g.phases = make([]float64, rays)
	for l := range g.angles {
		g.angles[l] = 2 * math.Pi * rng.Float64()
		g.phases[l] = 2 * math.Pi * rng.Float64()
	}
	return g, nil
}

// DopplerHz returns the configured maximum Doppler frequency.
func (g *JakesGenerator) DopplerHz() float64 { return g.fd }

// SamplingInterval returns the configured sampling interval.
func (g *JakesGenerator) SamplingInterval() float64 { return g.ts }

func (g *JakesGenerator) NextSamples(n int) []complex128 {
	if n <= 0 {
		return nil
	}
	out := make([]complex128, n)
	norm := 1 / math.Sqrt(float64(len(g.angles)))
	for k := 0; k < n; k++ {
		t := float64(g.nextIdx+int64(k)) * g.ts
		var re, im float64
		for l, alpha := range g.angles {
			arg := 2*math.Pi*g.fd*math.Cos(alpha)*t + g.phases[l]
			re += math.Cos(arg)
			im += math.Sin(arg)
		}
		out[k] = complex(re*norm, im*norm)
	}
	g.nextIdx += int64(n)
	return out
}

func (g *JakesGenerator) Skip(n int) {
	if n > 0 {
		g.nextIdx += int64(n)
	}
}

// Fork returns an independent Jakes generator with the same Doppler,
// sampling interval, and ray count but fresh random ray angles and phases.
// The fork starts at the same time index so parallel tap streams stay
// aligned in fading time.
func (g *JakesGenerator) Fork() FadingGenerator {
	child, err := NewJakesGenerator(g.fd, g.ts, len(g.angles), rand.New(rand.NewSource(g.rng.Int63())))
	if err != nil {
		// Parameters were validated when g was built.
		panic(err)
	}
	child.nextIdx = g.nextIdx
	return child
}
