package channel

import (
	"fmt"
	"math"
)

// SingleUserConfig selects how a SingleUserChannel is built. All fields
// are optional; the zero value yields the flat-fading default: a Rayleigh
// generator over a single unit-power tap at zero delay with Ts = 1.
type SingleUserConfig struct {
	// Generator supplies the fading process. Nil selects a time-seeded
	// RayleighGenerator.
	Generator FadingGenerator

	// Profile is the multipath power-delay profile. It is mutually
	// exclusive with TapPowersdB/TapDelays.
	Profile *TDLProfile

	// TapPowersdB and TapDelays describe the profile inline; both must be
	// given together.
	TapPowersdB []float64
	TapDelays   []float64

	// Ts is the sampling interval in seconds used to discretize tap
	// delays. When zero and no profile or taps were given, the flat
	// default of 1 applies.
	Ts float64
}

// SingleUserChannel is a single-user SISO channel: a TDL engine plus an
// optional deterministic path loss applied at corruption time. Use a
// single-tap profile (the default) for flat fading.
type SingleUserChannel struct {
	tdl *TDLChannel

	pathloss    float64
	hasPathloss bool
}

// NewSingleUserChannel builds the channel following the construction
// policy from SingleUserConfig. Inconsistent combinations (a profile plus
// inline taps, or tap powers without matching delays) fail with
// ErrInvalidParameter.
func NewSingleUserChannel(cfg SingleUserConfig) (*SingleUserChannel, error) {
	gen := cfg.Generator
	ts := cfg.Ts
	if gen == nil {
		gen = NewRayleighGenerator(nil)
		if cfg.Profile == nil && cfg.TapPowersdB == nil && cfg.TapDelays == nil && ts == 0 {
			ts = 1
		}
	}

	var profile *TDLProfile
	switch {
	case cfg.Profile != nil:
		if cfg.TapPowersdB != nil || cfg.TapDelays != nil {
			return nil, fmt.Errorf("%w: give either a profile or tap powers/delays, not both", ErrInvalidParameter)
		}
		profile = cfg.Profile
	case cfg.TapPowersdB != nil || cfg.TapDelays != nil:
		var err error
		profile, err = NewTDLProfile("custom", cfg.TapPowersdB, cfg.TapDelays)
		if err != nil {
			return nil, err
		}
	default:
		profile = FlatProfile()
	}

	tdl, err := NewTDLChannel(gen, profile, ts)
	if err != nil {
		return nil, err
	}
	return &SingleUserChannel{tdl: tdl}, nil
}

// SetPathloss enables path loss with the given linear power ratio, which
// must lie in [0, 1]. Out-of-range values fail with ErrInvalidParameter
// and leave the channel untouched. Path loss scales amplitudes at
// corruption time only; it never mutates the underlying TDL state.
func (c *SingleUserChannel) SetPathloss(value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: pathloss must be between 0 and 1, got %v", ErrInvalidParameter, value)
	}
	c.pathloss = value
	c.hasPathloss = true
	return nil
}

// DisablePathloss turns path-loss scaling off.
func (c *SingleUserChannel) DisablePathloss() {
	c.pathloss = 0
	c.hasPathloss = false
}

// Pathloss returns the current linear path-loss value and whether path
// loss is enabled.
func (c *SingleUserChannel) Pathloss() (float64, bool) {
	return c.pathloss, c.hasPathloss
}

// CorruptData transmits signal through the TDL channel in the time domain
// and applies sqrt(pathloss) when path loss is enabled.
func (c *SingleUserChannel) CorruptData(signal []complex128) ([]complex128, error) {
	out, err := c.tdl.CorruptData(signal)
	if err != nil {
		return nil, err
	}
	c.applyPathloss(out)
	return out, nil
}

// CorruptDataInFreqDomain transmits signal through the TDL channel in the
// frequency domain and applies sqrt(pathloss) when path loss is enabled.
func (c *SingleUserChannel) CorruptDataInFreqDomain(signal []complex128, fftSize int, carriers []int) ([]complex128, error) {
	out, err := c.tdl.CorruptDataInFreqDomain(signal, fftSize, carriers)
	if err != nil {
		return nil, err
	}
	c.applyPathloss(out)
	return out, nil
}

// LastImpulseResponse returns the impulse response applied by the most
// recent corruption call. When path loss is enabled the returned response
// is scaled by sqrt(pathloss) so it matches what the signal actually saw.
func (c *SingleUserChannel) LastImpulseResponse() (*ImpulseResponse, error) {
	ir, err := c.tdl.LastImpulseResponse()
	if err != nil {
		return nil, err
	}
	if !c.hasPathloss {
		return ir, nil
	}
	return ir.Scale(math.Sqrt(c.pathloss)), nil
}

// Profile returns the underlying power-delay profile.
func (c *SingleUserChannel) Profile() *TDLProfile { return c.tdl.Profile() }

// NumTaps returns the number of physical taps in the profile.
func (c *SingleUserChannel) NumTaps() int { return c.tdl.NumTaps() }

// NumTapsWithPadding returns the discretized impulse-response support,
// failing with ErrNotDiscretized when no sampling interval was set.
func (c *SingleUserChannel) NumTapsWithPadding() (int, error) {
	return c.tdl.NumTapsWithPadding()
}

func (c *SingleUserChannel) applyPathloss(out []complex128) {
	if !c.hasPathloss {
		return
	}
	a := complex(math.Sqrt(c.pathloss), 0)
	for i := range out {
		out[i] *= a
	}
}
