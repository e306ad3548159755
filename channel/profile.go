package channel

import (
	"fmt"
	"math"
)

// TDLProfile describes a multipath power-delay profile: L tap powers in dB
// paired index-to-index with L tap delays in seconds. Powers are expressed
// relative to the strongest tap, so they are non-positive by convention.
// A profile is immutable once constructed.
type TDLProfile struct {
	name     string
	powersdB []float64
	delays   []float64
}

// NewTDLProfile validates and builds a profile. The two slices must have
// the same non-zero length, delays must be non-negative and strictly
// increasing. The slices are copied, so the caller keeps ownership.
func NewTDLProfile(name string, tapPowersdB, tapDelays []float64) (*TDLProfile, error) {
	if len(tapPowersdB) == 0 {
		return nil, fmt.Errorf("%w: profile needs at least one tap", ErrInvalidParameter)
	}
	if len(tapPowersdB) != len(tapDelays) {
		return nil, fmt.Errorf("%w: %d tap powers but %d tap delays",
			ErrInvalidParameter, len(tapPowersdB), len(tapDelays))
	}
	for i, d := range tapDelays {
		if d < 0 {
			return nil, fmt.Errorf("%w: tap delay %d is negative (%v)", ErrInvalidParameter, i, d)
		}
		if i > 0 && d <= tapDelays[i-1] {
			return nil, fmt.Errorf("%w: tap delays must be strictly increasing", ErrInvalidParameter)
		}
	}
	p := &TDLProfile{
		name:     name,
		powersdB: append([]float64(nil), tapPowersdB...),
		delays:   append([]float64(nil), tapDelays...),
	}
	return p, nil
}

// FlatProfile returns the degenerate single-tap profile: one tap with unit
// power at zero delay. Corrupting data with it yields flat fading.
func FlatProfile() *TDLProfile {
	return &TDLProfile{name: "flat", powersdB: []float64{0}, delays: []float64{0}}
}

// Name returns the profile name.
func (p *TDLProfile) Name() string { return p.name }

// NumTaps returns the number of physical taps L.
func (p *TDLProfile) NumTaps() int { return len(p.powersdB) }

// TapPowersdB returns a copy of the tap powers in dB.
func (p *TDLProfile) TapPowersdB() []float64 {
	return append([]float64(nil), p.powersdB...)
}

// TapDelays returns a copy of the tap delays in seconds.
func (p *TDLProfile) TapDelays() []float64 {
	return append([]float64(nil), p.delays...)
}

// TapLinearPowers returns the tap powers converted from dB to linear scale.
func (p *TDLProfile) TapLinearPowers() []float64 {
	out := make([]float64, len(p.powersdB))
	for i, db := range p.powersdB {
		out[i] = math.Pow(10, db/10)
	}
	return out
}

// maxDelay returns the largest tap delay.
func (p *TDLProfile) maxDelay() float64 {
	return p.delays[len(p.delays)-1]
}

// discretize snaps tap delays onto a grid with spacing ts. Each delay maps
// to round(delay/ts) grid bins; taps that land in the same bin are merged
// by adding their linear powers. The returned bins are strictly increasing.
func (p *TDLProfile) discretize(ts float64) (bins []int, linearPowers []float64, err error) {
	if ts <= 0 {
		return nil, nil, fmt.Errorf("%w: sampling interval not set", ErrNotDiscretized)
	}
	linear := p.TapLinearPowers()
	for i, d := range p.delays {
		bin := int(math.Round(d / ts))
		if len(bins) > 0 && bin == bins[len(bins)-1] {
			linearPowers[len(linearPowers)-1] += linear[i]
			continue
		}
		bins = append(bins, bin)
		linearPowers = append(linearPowers, linear[i])
	}
	return bins, linearPowers, nil
}
