// Package sim runs Monte-Carlo error-rate simulations of PSK/QAM
// transmission over the fading channels in the channel package, sweeping
// SNR and aggregating measured BER/SER next to the theoretical AWGN
// curves.
package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caihao/gophysim/modem"
)

// ErrInvalidParams reports an unusable simulation parameter set.
var ErrInvalidParams = errors.New("sim: invalid parameters")

// ChannelConfig describes the channel seen by the simulated link.
type ChannelConfig struct {
	// Fading enables the flat Rayleigh/Jakes channel. When false the
	// link is AWGN only.
	Fading bool `yaml:"fading"`

	// DopplerHz selects a Jakes-correlated generator when positive; zero
	// keeps i.i.d. Rayleigh samples.
	DopplerHz float64 `yaml:"doppler_hz"`

	// JakesRays is the sum-of-sinusoids ray count; <= 0 uses the
	// generator default.
	JakesRays int `yaml:"jakes_rays"`

	// Ts is the sampling interval handed to the channel. Zero keeps the
	// flat-fading default.
	Ts float64 `yaml:"ts"`

	// Pathloss is the optional linear path-loss power ratio in [0, 1].
	// Nil disables path loss.
	Pathloss *float64 `yaml:"pathloss"`
}

// Params configures one simulation sweep.
type Params struct {
	// Scheme is "psk" or "qam".
	Scheme string `yaml:"scheme"`
	// Order is the constellation order M.
	Order int `yaml:"order"`
	// Mode is "time" for time-domain corruption or "ofdm" for the
	// block-static frequency-domain path.
	Mode string `yaml:"mode"`
	// FFTSize is the transform size used in ofdm mode.
	FFTSize int `yaml:"fft_size"`

	SNRdB         []float64 `yaml:"snr_db"`
	SymbolsPerRep int       `yaml:"symbols_per_rep"`
	MaxReps       int       `yaml:"max_reps"`
	// TargetSymbolErrors stops an SNR point early once this many symbol
	// errors were seen. Zero means run all repetitions.
	TargetSymbolErrors int64 `yaml:"target_symbol_errors"`
	Seed               int64 `yaml:"seed"`

	Channel ChannelConfig `yaml:"channel"`
}

// DefaultParams returns a 16-QAM flat-Rayleigh sweep comparable to the
// classic textbook curves.
func DefaultParams() Params {
	return Params{
		Scheme:             "qam",
		Order:              16,
		Mode:               "time",
		FFTSize:            64,
		SNRdB:              []float64{0, 3, 6, 9, 12, 15, 18},
		SymbolsPerRep:      1024,
		MaxReps:            500,
		TargetSymbolErrors: 500,
		Seed:               1,
		Channel:            ChannelConfig{Fading: true},
	}
}

// LoadParams reads a YAML parameter file.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("sim: parse %s: %w", path, err)
	}
	return p, nil
}

// SaveParams writes a YAML parameter file.
func SaveParams(path string, p Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the parameter set. It does not mutate p.
func (p Params) Validate() error {
	if _, err := p.NewModulator(); err != nil {
		return err
	}
	if p.Mode != "time" && p.Mode != "ofdm" {
		return fmt.Errorf("%w: mode must be \"time\" or \"ofdm\", got %q", ErrInvalidParams, p.Mode)
	}
	if p.Mode == "ofdm" {
		if p.FFTSize < 1 {
			return fmt.Errorf("%w: fft_size must be positive in ofdm mode", ErrInvalidParams)
		}
		if p.SymbolsPerRep%p.FFTSize != 0 {
			return fmt.Errorf("%w: symbols_per_rep (%d) must be a multiple of fft_size (%d)",
				ErrInvalidParams, p.SymbolsPerRep, p.FFTSize)
		}
	}
	if len(p.SNRdB) == 0 {
		return fmt.Errorf("%w: at least one SNR point required", ErrInvalidParams)
	}
	if p.SymbolsPerRep < 1 {
		return fmt.Errorf("%w: symbols_per_rep must be positive", ErrInvalidParams)
	}
	if p.MaxReps < 1 {
		return fmt.Errorf("%w: max_reps must be positive", ErrInvalidParams)
	}
	if p.Channel.DopplerHz < 0 {
		return fmt.Errorf("%w: doppler_hz must be non-negative", ErrInvalidParams)
	}
	if pl := p.Channel.Pathloss; pl != nil && (*pl < 0 || *pl > 1) {
		return fmt.Errorf("%w: pathloss must be in [0, 1]", ErrInvalidParams)
	}
	return nil
}

// NewModulator builds the modulator selected by Scheme and Order.
func (p Params) NewModulator() (modem.Modulator, error) {
	switch p.Scheme {
	case "psk":
		return modem.NewPSK(p.Order)
	case "qam":
		return modem.NewQAM(p.Order)
	default:
		return nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidParams, p.Scheme)
	}
}
