package sim

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/caihao/gophysim/channel"
	"github.com/caihao/gophysim/internal/dsp"
	"github.com/caihao/gophysim/internal/progress"
	"github.com/caihao/gophysim/modem"
)

// Runner executes one simulation sweep. Reporter and Logger are optional.
type Runner struct {
	Params   Params
	Reporter progress.Reporter
	Logger   *log.Logger
}

// PointResult aggregates one SNR point of the sweep.
type PointResult struct {
	SNRdB          float64 `json:"snr_db"`
	Reps           int     `json:"reps"`
	Symbols        int64   `json:"symbols"`
	SymbolErrors   int64   `json:"symbol_errors"`
	BitErrors      int64   `json:"bit_errors"`
	SER            float64 `json:"ser"`
	BER            float64 `json:"ber"`
	TheoreticalSER float64 `json:"theoretical_ser"`
	TheoreticalBER float64 `json:"theoretical_ber"`
}

// Results is the outcome of a full sweep.
type Results struct {
	Scheme        string        `json:"scheme"`
	Mode          string        `json:"mode"`
	Points        []PointResult `json:"points"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	ElapsedPretty string        `json:"elapsed"`
}

// Run sweeps the configured SNR points. Each point uses a fresh channel
// instance seeded from Params.Seed, so runs are reproducible.
func (r *Runner) Run() (Results, error) {
	if err := r.Params.Validate(); err != nil {
		return Results{}, err
	}
	mod, err := r.Params.NewModulator()
	if err != nil {
		return Results{}, err
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	start := time.Now()
	results := Results{Scheme: mod.Name(), Mode: r.Params.Mode}
	for i, snr := range r.Params.SNRdB {
		point, err := r.runPoint(mod, snr, r.Params.Seed+int64(i), start)
		if err != nil {
			return Results{}, err
		}
		logger.Info("snr point done",
			"scheme", mod.Name(), "snr_db", snr,
			"ser", point.SER, "ber", point.BER, "reps", point.Reps)
		results.Points = append(results.Points, point)
	}
	results.Elapsed = time.Since(start)
	results.ElapsedPretty = prettyDuration(results.Elapsed)
	return results, nil
}

func (r *Runner) runPoint(mod modem.Modulator, snrdB float64, seed int64, sweepStart time.Time) (PointResult, error) {
	p := r.Params
	rng := rand.New(rand.NewSource(seed))
	ch, err := r.buildChannel(rng)
	if err != nil {
		return PointResult{}, err
	}

	noiseScale := math.Sqrt(math.Pow(10, -snrdB/10))
	n := p.SymbolsPerRep
	symbols := make([]int, n)
	point := PointResult{SNRdB: snrdB}

	for rep := 0; rep < p.MaxReps; rep++ {
		for i := range symbols {
			symbols[i] = rng.Intn(mod.Order())
		}
		tx, err := mod.Modulate(symbols)
		if err != nil {
			return PointResult{}, err
		}

		rx, err := r.transmit(ch, tx, rng, noiseScale)
		if err != nil {
			return PointResult{}, err
		}

		detected := mod.Demodulate(rx)
		for i, s := range symbols {
			if d := detected[i]; d != s {
				point.SymbolErrors++
				point.BitErrors += int64(bits.OnesCount(uint(d ^ s)))
			}
		}
		point.Reps = rep + 1
		point.Symbols += int64(n)

		if r.Reporter != nil {
			r.Reporter.Report(progress.Snapshot{
				Scheme:       mod.Name(),
				SNRdB:        snrdB,
				RepsDone:     point.Reps,
				MaxReps:      p.MaxReps,
				SymbolErrors: point.SymbolErrors,
				BitErrors:    point.BitErrors,
				Elapsed:      time.Since(sweepStart),
			})
		}
		if p.TargetSymbolErrors > 0 && point.SymbolErrors >= p.TargetSymbolErrors {
			break
		}
	}

	point.SER = float64(point.SymbolErrors) / float64(point.Symbols)
	point.BER = float64(point.BitErrors) / (float64(point.Symbols) * float64(mod.BitsPerSymbol()))
	point.TheoreticalSER = mod.TheoreticalSER(snrdB)
	point.TheoreticalBER = mod.TheoreticalBER(snrdB)
	return point, nil
}

// buildChannel returns nil when fading is disabled (AWGN-only link).
func (r *Runner) buildChannel(rng *rand.Rand) (*channel.SingleUserChannel, error) {
	cfg := r.Params.Channel
	if !cfg.Fading {
		return nil, nil
	}

	var gen channel.FadingGenerator
	if cfg.DopplerHz > 0 {
		ts := cfg.Ts
		if ts == 0 {
			ts = 1
		}
		jakes, err := channel.NewJakesGenerator(cfg.DopplerHz, ts, cfg.JakesRays, rand.New(rand.NewSource(rng.Int63())))
		if err != nil {
			return nil, err
		}
		gen = jakes
	} else {
		gen = channel.NewRayleighGenerator(rand.New(rand.NewSource(rng.Int63())))
	}

	ch, err := channel.NewSingleUserChannel(channel.SingleUserConfig{
		Generator: gen,
		Ts:        cfg.Ts,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Pathloss != nil {
		if err := ch.SetPathloss(*cfg.Pathloss); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

// transmit passes tx through the channel (when fading is enabled), adds
// AWGN, and equalizes against the impulse response the channel reports
// for this transmission.
func (r *Runner) transmit(ch *channel.SingleUserChannel, tx []complex128, rng *rand.Rand, noiseScale float64) ([]complex128, error) {
	if ch == nil {
		rx := make([]complex128, len(tx))
		noise := dsp.RandNC(rng, len(tx))
		for i := range tx {
			rx[i] = tx[i] + noise[i]*complex(noiseScale, 0)
		}
		return rx, nil
	}

	switch r.Params.Mode {
	case "ofdm":
		return r.transmitOFDM(ch, tx, rng, noiseScale)
	default:
		return r.transmitTime(ch, tx, rng, noiseScale)
	}
}

func (r *Runner) transmitTime(ch *channel.SingleUserChannel, tx []complex128, rng *rand.Rand, noiseScale float64) ([]complex128, error) {
	out, err := ch.CorruptData(tx)
	if err != nil {
		return nil, err
	}
	ir, err := ch.LastImpulseResponse()
	if err != nil {
		return nil, err
	}
	// A flat channel keeps the output aligned with the input; the single
	// tap gain at each instant is the per-sample equalizer.
	gains := ir.TapGainsSparse()[0]
	noise := dsp.RandNC(rng, len(tx))
	rx := make([]complex128, len(tx))
	for i := range rx {
		g := gains[i]
		if g == 0 {
			return nil, fmt.Errorf("sim: zero channel gain at sample %d", i)
		}
		rx[i] = (out[i] + noise[i]*complex(noiseScale, 0)) / g
	}
	return rx, nil
}

func (r *Runner) transmitOFDM(ch *channel.SingleUserChannel, tx []complex128, rng *rand.Rand, noiseScale float64) ([]complex128, error) {
	fftSize := r.Params.FFTSize
	out, err := ch.CorruptDataInFreqDomain(tx, fftSize, nil)
	if err != nil {
		return nil, err
	}
	ir, err := ch.LastImpulseResponse()
	if err != nil {
		return nil, err
	}
	freq, err := ir.FreqResponse(fftSize)
	if err != nil {
		return nil, err
	}
	noise := dsp.RandNC(rng, len(tx))
	rx := make([]complex128, len(tx))
	for i := range rx {
		h := freq[i/fftSize][i%fftSize]
		if h == 0 {
			return nil, fmt.Errorf("sim: zero channel response at carrier %d", i%fftSize)
		}
		rx[i] = (out[i] + noise[i]*complex(noiseScale, 0)) / h
	}
	return rx, nil
}

// prettyDuration renders elapsed time the way simulation reports usually
// do: seconds with two decimals below a minute, then m:s, then h:m:s.
func prettyDuration(d time.Duration) string {
	seconds := d.Seconds()
	totalSeconds := int(math.Round(seconds))
	minutes := totalSeconds / 60
	hours := minutes / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh:%dm:%ds", hours, minutes%60, totalSeconds%60)
	case minutes > 0:
		return fmt.Sprintf("%dm:%ds", minutes, totalSeconds%60)
	default:
		return fmt.Sprintf("%.2fs", seconds)
	}
}
