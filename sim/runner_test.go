package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caihao/gophysim/internal/progress"
)

type countingReporter struct {
	count int
	last  progress.Snapshot
}

func newCountingReporter() *countingReporter { return &countingReporter{} }

func (c *countingReporter) Report(s progress.Snapshot) {
	c.count++
	c.last = s
}

func TestPrettyDuration(t *testing.T) {
	assert.Equal(t, "30.00s", prettyDuration(30*time.Second))
	assert.Equal(t, "1m:16s", prettyDuration(76*time.Second))
	assert.Equal(t, "1h:12m:23s", prettyDuration(4343*time.Second))
	assert.Equal(t, "0.50s", prettyDuration(500*time.Millisecond))
}

func testParams() Params {
	p := DefaultParams()
	p.SNRdB = []float64{30}
	p.SymbolsPerRep = 256
	p.MaxReps = 4
	p.TargetSymbolErrors = 0
	return p
}

func TestRunAWGNOnly(t *testing.T) {
	p := testParams()
	p.Channel.Fading = false

	r := &Runner{Params: p}
	results, err := r.Run()
	require.NoError(t, err)

	require.Len(t, results.Points, 1)
	point := results.Points[0]
	assert.Equal(t, 4, point.Reps)
	assert.Equal(t, int64(1024), point.Symbols)
	// At 30 dB a 16-QAM AWGN link makes essentially no errors.
	assert.Zero(t, point.SymbolErrors)
	assert.Zero(t, point.BitErrors)
	assert.Equal(t, "16-QAM", results.Scheme)
}

func TestRunFadingReproducible(t *testing.T) {
	p := testParams()

	first, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)
	second, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)

	assert.Equal(t, first.Points, second.Points)

	// The equalizer inverts the flat fade, so high SNR keeps errors rare.
	assert.Less(t, first.Points[0].SER, 0.05)
}

func TestRunOFDMMode(t *testing.T) {
	p := testParams()
	p.Mode = "ofdm"
	p.FFTSize = 64
	p.Scheme = "psk"
	p.Order = 4

	results, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)

	require.Len(t, results.Points, 1)
	assert.Equal(t, "ofdm", results.Mode)
	assert.Less(t, results.Points[0].SER, 0.05)
}

func TestRunJakesChannel(t *testing.T) {
	p := testParams()
	p.Channel.DopplerHz = 50
	p.Channel.Ts = 1e-3
	p.Channel.JakesRays = 8

	results, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)
	assert.Less(t, results.Points[0].SER, 0.05)
}

func TestRunWithPathloss(t *testing.T) {
	p := testParams()
	pl := 0.25
	p.Channel.Pathloss = &pl

	results, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)
	// Equalization divides the path loss back out, at the cost of 6 dB
	// of effective SNR.
	assert.Less(t, results.Points[0].SER, 0.1)
}

func TestRunStopsAtTargetErrors(t *testing.T) {
	p := testParams()
	p.SNRdB = []float64{-10}
	p.MaxReps = 100
	p.TargetSymbolErrors = 50

	results, err := (&Runner{Params: p}).Run()
	require.NoError(t, err)

	point := results.Points[0]
	assert.GreaterOrEqual(t, point.SymbolErrors, int64(50))
	assert.Less(t, point.Reps, 100)
}

func TestRunReportsProgress(t *testing.T) {
	p := testParams()
	hub := newCountingReporter()

	_, err := (&Runner{Params: p, Reporter: hub}).Run()
	require.NoError(t, err)
	assert.Equal(t, 4, hub.count)
	assert.Equal(t, "16-QAM", hub.last.Scheme)
	assert.Equal(t, 4, hub.last.RepsDone)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"bad scheme", func(p *Params) { p.Scheme = "fsk" }},
		{"bad order", func(p *Params) { p.Order = 3 }},
		{"bad mode", func(p *Params) { p.Mode = "burst" }},
		{"no snr points", func(p *Params) { p.SNRdB = nil }},
		{"zero symbols", func(p *Params) { p.SymbolsPerRep = 0 }},
		{"zero reps", func(p *Params) { p.MaxReps = 0 }},
		{"negative doppler", func(p *Params) { p.Channel.DopplerHz = -1 }},
		{"pathloss above one", func(p *Params) {
			pl := 1.5
			p.Channel.Pathloss = &pl
		}},
		{"ofdm partial block", func(p *Params) {
			p.Mode = "ofdm"
			p.FFTSize = 100
		}},
		{"ofdm zero fft", func(p *Params) {
			p.Mode = "ofdm"
			p.FFTSize = 0
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
	assert.NoError(t, DefaultParams().Validate())
}
