package sim

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	p := DefaultParams()
	p.Scheme = "psk"
	p.Order = 8
	p.Channel.DopplerHz = 25
	pl := 0.5
	p.Channel.Pathloss = &pl

	require.NoError(t, SaveParams(path, p))
	loaded, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadParamsMissingFile(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadParamsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheme: [unclosed"), 0o644))
	_, err := LoadParams(path)
	assert.Error(t, err)
}

func TestNewModulator(t *testing.T) {
	p := DefaultParams()
	mod, err := p.NewModulator()
	require.NoError(t, err)
	assert.Equal(t, "16-QAM", mod.Name())

	p.Scheme = "psk"
	p.Order = 4
	mod, err = p.NewModulator()
	require.NoError(t, err)
	assert.Equal(t, "4-PSK", mod.Name())

	p.Scheme = "fsk"
	_, err = p.NewModulator()
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestResultsWriteJSON(t *testing.T) {
	r := Results{
		Scheme: "4-PSK",
		Mode:   "time",
		Points: []PointResult{{SNRdB: 5, Reps: 3, Symbols: 300}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var decoded Results
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Scheme, decoded.Scheme)
	require.Len(t, decoded.Points, 1)
	assert.Equal(t, int64(300), decoded.Points[0].Symbols)
}

func TestResultsWriteTable(t *testing.T) {
	r := Results{
		Scheme:        "16-QAM",
		Mode:          "ofdm",
		ElapsedPretty: "30.00s",
		Points: []PointResult{
			{SNRdB: 0, SER: 0.5, BER: 0.125, Reps: 10},
			{SNRdB: 10, SER: 0.01, BER: 0.0025, Reps: 42},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.WriteTable(&buf))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "16-QAM (ofdm mode)")
	assert.Contains(t, lines[1], "SNR(dB)")
	assert.Contains(t, lines[2], "5.000e-01")
	assert.Contains(t, lines[3], "42")
}
