package channel

import (
	"errors"
	"math/cmplx"
	"testing"
)

func testImpulseResponse() *ImpulseResponse {
	// Two occupied bins with a gap: support spans 3 grid positions.
	return newImpulseResponse(1e-6, []int{0, 2}, [][]complex128{
		{1, 2i},
		{3, 4},
	})
}

func TestImpulseResponseShape(t *testing.T) {
	ir := testImpulseResponse()
	if ir.NumTaps() != 2 {
		t.Fatalf("expected 2 occupied taps, got %d", ir.NumTaps())
	}
	if ir.NumTapsWithPadding() != 3 {
		t.Fatalf("expected support of 3, got %d", ir.NumTapsWithPadding())
	}
	if ir.NumSamples() != 2 {
		t.Fatalf("expected 2 instants, got %d", ir.NumSamples())
	}
	if ir.SamplingInterval() != 1e-6 {
		t.Fatalf("unexpected sampling interval %v", ir.SamplingInterval())
	}

	full := ir.TapGains()
	if len(full) != 3 {
		t.Fatalf("padded matrix should have 3 rows, got %d", len(full))
	}
	if full[0][0] != 1 || full[0][1] != 2i {
		t.Fatalf("row 0 wrong: %v", full[0])
	}
	if full[1][0] != 0 || full[1][1] != 0 {
		t.Fatalf("gap row must be zero: %v", full[1])
	}
	if full[2][0] != 3 || full[2][1] != 4 {
		t.Fatalf("row 2 wrong: %v", full[2])
	}
}

func TestImpulseResponseTapGainsAt(t *testing.T) {
	ir := testImpulseResponse()
	h, err := ir.TapGainsAt(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h) != 3 || h[0] != 2i || h[1] != 0 || h[2] != 4 {
		t.Fatalf("unexpected instant-1 response: %v", h)
	}
	if _, err := ir.TapGainsAt(2); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if _, err := ir.TapGainsAt(-1); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestImpulseResponseFreqResponse(t *testing.T) {
	ir := testImpulseResponse()
	if _, err := ir.FreqResponse(2); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("fft smaller than support must fail, got %v", err)
	}

	freq, err := ir.FreqResponse(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(freq) != 2 || len(freq[0]) != 4 {
		t.Fatalf("unexpected dimensions %dx%d", len(freq), len(freq[0]))
	}
	// Instant 0 response is the DFT of [1 0 3 0]: bin 0 carries the sum.
	if cmplx.Abs(freq[0][0]-4) > 1e-12 {
		t.Fatalf("bin 0 should be the tap sum, got %v", freq[0][0])
	}
	// Bin 1 of [1 0 3 0] is 1 + 3*exp(-j*pi) = -2.
	if cmplx.Abs(freq[0][1]-(-2)) > 1e-12 {
		t.Fatalf("bin 1 wrong: %v", freq[0][1])
	}
}

func TestImpulseResponseScale(t *testing.T) {
	ir := testImpulseResponse()
	scaled := ir.Scale(0.5)
	if scaled.TapGainsSparse()[0][0] != 0.5 {
		t.Fatalf("scaling failed")
	}
	// the original must stay untouched
	if ir.TapGainsSparse()[0][0] != 1 {
		t.Fatalf("Scale mutated the source response")
	}
	if scaled.NumTapsWithPadding() != ir.NumTapsWithPadding() {
		t.Fatalf("Scale changed the support")
	}
}

func TestImpulseResponseAccessorsCopy(t *testing.T) {
	ir := testImpulseResponse()
	got := ir.TapGainsSparse()
	got[0][0] = 99
	if ir.TapGainsSparse()[0][0] != 1 {
		t.Fatalf("TapGainsSparse leaks internal state")
	}
	bins := ir.TapDelayBins()
	bins[0] = 42
	if ir.TapDelayBins()[0] != 0 {
		t.Fatalf("TapDelayBins leaks internal state")
	}
}
