package modem

import (
	"fmt"
	"math"
	"math/cmplx"
)

// PSK is an M-ary phase-shift-keying modulator with Gray-coded symbol
// mapping: constellation points sit on the unit circle and neighbours
// differ in exactly one bit.
type PSK struct {
	m      int
	k      int
	points []complex128 // points[symbol] with Gray placement
}

// NewPSK builds an M-PSK modulator. m must be a power of two >= 2.
func NewPSK(m int) (*PSK, error) {
	k, err := bitsFor(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %d-PSK", err, m)
	}
	p := &PSK{m: m, k: k, points: make([]complex128, m)}
	for pos := 0; pos < m; pos++ {
		angle := 2 * math.Pi * float64(pos) / float64(m)
		p.points[grayEncode(pos)] = cmplx.Rect(1, angle)
	}
	return p, nil
}

func (p *PSK) Name() string       { return fmt.Sprintf("%d-PSK", p.m) }
func (p *PSK) Order() int         { return p.m }
func (p *PSK) BitsPerSymbol() int { return p.k }

// Modulate maps data symbols to constellation points.
func (p *PSK) Modulate(symbols []int) ([]complex128, error) {
	out := make([]complex128, len(symbols))
	for i, s := range symbols {
		if s < 0 || s >= p.m {
			return nil, fmt.Errorf("%w: %d for %d-PSK", ErrBadSymbol, s, p.m)
		}
		out[i] = p.points[s]
	}
	return out, nil
}

// Demodulate performs hard-decision demodulation by phase quantization.
func (p *PSK) Demodulate(samples []complex128) []int {
	out := make([]int, len(samples))
	step := 2 * math.Pi / float64(p.m)
	for i, v := range samples {
		angle := cmplx.Phase(v)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		pos := int(math.Round(angle/step)) % p.m
		out[i] = grayEncode(pos)
	}
	return out
}

// TheoreticalSER returns the symbol error rate over an AWGN channel at the
// given Es/N0. BPSK is exact; higher orders use the standard nearest
// neighbour approximation 2*Q(sqrt(2*SNR)*sin(pi/M)).
func (p *PSK) TheoreticalSER(snrdB float64) float64 {
	snr := snrLinear(snrdB)
	if p.m == 2 {
		return qfunc(math.Sqrt(2 * snr))
	}
	return 2 * qfunc(math.Sqrt(2*snr)*math.Sin(math.Pi/float64(p.m)))
}

// TheoreticalBER approximates the bit error rate assuming Gray mapping,
// where a symbol error almost always flips a single bit.
func (p *PSK) TheoreticalBER(snrdB float64) float64 {
	return p.TheoreticalSER(snrdB) / float64(p.k)
}
