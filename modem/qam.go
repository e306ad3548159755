package modem

import (
	"fmt"
	"math"
)

// QAM is a square M-ary quadrature-amplitude modulator. Each axis carries
// half of the symbol bits with per-axis Gray coding, and the constellation
// is normalized to unit average symbol energy.
type QAM struct {
	m     int
	k     int
	side  int     // sqrt(M) levels per axis
	scale float64 // amplitude normalization for unit average energy
}

// NewQAM builds an M-QAM modulator. m must be an even power of two
// (4, 16, 64, 256, ...), so the constellation is square.
func NewQAM(m int) (*QAM, error) {
	k, err := bitsFor(m)
	if err != nil || k%2 != 0 {
		return nil, fmt.Errorf("%w: %d-QAM (square constellations only)", ErrInvalidOrder, m)
	}
	q := &QAM{m: m, k: k, side: 1 << (k / 2)}
	// Unnormalized levels are +-1, +-3, ..., giving an average symbol
	// energy of 2(M-1)/3.
	q.scale = math.Sqrt(3 / (2 * float64(m-1)))
	return q, nil
}

func (q *QAM) Name() string       { return fmt.Sprintf("%d-QAM", q.m) }
func (q *QAM) Order() int         { return q.m }
func (q *QAM) BitsPerSymbol() int { return q.k }

// level maps the Gray-coded axis bits to the PAM amplitude.
func (q *QAM) level(axisBits int) float64 {
	pos := grayDecode(axisBits)
	return float64(2*pos-(q.side-1)) * q.scale
}

// Modulate maps data symbols to constellation points. The high half of
// each symbol's bits selects the in-phase level, the low half the
// quadrature level.
func (q *QAM) Modulate(symbols []int) ([]complex128, error) {
	half := q.k / 2
	mask := q.side - 1
	out := make([]complex128, len(symbols))
	for i, s := range symbols {
		if s < 0 || s >= q.m {
			return nil, fmt.Errorf("%w: %d for %d-QAM", ErrBadSymbol, s, q.m)
		}
		out[i] = complex(q.level(s>>half), q.level(s&mask))
	}
	return out, nil
}

// Demodulate performs hard-decision demodulation with independent
// per-axis level slicing.
func (q *QAM) Demodulate(samples []complex128) []int {
	half := q.k / 2
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = q.sliceAxis(real(v))<<half | q.sliceAxis(imag(v))
	}
	return out
}

func (q *QAM) sliceAxis(x float64) int {
	pos := int(math.Round((x/q.scale + float64(q.side-1)) / 2))
	if pos < 0 {
		pos = 0
	}
	if pos > q.side-1 {
		pos = q.side - 1
	}
	return grayEncode(pos)
}

// TheoreticalSER returns the symbol error rate over an AWGN channel at
// the given Es/N0 for a square QAM constellation.
func (q *QAM) TheoreticalSER(snrdB float64) float64 {
	snr := snrLinear(snrdB)
	side := float64(q.side)
	psc := 2 * (1 - 1/side) * qfunc(math.Sqrt(3*snr/float64(q.m-1)))
	return 1 - (1-psc)*(1-psc)
}

// TheoreticalBER approximates the bit error rate assuming Gray mapping.
func (q *QAM) TheoreticalBER(snrdB float64) float64 {
	return q.TheoreticalSER(snrdB) / float64(q.k)
}
