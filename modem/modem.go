// Package modem provides the digital modulators consumed by the BER/SER
// simulation runner: Gray-coded M-PSK and square M-QAM with hard-decision
// demodulation and theoretical AWGN error-rate curves.
package modem

import (
	"errors"
	"math"
	"math/bits"
)

// ErrInvalidOrder reports an unsupported constellation order.
var ErrInvalidOrder = errors.New("modem: invalid constellation order")

// ErrBadSymbol reports a symbol value outside [0, M).
var ErrBadSymbol = errors.New("modem: symbol out of range")

// Modulator maps data symbols to complex constellation points and back.
// Symbols are integers in [0, Order). All modulators in this package use
// unit average symbol energy, so SNR values are Es/N0.
type Modulator interface {
	Name() string
	Order() int
	BitsPerSymbol() int
	Modulate(symbols []int) ([]complex128, error)
	Demodulate(samples []complex128) []int
	TheoreticalSER(snrdB float64) float64
	TheoreticalBER(snrdB float64) float64
}

// qfunc is the Gaussian tail probability Q(x).
func qfunc(x float64) float64 {
	return 0.5 * math.Erfc(x/math.Sqrt2)
}

// grayEncode converts a binary index to its Gray code.
func grayEncode(n int) int { return n ^ (n >> 1) }

// grayDecode inverts grayEncode.
func grayDecode(g int) int {
	n := 0
	for ; g > 0; g >>= 1 {
		n ^= g
	}
	return n
}

// bitsFor returns log2(m) for a power of two m, or an error otherwise.
func bitsFor(m int) (int, error) {
	if m < 2 || m&(m-1) != 0 {
		return 0, ErrInvalidOrder
	}
	return bits.Len(uint(m)) - 1, nil
}

func snrLinear(snrdB float64) float64 {
	return math.Pow(10, snrdB/10)
}
