package channel

import "errors"

// Sentinel errors returned by the channel package. Callers can test for
// them with errors.Is after unwrapping.
var (
	// ErrInvalidParameter reports a construction-time configuration
	// problem, such as mismatched tap arrays or a negative Doppler
	// frequency. It is never raised lazily at sampling time.
	ErrInvalidParameter = errors.New("channel: invalid parameter")

	// ErrSizeMismatch reports a call-time dimensional problem, such as an
	// FFT size smaller than the impulse-response support.
	ErrSizeMismatch = errors.New("channel: size mismatch")

	// ErrNotDiscretized is returned when an operation needs tap delays
	// snapped onto a sampling grid but no sampling interval was set.
	ErrNotDiscretized = errors.New("channel: profile not discretized")

	// ErrNoImpulseResponse is returned when the last impulse response is
	// requested before any data has been corrupted.
	ErrNoImpulseResponse = errors.New("channel: no impulse response available")
)
