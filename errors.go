package octave

import "errors"

// Errors returned by the analyzer. They are wrapped with context; test for
// them with errors.Is.
var (
	// ErrConfiguration indicates an invalid sample rate or a band whose
	// upper edge would reach Nyquist.
	ErrConfiguration = errors.New("octave: invalid configuration")

	// ErrFilterDesign indicates a band filter that cannot be realized with
	// all poles strictly inside the unit circle.
	ErrFilterDesign = errors.New("octave: filter design failed")

	// ErrInput indicates an empty or malformed signal.
	ErrInput = errors.New("octave: invalid input signal")
)
