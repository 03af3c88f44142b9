package filter

import "slices"

// Edge extension length is padMultiplier * (padPerSection*sections + 1).
const (
	padMultiplier = 3
	padPerSection = 2
)

// PadLength returns the number of samples added at each end of the signal
// before zero-phase filtering through c.
func (c Cascade) PadLength() int {
	return padMultiplier * (padPerSection*len(c) + 1)
}

// FiltFilt filters x forward and then backward through the cascade, so the
// net phase shift is zero and the magnitude response is |H|².
//
// Both ends are extended by repeating the edge sample PadLength times and
// each pass starts from the steady state for its first sample, which keeps
// start-up transients out of the result. The returned slice has len(x)
// samples; x is not modified. An empty x yields an empty result.
func (c Cascade) FiltFilt(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	pad := c.PadLength()
	ext := make([]float64, n+2*pad)
	first, last := x[0], x[n-1]
	for i := range pad {
		ext[i] = first
		ext[pad+n+i] = last
	}
	copy(ext[pad:], x)

	zi := c.steadyStates()

	c.processInPlace(ext, zi, ext[0])
	slices.Reverse(ext)
	c.processInPlace(ext, zi, ext[0])
	slices.Reverse(ext)

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])
	return out
}

// Filter runs x through the cascade once, forward only, from zero state.
// It is the causal counterpart of FiltFilt.
func (c Cascade) Filter(x []float64) []float64 {
	out := slices.Clone(x)
	if len(out) == 0 {
		return []float64{}
	}
	c.processInPlace(out, make([]state, len(c)), 0)
	return out
}
