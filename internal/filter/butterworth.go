package filter

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrInvalidDesign is returned when a filter cannot be realized as a
// stable cascade for the requested edges and order.
var ErrInvalidDesign = errors.New("filter: invalid design")

const (
	// bilinearFs is the sample rate used for the normalized bilinear
	// transform; normalized edges are fractions of Nyquist (fs/2 = 1).
	bilinearFs = 2.0

	// maxPoleRadius bounds how close a pole may sit to the unit circle.
	maxPoleRadius = 1 - 1e-12

	// maxOrder limits the analog prototype order.
	maxOrder = 16
)

// Bandpass is a designed Butterworth band-pass filter.
type Bandpass struct {
	Sections Cascade
	Order    int     // analog prototype order; len(Sections) == Order
	Low      float64 // lower edge, fraction of Nyquist
	High     float64 // upper edge, fraction of Nyquist
	Center   float64 // geometric center after pre-warping, radians per sample
}

// DesignBandpass designs an order-N Butterworth band-pass with -3 dB edges
// at low and high, given as fractions of Nyquist in (0, 1).
//
// The prototype poles are mapped low-pass to band-pass, then through the
// bilinear transform with pre-warped edges. Each conjugate pole pair forms
// one section with zeros at z = 1 and z = -1, scaled to unit gain at the
// band center.
func DesignBandpass(low, high float64, order int) (*Bandpass, error) {
	if order < 1 || order > maxOrder {
		return nil, fmt.Errorf("%w: order %d outside [1, %d]", ErrInvalidDesign, order, maxOrder)
	}
	if !(low > 0 && low < high && high < 1) {
		return nil, fmt.Errorf("%w: normalized edges (%g, %g) must satisfy 0 < low < high < 1",
			ErrInvalidDesign, low, high)
	}

	w1 := prewarp(low)
	w2 := prewarp(high)
	bw := w2 - w1
	w0 := math.Sqrt(w1 * w2)
	center := 2 * math.Atan(w0/(2*bilinearFs))

	sections := make(Cascade, 0, order)
	for _, p := range prototypePoles(order) {
		if imag(p) < 0 {
			continue // covered by its conjugate
		}
		pl := p * complex(bw/2, 0)
		d := cmplx.Sqrt(pl*pl - complex(w0*w0, 0))
		z1 := bilinear(pl + d)
		z2 := bilinear(pl - d)

		if imag(p) > 0 {
			sections = append(sections, conjugatePairSection(z1), conjugatePairSection(z2))
		} else {
			sections = append(sections, poleSection(z1, z2))
		}
	}

	for i := range sections {
		g := cmplx.Abs(sections[i].Response(center))
		if g == 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			return nil, fmt.Errorf("%w: section %d has no gain at band center", ErrInvalidDesign, i)
		}
		sections[i].B0 /= g
		sections[i].B2 /= g
	}

	if err := validateCascade(sections); err != nil {
		return nil, err
	}

	return &Bandpass{
		Sections: sections,
		Order:    order,
		Low:      low,
		High:     high,
		Center:   center,
	}, nil
}

// validateCascade rejects non-finite coefficients and poles on or outside
// the unit circle.
func validateCascade(c Cascade) error {
	for i, s := range c {
		if !s.isFinite() {
			return fmt.Errorf("%w: section %d has non-finite coefficients", ErrInvalidDesign, i)
		}
	}
	if r := c.MaxPoleRadius(); !(r < maxPoleRadius) {
		return fmt.Errorf("%w: pole radius %.15f is not inside the unit circle", ErrInvalidDesign, r)
	}
	return nil
}

// prototypePoles returns the poles of the unit-cutoff analog Butterworth
// low-pass of the given order.
func prototypePoles(order int) []complex128 {
	poles := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		poles = append(poles, -cmplx.Exp(complex(0, theta)))
	}
	return poles
}

// prewarp maps a normalized digital edge to its analog frequency.
func prewarp(wn float64) float64 {
	return 2 * bilinearFs * math.Tan(math.Pi*wn/bilinearFs)
}

// bilinear maps an s-plane root to the z-plane.
func bilinear(s complex128) complex128 {
	k := complex(2*bilinearFs, 0)
	return (k + s) / (k - s)
}

// conjugatePairSection builds a section from pole p and its conjugate.
func conjugatePairSection(p complex128) Section {
	return Section{
		B0: 1, B1: 0, B2: -1,
		A1: -2 * real(p),
		A2: real(p)*real(p) + imag(p)*imag(p),
	}
}

// poleSection builds a section from two poles that are real or conjugate.
func poleSection(p1, p2 complex128) Section {
	return Section{
		B0: 1, B1: 0, B2: -1,
		A1: -real(p1 + p2),
		A2: real(p1 * p2),
	}
}
