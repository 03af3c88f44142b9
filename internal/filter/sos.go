// Package filter provides IIR band-pass design and zero-phase filtering
// built on cascaded second-order sections.
package filter

import (
	"math"
	"math/cmplx"
)

// Section holds the coefficients of one second-order section with a0
// normalized to 1.
//
// Processing uses Direct Form II Transposed:
//
//	y  = B0*x + z1
//	z1 = B1*x - A1*y + z2
//	z2 = B2*x - A2*y
type Section struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// state is the two-element delay line of one Section.
type state struct {
	z1, z2 float64
}

// Cascade is an ordered series of sections; each output feeds the next input.
type Cascade []Section

// Response returns H(e^jw) for w in radians per sample.
func (s Section) Response(w float64) complex128 {
	e1 := cmplx.Exp(complex(0, -w))
	e2 := e1 * e1
	num := complex(s.B0, 0) + complex(s.B1, 0)*e1 + complex(s.B2, 0)*e2
	den := 1 + complex(s.A1, 0)*e1 + complex(s.A2, 0)*e2
	return num / den
}

// Poles returns the roots of 1 + A1*z^-1 + A2*z^-2.
func (s Section) Poles() [2]complex128 {
	d := cmplx.Sqrt(complex(s.A1*s.A1-4*s.A2, 0))
	return [2]complex128{
		(complex(-s.A1, 0) + d) / 2,
		(complex(-s.A1, 0) - d) / 2,
	}
}

// dcGain returns H(1), the response to a constant input.
func (s Section) dcGain() float64 {
	return (s.B0 + s.B1 + s.B2) / (1 + s.A1 + s.A2)
}

// steadyState returns the delay line reached after a unit step has settled.
func (s Section) steadyState() state {
	g := s.dcGain()
	z2 := s.B2 - s.A2*g
	return state{z1: s.B1 - s.A1*g + z2, z2: z2}
}

// isFinite reports whether every coefficient is a finite number.
func (s Section) isFinite() bool {
	for _, c := range [5]float64{s.B0, s.B1, s.B2, s.A1, s.A2} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Response returns the product of all section responses at w rad/sample.
func (c Cascade) Response(w float64) complex128 {
	h := complex(1, 0)
	for _, s := range c {
		h *= s.Response(w)
	}
	return h
}

// MaxPoleRadius returns the largest pole magnitude across all sections.
func (c Cascade) MaxPoleRadius() float64 {
	var r float64
	for _, s := range c {
		for _, p := range s.Poles() {
			r = math.Max(r, cmplx.Abs(p))
		}
	}
	return r
}

// steadyStates returns per-section initial conditions for a unit step,
// each scaled by the DC gain of the sections before it.
func (c Cascade) steadyStates() []state {
	zi := make([]state, len(c))
	scale := 1.0
	for i, s := range c {
		ss := s.steadyState()
		zi[i] = state{z1: ss.z1 * scale, z2: ss.z2 * scale}
		scale *= s.dcGain()
	}
	return zi
}

// processInPlace runs buf through the cascade starting from zi scaled by x0.
// zi is not modified.
func (c Cascade) processInPlace(buf []float64, zi []state, x0 float64) {
	for i, s := range c {
		z1, z2 := zi[i].z1*x0, zi[i].z2*x0
		b0, b1, b2, a1, a2 := s.B0, s.B1, s.B2, s.A1, s.A2
		for n, x := range buf {
			y := b0*x + z1
			z1 = b1*x - a1*y + z2
			z2 = b2*x - a2*y
			buf[n] = y
		}
	}
}
