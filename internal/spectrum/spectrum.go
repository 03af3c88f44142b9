// Package spectrum measures magnitude spectra with gonum's real FFT.
// It is used to check designed band filters against their nominal edges.
package spectrum

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrEmptyInput is returned when there is nothing to transform.
var ErrEmptyInput = errors.New("spectrum: empty input")

// halfPowerDB is the -3 dB threshold relative to the peak.
const halfPowerDB = -3.0103

// Magnitude is a one-sided magnitude spectrum.
type Magnitude struct {
	Freqs []float64 // bin center frequencies in Hz
	Mags  []float64 // linear magnitudes
}

// Compute returns the one-sided magnitude spectrum of x at sampleRate.
// x is zero-padded to the next power of two.
func Compute(x []float64, sampleRate float64) (*Magnitude, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}

	n := 1
	for n < len(x) {
		n <<= 1
	}
	padded := make([]float64, n)
	copy(padded, x)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	m := &Magnitude{
		Freqs: make([]float64, len(coeffs)),
		Mags:  make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		m.Freqs[i] = fft.Freq(i) * sampleRate
		m.Mags[i] = cmplx.Abs(c)
	}
	return m, nil
}

// Peak returns the frequency and magnitude of the largest bin.
func (m *Magnitude) Peak() (freq, mag float64) {
	for i, v := range m.Mags {
		if v > mag {
			freq, mag = m.Freqs[i], v
		}
	}
	return freq, mag
}

// HalfPowerEdges returns the outermost frequencies around the peak where
// the magnitude is still within 3 dB of it.
func (m *Magnitude) HalfPowerEdges() (low, high float64) {
	peakIdx := 0
	for i, v := range m.Mags {
		if v > m.Mags[peakIdx] {
			peakIdx = i
		}
	}
	threshold := m.Mags[peakIdx] * math.Pow(10, halfPowerDB/20)

	lo := peakIdx
	for lo > 0 && m.Mags[lo-1] >= threshold {
		lo--
	}
	hi := peakIdx
	for hi < len(m.Mags)-1 && m.Mags[hi+1] >= threshold {
		hi++
	}
	return m.Freqs[lo], m.Freqs[hi]
}
