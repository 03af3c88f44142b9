package spectrum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-octave-analyzer/internal/testutil"
)

const testSampleRate = 48000.0

func TestCompute_EmptyInput(t *testing.T) {
	_, err := Compute(nil, testSampleRate)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestCompute_PadsToPowerOfTwo(t *testing.T) {
	m, err := Compute(testutil.Constant(1000, 1), testSampleRate)
	require.NoError(t, err)
	// 1024-point real FFT has 513 unique bins.
	assert.Len(t, m.Mags, 513)
	assert.Len(t, m.Freqs, 513)
	assert.InDelta(t, testSampleRate/2, m.Freqs[len(m.Freqs)-1], 1e-9)
}

func TestPeak_FindsSineFrequency(t *testing.T) {
	// 1500 Hz falls exactly on bin 128 of a 4096-point FFT at 48 kHz.
	m, err := Compute(testutil.Sine(4096, 1500, testSampleRate, 1), testSampleRate)
	require.NoError(t, err)

	freq, mag := m.Peak()
	assert.InDelta(t, 1500.0, freq, 1e-9)
	assert.InDelta(t, 2048.0, mag, 1e-6)
}

func TestHalfPowerEdges_SingleBin(t *testing.T) {
	m, err := Compute(testutil.Sine(4096, 1500, testSampleRate, 1), testSampleRate)
	require.NoError(t, err)

	low, high := m.HalfPowerEdges()
	assert.InDelta(t, 1500.0, low, 1e-9)
	assert.InDelta(t, 1500.0, high, 1e-9)
}
