package mathutil

import (
	"math"

	"github.com/tphakala/go-octave-analyzer/internal/simdops"
)

// Level conversion constants.
const (
	// SilenceFloorDB is returned for a signal whose RMS is exactly zero.
	SilenceFloorDB = -100.0

	// amplitudeDBFactor converts an amplitude ratio to dB: 20*log10(x).
	amplitudeDBFactor = 20.0
)

// RMS returns sqrt(mean(x²)). An empty slice yields 0.
func RMS[F simdops.Float](x []F) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(simdops.SumSquares(x) / float64(len(x)))
}

// AmplitudeToDB converts a linear amplitude to dB.
// Zero (or negative) amplitudes map to SilenceFloorDB rather than -Inf.
func AmplitudeToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return SilenceFloorDB
	}
	return amplitudeDBFactor * math.Log10(amplitude)
}

// LevelDB reduces a signal to its RMS level in dB.
func LevelDB[F simdops.Float](x []F) float64 {
	return AmplitudeToDB(RMS(x))
}
