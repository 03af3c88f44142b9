package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-octave-analyzer/internal/testutil"
)

func TestRMS(t *testing.T) {
	tests := []struct {
		name     string
		x        []float64
		expected float64
	}{
		{"Empty", nil, 0},
		{"Zeros", make([]float64, 16), 0},
		{"Constant", testutil.Constant(1000, 0.5), 0.5},
		{"Alternating", []float64{1, -1, 1, -1}, 1},
		{"Full scale sine", testutil.Sine(48000, 1000, 48000, 1), 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, RMS(tt.x), 1e-9)
		})
	}
}

func TestLevelDB_ConstantHalfAmplitude(t *testing.T) {
	level := LevelDB(testutil.Constant(1000, 0.5))
	assert.InDelta(t, -6.0206, level, 1e-4)
}

func TestLevelDB_SilenceIsFloor(t *testing.T) {
	level := LevelDB(make([]float64, 1000))
	assert.Equal(t, SilenceFloorDB, level)
	assert.False(t, math.IsInf(level, 0))
}

func TestLevelDB_Sine440(t *testing.T) {
	// One second of a 440 Hz sine sampled at 1000 points over [0, 1].
	x := make([]float64, 1000)
	for i := range x {
		tt := float64(i) / float64(len(x)-1)
		x[i] = math.Sin(2 * math.Pi * 440 * tt)
	}
	assert.Greater(t, LevelDB(x), -10.0)
}

func TestLevelDB_Float32(t *testing.T) {
	x := make([]float32, 1000)
	for i := range x {
		x[i] = 0.5
	}
	assert.InDelta(t, -6.0206, LevelDB(x), 1e-4)
}

func TestAmplitudeToDB(t *testing.T) {
	assert.InDelta(t, 0.0, AmplitudeToDB(1), 1e-12)
	assert.InDelta(t, -20.0, AmplitudeToDB(0.1), 1e-12)
	assert.Equal(t, SilenceFloorDB, AmplitudeToDB(0))
	assert.Equal(t, SilenceFloorDB, AmplitudeToDB(-1))
}
