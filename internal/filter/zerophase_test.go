package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-octave-analyzer/internal/mathutil"
	"github.com/tphakala/go-octave-analyzer/internal/testutil"
)

const (
	impulseLength = 8192
	impulseIndex  = impulseLength / 2
)

func TestPadLength(t *testing.T) {
	assert.Equal(t, 15, designAt(t, 50, 2).Sections.PadLength())
	assert.Equal(t, 27, designAt(t, 1000, 4).Sections.PadLength())
}

func TestFiltFilt_PreservesLength(t *testing.T) {
	bp := designAt(t, 1000, 4)
	for _, n := range []int{1, 2, 3, 10, 27, 28, 1000, 4801} {
		x := testutil.Uniform(n, uint64(n))
		y := bp.Sections.FiltFilt(x)
		assert.Len(t, y, n, "input length %d", n)
		testutil.AssertNoNaNOrInf(t, y)
	}
}

func TestFiltFilt_EmptyInput(t *testing.T) {
	bp := designAt(t, 1000, 4)
	y := bp.Sections.FiltFilt(nil)
	assert.NotNil(t, y)
	assert.Empty(t, y)
}

func TestFiltFilt_DoesNotModifyInput(t *testing.T) {
	bp := designAt(t, 500, 4)
	x := testutil.Uniform(2048, 7)
	orig := append([]float64(nil), x...)
	_ = bp.Sections.FiltFilt(x)
	assert.Equal(t, orig, x)
}

func TestFiltFilt_ImpulseResponseIsSymmetric(t *testing.T) {
	for _, center := range []float64{500, 1000, 4000} {
		bp := designAt(t, center, 4)
		y := bp.Sections.FiltFilt(testutil.Impulse(impulseLength, impulseIndex))
		testutil.AssertSymmetricAbout(t, y, impulseIndex, 1e-9)
	}
}

func TestFiltFilt_NoTimeShift(t *testing.T) {
	bp := designAt(t, 1000, 4)
	y := bp.Sections.FiltFilt(testutil.Impulse(impulseLength, impulseIndex))

	peak := 0
	for i := range y {
		if math.Abs(y[i]) > math.Abs(y[peak]) {
			peak = i
		}
	}
	assert.Equal(t, impulseIndex, peak)
}

func TestFilter_CausalPassIsDelayed(t *testing.T) {
	bp := designAt(t, 1000, 4)
	y := bp.Sections.Filter(testutil.Impulse(impulseLength, impulseIndex))
	require.Len(t, y, impulseLength)

	peak := 0
	for i := range y {
		if math.Abs(y[i]) > math.Abs(y[peak]) {
			peak = i
		}
	}
	assert.Greater(t, peak, impulseIndex)

	for i := range impulseIndex {
		assert.Zero(t, y[i])
	}
}

func TestFiltFilt_ConstantInputIsRejected(t *testing.T) {
	bp := designAt(t, 125, 4)
	y := bp.Sections.FiltFilt(testutil.Constant(4000, 0.5))
	for i, v := range y {
		require.InDelta(t, 0.0, v, 1e-12, "sample %d", i)
	}
}

func TestFiltFilt_MagnitudeIsSquaredResponse(t *testing.T) {
	const n = int(testSampleRate)
	bp := designAt(t, 1000, 4)

	tests := []struct {
		name     string
		freq     float64
		expected float64 // steady-state RMS of a unit sine after |H|²
	}{
		{"center", 1000, 1 / math.Sqrt2},
		{"upper_edge", 1000 * sixthOctave, 0.5 / math.Sqrt2},
		{"lower_edge", 1000 / sixthOctave, 0.5 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := bp.Sections.FiltFilt(testutil.Sine(n, tt.freq, testSampleRate, 1))
			middle := y[n/4 : 3*n/4]
			assert.InDelta(t, tt.expected, mathutil.RMS(middle), 0.01)
		})
	}
}

func TestFiltFilt_Deterministic(t *testing.T) {
	bp := designAt(t, 2500, 4)
	x := testutil.Uniform(3000, 42)
	assert.Equal(t, bp.Sections.FiltFilt(x), bp.Sections.FiltFilt(x))
}

func BenchmarkFiltFilt(b *testing.B) {
	bp, err := DesignBandpass(1000/sixthOctave/testNyquist, 1000*sixthOctave/testNyquist, 4)
	if err != nil {
		b.Fatal(err)
	}
	x := testutil.Uniform(int(testSampleRate), 1)

	b.ReportAllocs()
	for b.Loop() {
		_ = bp.Sections.FiltFilt(x)
	}
}
