package octave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-octave-analyzer/internal/testutil"
)

var supportedRates = []float64{16000, 22050, 32000, 44100, 48000, 88200, 96000, 192000}

func TestBuildBandTable_Invariants(t *testing.T) {
	for _, rate := range supportedRates {
		table, err := BuildBandTable(rate)
		require.NoError(t, err, "rate %v", rate)

		require.Equal(t, NumBands, table.Len())
		assert.Equal(t, StandardCenters(), table.Centers())
		testutil.AssertStrictlyIncreasing(t, table.Centers())

		for _, b := range table.Bands() {
			assert.Less(t, b.LowerHz, b.CenterHz)
			assert.Less(t, b.CenterHz, b.UpperHz)
			assert.Less(t, b.UpperHz, rate/2)
		}
	}
}

func TestBuildBandTable_EdgesAndOrders(t *testing.T) {
	table, err := BuildBandTable(48000)
	require.NoError(t, err)

	factor := math.Pow(2, 1.0/6.0)
	for i, b := range table.Bands() {
		assert.InDelta(t, b.CenterHz/factor, b.LowerHz, 1e-12, "band %d", i)
		assert.InDelta(t, b.CenterHz*factor, b.UpperHz, 1e-12, "band %d", i)

		want := 4
		if b.CenterHz < 100 {
			want = 2
		}
		assert.Equal(t, want, b.Order, "band %v Hz", b.CenterHz)
	}

	// 100 Hz sits on the split and gets the steeper filter.
	assert.Equal(t, 100.0, table.At(3).CenterHz)
	assert.Equal(t, 4, table.At(3).Order)
	assert.Equal(t, 2, table.At(2).Order)
}

func TestBuildBandTable_InvalidSampleRate(t *testing.T) {
	for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1), math.Inf(-1)} {
		table, err := BuildBandTable(rate)
		require.ErrorIs(t, err, ErrConfiguration, "rate %v", rate)
		assert.Nil(t, table)
	}
}

func TestBuildBandTable_UpperEdgeAboveNyquist(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"nyquist_equals_top_center", 10000},
		{"nyquist_inside_top_band", 11000},
		{"telephony", 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildBandTable(tt.rate)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), "exceeds Nyquist")
		})
	}

	// Just above 2 * 5000 * 2^(1/6) is enough.
	_, err := BuildBandTable(11300)
	require.NoError(t, err)
}

func TestBuildBandTableWith_CustomCenters(t *testing.T) {
	centers := []float64{500, 1000, 2000}
	table, err := BuildBandTableWith(48000, centers, WithBandwidthExponent(0.5), WithOrderSplit(1000, 3, 6))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	assert.InDelta(t, 1000/math.Sqrt2, table.At(1).LowerHz, 1e-9)
	assert.InDelta(t, 1000*math.Sqrt2, table.At(1).UpperHz, 1e-9)
	assert.Equal(t, 3, table.At(0).Order)
	assert.Equal(t, 6, table.At(1).Order)
	assert.Equal(t, 6, table.At(2).Order)
}

func TestBuildBandTableWith_InvalidCenters(t *testing.T) {
	tests := []struct {
		name    string
		centers []float64
	}{
		{"empty", nil},
		{"zero", []float64{0, 100}},
		{"negative", []float64{-50, 100}},
		{"descending", []float64{200, 100}},
		{"duplicate", []float64{100, 100}},
		{"nan", []float64{math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildBandTableWith(48000, tt.centers)
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestBandTable_BandsReturnsCopy(t *testing.T) {
	table, err := BuildBandTable(48000)
	require.NoError(t, err)

	bands := table.Bands()
	bands[0].CenterHz = 1
	assert.Equal(t, 50.0, table.At(0).CenterHz)

	centers := StandardCenters()
	centers[0] = 1
	assert.Equal(t, 50.0, StandardCenters()[0])
}
