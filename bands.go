package octave

import (
	"fmt"
	"math"
)

// BandSpec describes one analysis band.
type BandSpec struct {
	CenterHz float64 // nominal center frequency
	LowerHz  float64 // lower -3 dB edge
	UpperHz  float64 // upper -3 dB edge
	Order    int     // Butterworth prototype order
}

// BandTable is an ordered, immutable set of bands for one sample rate.
// The zero value is not usable; build one with BuildBandTable.
type BandTable struct {
	bands      []BandSpec
	sampleRate float64
}

type tableConfig struct {
	exponent  float64
	splitHz   float64
	lowOrder  int
	highOrder int
}

func defaultTableConfig() tableConfig {
	return tableConfig{
		exponent:  defaultBandwidthExponent,
		splitHz:   orderSplitHz,
		lowOrder:  lowOrder,
		highOrder: highOrder,
	}
}

// BandOption configures BuildBandTableWith.
type BandOption func(*tableConfig)

// WithBandwidthExponent sets the edge factor to 2^exponent. Non-positive
// values are ignored.
func WithBandwidthExponent(exponent float64) BandOption {
	return func(cfg *tableConfig) {
		if exponent > 0 {
			cfg.exponent = exponent
		}
	}
}

// WithOrderSplit assigns low to bands centered strictly below splitHz and
// high to the rest. Orders below 1 are ignored.
func WithOrderSplit(splitHz float64, low, high int) BandOption {
	return func(cfg *tableConfig) {
		if low >= 1 && high >= 1 {
			cfg.splitHz = splitHz
			cfg.lowOrder = low
			cfg.highOrder = high
		}
	}
}

// BuildBandTable derives the standard 21-band table for sampleRate.
func BuildBandTable(sampleRate float64) (*BandTable, error) {
	return BuildBandTableWith(sampleRate, standardCenters[:])
}

// BuildBandTableWith derives a band table for arbitrary centers, which must
// be positive and strictly increasing. It fails with ErrConfiguration if
// sampleRate is not a positive finite number or any upper edge is at or
// above Nyquist.
func BuildBandTableWith(sampleRate float64, centers []float64, opts ...BandOption) (*BandTable, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %v must be positive and finite", ErrConfiguration, sampleRate)
	}
	if len(centers) == 0 {
		return nil, fmt.Errorf("%w: no center frequencies", ErrConfiguration)
	}

	cfg := defaultTableConfig()
	for _, o := range opts {
		o(&cfg)
	}

	factor := math.Pow(bandwidthBase, cfg.exponent)
	nyquist := sampleRate / 2

	bands := make([]BandSpec, len(centers))
	for i, c := range centers {
		if !(c > 0) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: center frequency %v must be positive and finite", ErrConfiguration, c)
		}
		if i > 0 && c <= centers[i-1] {
			return nil, fmt.Errorf("%w: center frequencies must be strictly increasing (%v after %v)",
				ErrConfiguration, c, centers[i-1])
		}

		upper := c * factor
		if upper >= nyquist {
			return nil, fmt.Errorf("%w: band %v Hz upper edge %.2f Hz exceeds Nyquist %.2f Hz",
				ErrConfiguration, c, upper, nyquist)
		}

		order := cfg.highOrder
		if c < cfg.splitHz {
			order = cfg.lowOrder
		}

		bands[i] = BandSpec{
			CenterHz: c,
			LowerHz:  c / factor,
			UpperHz:  upper,
			Order:    order,
		}
	}

	return &BandTable{bands: bands, sampleRate: sampleRate}, nil
}

// Len returns the number of bands.
func (t *BandTable) Len() int { return len(t.bands) }

// At returns band i.
func (t *BandTable) At(i int) BandSpec { return t.bands[i] }

// Bands returns a copy of all bands, ascending by center frequency.
func (t *BandTable) Bands() []BandSpec {
	out := make([]BandSpec, len(t.bands))
	copy(out, t.bands)
	return out
}

// Centers returns the band center frequencies in Hz.
func (t *BandTable) Centers() []float64 {
	out := make([]float64, len(t.bands))
	for i, b := range t.bands {
		out[i] = b.CenterHz
	}
	return out
}

// SampleRate returns the sample rate the table was built for.
func (t *BandTable) SampleRate() float64 { return t.sampleRate }

// Nyquist returns half the sample rate.
func (t *BandTable) Nyquist() float64 { return t.sampleRate / 2 }
