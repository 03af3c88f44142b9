package octave

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-octave-analyzer/internal/filter"
	"github.com/tphakala/go-octave-analyzer/internal/mathutil"
)

// Signal is a complete, in-memory mono recording.
type Signal struct {
	Samples    []float64
	SampleRate float64 // Hz
}

// BandLevel is the measured level of one band.
type BandLevel struct {
	CenterHz float64
	LevelDB  float64
}

// FilterBank holds one designed band-pass filter per band of a BandTable.
// It is immutable and safe for concurrent use.
type FilterBank struct {
	table   *BandTable
	filters []*filter.Bandpass
}

// NewFilterBank designs the band filters for table. It fails with
// ErrFilterDesign if any band cannot be realized as a stable cascade.
func NewFilterBank(table *BandTable) (*FilterBank, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty band table", ErrConfiguration)
	}

	nyquist := table.Nyquist()
	filters := make([]*filter.Bandpass, table.Len())
	for i, b := range table.bands {
		bp, err := filter.DesignBandpass(b.LowerHz/nyquist, b.UpperHz/nyquist, b.Order)
		if err != nil {
			return nil, fmt.Errorf("%w: band %v Hz (order %d): %w", ErrFilterDesign, b.CenterHz, b.Order, err)
		}
		filters[i] = bp
	}

	return &FilterBank{table: table, filters: filters}, nil
}

// Table returns the band table the bank was designed from.
func (fb *FilterBank) Table() *BandTable { return fb.table }

// Filter returns one zero-phase filtered copy of the signal per band, in
// table order. Every result has the input's length.
func (fb *FilterBank) Filter(sig Signal) ([][]float64, error) {
	if err := validateSignal(sig); err != nil {
		return nil, err
	}

	out := make([][]float64, len(fb.filters))
	for i, bp := range fb.filters {
		out[i] = bp.Sections.FiltFilt(sig.Samples)
	}
	return out, nil
}

// Analyze filters the signal through every band and reduces each band to
// its RMS level. The result has exactly one entry per band, ascending by
// center frequency; on error nothing is returned.
func (fb *FilterBank) Analyze(sig Signal) ([]BandLevel, error) {
	if err := validateSignal(sig); err != nil {
		return nil, err
	}

	levels := make([]BandLevel, len(fb.filters))
	for i, bp := range fb.filters {
		levels[i] = BandLevel{
			CenterHz: fb.table.bands[i].CenterHz,
			LevelDB:  mathutil.LevelDB(bp.Sections.FiltFilt(sig.Samples)),
		}
	}
	return levels, nil
}

// ResponseDB returns each band's zero-phase magnitude response |H|² in dB
// at freqHz, floored at SilenceFloorDB.
func (fb *FilterBank) ResponseDB(freqHz float64) []float64 {
	w := 2 * math.Pi * freqHz / fb.table.sampleRate
	out := make([]float64, len(fb.filters))
	for i, bp := range fb.filters {
		h := cmplx.Abs(bp.Sections.Response(w))
		out[i] = mathutil.AmplitudeToDB(h * h)
	}
	return out
}

// ImpulseResponse returns band i's zero-phase response to a unit impulse
// placed at the center of n samples.
func (fb *FilterBank) ImpulseResponse(i, n int) []float64 {
	if n < 1 {
		return []float64{}
	}
	x := make([]float64, n)
	x[n/2] = 1
	return fb.filters[i].Sections.FiltFilt(x)
}

// Analyze designs the filter bank for table and analyzes one signal.
func Analyze(table *BandTable, sig Signal) ([]BandLevel, error) {
	fb, err := NewFilterBank(table)
	if err != nil {
		return nil, err
	}
	return fb.Analyze(sig)
}

// LevelDB returns the RMS level of x in dB, or SilenceFloorDB when the
// RMS is exactly zero. An empty x also yields SilenceFloorDB.
func LevelDB(x []float64) float64 {
	return mathutil.LevelDB(x)
}

// LevelDBFloat32 is like LevelDB for float32 samples.
func LevelDBFloat32(x []float32) float64 {
	return mathutil.LevelDB(x)
}

func validateSignal(sig Signal) error {
	if len(sig.Samples) == 0 {
		return fmt.Errorf("%w: signal is empty", ErrInput)
	}
	if !(sig.SampleRate > 0) || math.IsInf(sig.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v must be positive and finite", ErrInput, sig.SampleRate)
	}
	for i, v := range sig.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sample %d is not finite", ErrInput, i)
		}
	}
	return nil
}
