// Package octave measures recorded audio in fixed fractional-octave bands.
//
// The analyzer splits a signal into 21 bands centered from 50 Hz to 5 kHz,
// each one a sixth of an octave either side of its center, and reduces
// every band to a single RMS level in dB. The result is a small table of
// (center frequency, level) pairs per recording, suitable for impulse
// response and ambient-noise measurement workflows.
//
// # Quick Start
//
//	table, err := octave.BuildBandTable(48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	levels, err := octave.Analyze(table, octave.Signal{
//	    Samples:    samples,
//	    SampleRate: 48000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range levels {
//	    fmt.Printf("%.2f Hz: %.2f dB\n", l.CenterHz, l.LevelDB)
//	}
//
// When many signals share one sample rate, build a [FilterBank] once with
// [NewFilterBank] and call [FilterBank.Analyze] per signal.
//
// # Band Table
//
// For each center frequency c, the edges are c/2^(1/6) and c*2^(1/6).
// Bands centered below 100 Hz use a second-order Butterworth prototype,
// the rest fourth-order. [BuildBandTable] fails with [ErrConfiguration] if
// the sample rate is not positive or any upper edge reaches Nyquist; edges
// are never clamped.
//
// # Filtering
//
// Each band is a Butterworth band-pass realized as cascaded second-order
// sections, run forward and then backward over the signal so the result
// has no phase shift and the same length as the input. Both ends are
// extended with the edge sample before filtering and trimmed afterwards.
// A design whose poles are not strictly inside the unit circle is rejected
// with [ErrFilterDesign].
//
// # Levels
//
// Each filtered band reduces to 20*log10(rms). An RMS of exactly zero
// yields [SilenceFloorDB] (-100 dB) instead of -Inf.
//
// # Thread Safety
//
// [BandTable] and [FilterBank] are immutable after construction. [Analyze]
// and [FilterBank.Analyze] share no mutable state and may be called from
// multiple goroutines.
package octave
