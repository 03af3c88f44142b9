package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	octave "github.com/tphakala/go-octave-analyzer"
	"github.com/tphakala/go-octave-analyzer/internal/spectrum"
)

// configKeyAnnotation marks a flag with the config key it overrides.
const configKeyAnnotation = "octave_config_key"

// bind records that f overrides key. Several commands may declare a flag
// for the same key, so binding to viper waits until the running command
// is known; see bindFlags.
func (a *app) bind(f *pflag.Flag, key string) {
	if f.Annotations == nil {
		f.Annotations = make(map[string][]string)
	}
	f.Annotations[configKeyAnnotation] = []string{key}
}

// bindFlags binds the annotated flags of fs to their config keys. Unset
// flags leave the key's default, file or environment value in place.
func (a *app) bindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if err != nil || len(keys) == 0 {
			return
		}
		if bindErr := a.v.BindPFlag(keys[0], f); bindErr != nil {
			err = fmt.Errorf("bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// bandReport is one row of the bands command output.
type bandReport struct {
	band       octave.BandSpec
	lowerDB    float64
	centerDB   float64
	upperDB    float64
	measuredHz float64
}

// measureBands evaluates every band's designed response at its edges and
// center, and locates the peak of its zero-phase impulse response spectrum.
func measureBands(fb *octave.FilterBank, impulseLen int) ([]bandReport, error) {
	table := fb.Table()
	reports := make([]bandReport, table.Len())

	for i := range reports {
		b := table.At(i)
		mag, err := spectrum.Compute(fb.ImpulseResponse(i, impulseLen), table.SampleRate())
		if err != nil {
			return nil, fmt.Errorf("band %v Hz: %w", b.CenterHz, err)
		}
		peak, _ := mag.Peak()

		reports[i] = bandReport{
			band:       b,
			lowerDB:    fb.ResponseDB(b.LowerHz)[i],
			centerDB:   fb.ResponseDB(b.CenterHz)[i],
			upperDB:    fb.ResponseDB(b.UpperHz)[i],
			measuredHz: peak,
		}
	}
	return reports, nil
}

func writeBandReport(w io.Writer, sampleRate float64, reports []bandReport) {
	fmt.Fprintf(w, "Band table at %.0f Hz (%d bands)\n\n", sampleRate, len(reports))
	fmt.Fprintf(w, "%9s %10s %10s %5s %8s %8s %8s %10s\n",
		"Center", "Lower", "Upper", "Order", "dB@lo", "dB@fc", "dB@hi", "Peak Hz")
	for _, r := range reports {
		fmt.Fprintf(w, "%9.0f %10.2f %10.2f %5d %8.2f %8.2f %8.2f %10.1f\n",
			r.band.CenterHz, r.band.LowerHz, r.band.UpperHz, r.band.Order,
			r.lowerDB, r.centerDB, r.upperDB, r.measuredHz)
	}
}
