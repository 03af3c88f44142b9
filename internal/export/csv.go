// Package export writes analysis results: one CSV table per recording and a
// YAML manifest per batch run.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	octave "github.com/tphakala/go-octave-analyzer"
)

// CSV column headers.
const (
	FrequencyHeader = "Frequency (Hz)"
	LevelHeader     = "Band Level (dB)"
)

const (
	csvSuffix     = "_band_levels.csv"
	floatDecimals = 2
	dirPerm       = 0o755
)

// CSVPath returns the table path for a recording stem inside dir.
func CSVPath(dir, stem string) string {
	return filepath.Join(dir, stem+csvSuffix)
}

// EnsureDir creates dir and its parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteCSV writes levels to path as a two-column table with a header row.
// Values are rendered with two decimals.
func WriteCSV(path string, levels []octave.BandLevel) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{FrequencyHeader, LevelHeader}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, l := range levels {
		if err := w.Write([]string{formatFloat(l.CenterHz), formatFloat(l.LevelDB)}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatDecimals, 64)
}
