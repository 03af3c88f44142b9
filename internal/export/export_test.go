package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	octave "github.com/tphakala/go-octave-analyzer"
)

func TestCSVPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "csv_data", "room1_band_levels.csv"),
		CSVPath(filepath.Join("out", "csv_data"), "room1"))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x_band_levels.csv")
	levels := []octave.BandLevel{
		{CenterHz: 50, LevelDB: -100},
		{CenterHz: 63, LevelDB: -6.0206},
		{CenterHz: 1000, LevelDB: -3.014999},
	}
	require.NoError(t, WriteCSV(path, levels))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Frequency (Hz),Band Level (dB)\n"+
			"50.00,-100.00\n"+
			"63.00,-6.02\n"+
			"1000.00,-3.01\n",
		string(data))
}

func TestWriteCSV_BadPath(t *testing.T) {
	err := WriteCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create CSV file")
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestManifest_WriteRead(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	m := &Manifest{
		RunID:      "3f1c2a9e-0000-4000-8000-000000000001",
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
		SampleRate: 48000,
		InputDir:   "in",
		OutputDir:  "out",
		Files: []FileOutcome{
			{Input: "in/a.wav", Output: "out/csv_data/a_band_levels.csv", Status: StatusOK, SampleRate: 48000, Seconds: 1.5},
			{Input: "in/b.wav", Status: StatusFailed, Error: "invalid WAV file"},
			{Input: "in/c.wav", Status: StatusSkipped, Error: "sample rate 44100 Hz differs"},
		},
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, WriteManifest(path, m))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.True(t, m.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, m.Files, got.Files)

	ok, failed := got.Counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}
