package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-octave-analyzer/internal/batch"
	"github.com/tphakala/go-octave-analyzer/internal/config"
	"github.com/tphakala/go-octave-analyzer/internal/export"
	"github.com/tphakala/go-octave-analyzer/internal/testutil"
	"github.com/tphakala/go-octave-analyzer/internal/wavio"
)

const (
	testSettle  = 50 * time.Millisecond
	waitTimeout = 10 * time.Second
)

func startWatcher(t *testing.T) (dir string, results <-chan export.FileOutcome) {
	t.Helper()

	dir = t.TempDir()
	cfg := &config.Config{
		SampleRate:   48000,
		InputDir:     dir,
		OutputDir:    t.TempDir(),
		CSVSubdir:    "csv_data",
		Extensions:   []string{".wav", ".WAV"},
		Workers:      1,
		RateMismatch: config.MismatchRebuild,
		ChannelMode:  "mix",
		LogLevel:     "info",
	}
	require.NoError(t, export.EnsureDir(filepath.Join(cfg.OutputDir, cfg.CSVSubdir)))

	logger, _ := logtest.NewNullLogger()
	runner, err := batch.NewRunner(cfg, logger)
	require.NoError(t, err)

	ch := make(chan export.FileOutcome, 8)
	w, err := New(runner, logger, dir, Options{
		Settle:   testSettle,
		OnResult: func(o export.FileOutcome) { ch <- o },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(waitTimeout):
			t.Error("watcher did not stop")
		}
	})

	return dir, ch
}

func TestWatcher_AnalyzesNewFile(t *testing.T) {
	dir, results := startWatcher(t)

	path := filepath.Join(dir, "incoming.wav")
	require.NoError(t, wavio.Write(path, testutil.Sine(12000, 1000, 48000, 0.5), 48000, 16))

	select {
	case out := <-results:
		assert.Equal(t, path, out.Input)
		assert.Equal(t, export.StatusOK, out.Status)
		assert.FileExists(t, out.Output)
	case <-time.After(waitTimeout):
		t.Fatal("no analysis result")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir, results := startWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case out := <-results:
		t.Fatalf("unexpected result for %s", out.Input)
	case <-time.After(10 * testSettle):
	}
}

func TestWatcher_RemovedBeforeSettle(t *testing.T) {
	dir, results := startWatcher(t)

	path := filepath.Join(dir, "gone.wav")
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0o644))
	require.NoError(t, os.Remove(path))

	select {
	case out := <-results:
		t.Fatalf("unexpected result for %s", out.Input)
	case <-time.After(10 * testSettle):
	}
}

func TestNew_MissingDir(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := New(nil, logger, filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
}
