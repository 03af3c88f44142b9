// Package batch analyzes folders of WAV files and writes one band-level CSV
// per file plus an optional run manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	octave "github.com/tphakala/go-octave-analyzer"
	"github.com/tphakala/go-octave-analyzer/internal/config"
	"github.com/tphakala/go-octave-analyzer/internal/export"
	"github.com/tphakala/go-octave-analyzer/internal/wavio"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = "manifest.yaml"

var (
	// ErrNoAudioFiles is returned when there is nothing to analyze.
	ErrNoAudioFiles = errors.New("no audio files found")

	// ErrAllFailed is returned when every attempted file failed.
	ErrAllFailed = errors.New("all files failed")

	// ErrRateRejected marks files skipped by the reject mismatch policy.
	ErrRateRejected = errors.New("sample rate does not match configuration")
)

// Runner analyzes WAV files with a shared configuration. Filter banks are
// designed once per sample rate and reused across files and workers.
type Runner struct {
	cfg         *config.Config
	log         logrus.FieldLogger
	channelMode wavio.ChannelMode

	mu    sync.Mutex
	banks map[float64]*octave.FilterBank
}

// NewRunner validates cfg and designs the filter bank for its sample rate.
func NewRunner(cfg *config.Config, log logrus.FieldLogger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := wavio.ParseChannelMode(cfg.ChannelMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	r := &Runner{
		cfg:         cfg,
		log:         log,
		channelMode: mode,
		banks:       make(map[float64]*octave.FilterBank),
	}
	if _, err := r.bank(cfg.SampleRate); err != nil {
		return nil, err
	}
	return r, nil
}

// CSVDir returns the directory receiving per-file CSVs.
func (r *Runner) CSVDir() string {
	return filepath.Join(r.cfg.OutputDir, r.cfg.CSVSubdir)
}

// Accepts reports whether path has one of the configured extensions.
func (r *Runner) Accepts(path string) bool {
	return slices.Contains(r.cfg.Extensions, filepath.Ext(path))
}

// Discover lists the audio files directly inside dir, sorted by name.
// Subdirectories are not searched.
func (r *Runner) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !r.Accepts(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Run analyzes files and returns the run manifest. A failing file is logged
// and recorded; the rest still run. The error is ErrAllFailed when no file
// succeeded, or the context error when ctx was canceled.
func (r *Runner) Run(ctx context.Context, files []string) (*export.Manifest, error) {
	if len(files) == 0 {
		return nil, ErrNoAudioFiles
	}

	m := &export.Manifest{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		SampleRate: r.cfg.SampleRate,
		InputDir:   r.cfg.InputDir,
		OutputDir:  r.cfg.OutputDir,
	}
	log := r.log.WithField("run_id", m.RunID)
	log.WithField("files", len(files)).Info("starting analysis")

	if err := export.EnsureDir(r.CSVDir()); err != nil {
		return nil, err
	}

	if r.cfg.Workers > 1 {
		m.Files = r.runParallel(ctx, log, files)
	} else {
		m.Files = r.runSequential(ctx, log, files)
	}
	m.FinishedAt = time.Now().UTC()

	ok, failed := m.Counts()
	log.WithFields(logrus.Fields{
		"ok":      ok,
		"failed":  failed,
		"skipped": len(m.Files) - ok - failed,
	}).Info("analysis finished")

	if r.cfg.Manifest {
		path := filepath.Join(r.cfg.OutputDir, ManifestName)
		if err := export.WriteManifest(path, m); err != nil {
			return m, err
		}
	}

	if err := ctx.Err(); err != nil {
		return m, err
	}
	if ok == 0 && failed > 0 {
		return m, ErrAllFailed
	}
	return m, nil
}

func (r *Runner) runSequential(ctx context.Context, log logrus.FieldLogger, files []string) []export.FileOutcome {
	outcomes := make([]export.FileOutcome, len(files))
	for i, path := range files {
		if ctx.Err() != nil {
			outcomes[i] = canceled(path, ctx.Err())
			continue
		}
		outcomes[i] = r.ProcessFile(log, path)
	}
	return outcomes
}

// runParallel processes up to Workers files at once. Outcomes keep the
// order of files.
func (r *Runner) runParallel(ctx context.Context, log logrus.FieldLogger, files []string) []export.FileOutcome {
	outcomes := make([]export.FileOutcome, len(files))
	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup

	for i, path := range files {
		select {
		case <-ctx.Done():
			outcomes[i] = canceled(path, ctx.Err())
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[idx] = r.ProcessFile(log, p)
		}(i, path)
	}
	wg.Wait()

	return outcomes
}

// ProcessFile reads, analyzes and exports one file.
func (r *Runner) ProcessFile(log logrus.FieldLogger, path string) export.FileOutcome {
	start := time.Now()
	out := export.FileOutcome{Input: path}
	flog := log.WithField("file", filepath.Base(path))

	rec, err := wavio.Read(path, r.channelMode)
	if err != nil {
		return markFailed(flog, out, err)
	}
	out.SampleRate = rec.SampleRate
	flog = flog.WithField("sample_rate", rec.SampleRate)

	bank, err := r.bankFor(flog, rec.SampleRate)
	if errors.Is(err, ErrRateRejected) {
		flog.WithError(err).Warn("skipping file")
		out.Status = export.StatusSkipped
		out.Error = err.Error()
		return out
	}
	if err != nil {
		return markFailed(flog, out, err)
	}

	levels, err := bank.Analyze(octave.Signal{
		Samples:    rec.Samples,
		SampleRate: float64(rec.SampleRate),
	})
	if err != nil {
		return markFailed(flog, out, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	csvPath := export.CSVPath(r.CSVDir(), stem)
	if err := export.WriteCSV(csvPath, levels); err != nil {
		return markFailed(flog, out, err)
	}

	out.Output = csvPath
	out.Status = export.StatusOK
	out.Seconds = time.Since(start).Seconds()
	flog.WithFields(logrus.Fields{
		"bands":  len(levels),
		"output": csvPath,
	}).Info("band levels saved")
	return out
}

// bankFor applies the sample-rate mismatch policy.
func (r *Runner) bankFor(log logrus.FieldLogger, rate int) (*octave.FilterBank, error) {
	fileRate := float64(rate)
	if fileRate == r.cfg.SampleRate {
		return r.bank(fileRate)
	}

	switch r.cfg.RateMismatch {
	case config.MismatchReject:
		return nil, fmt.Errorf("%w: file %d Hz, configured %v Hz", ErrRateRejected, rate, r.cfg.SampleRate)
	case config.MismatchWarn:
		log.WithField("configured_rate", r.cfg.SampleRate).
			Warn("sample rate mismatch, analyzing with configured band table")
		return r.bank(r.cfg.SampleRate)
	default:
		log.WithField("configured_rate", r.cfg.SampleRate).
			Debug("sample rate mismatch, using band table for file rate")
		return r.bank(fileRate)
	}
}

// bank returns the cached filter bank for rate, designing it on first use.
func (r *Runner) bank(rate float64) (*octave.FilterBank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fb, ok := r.banks[rate]; ok {
		return fb, nil
	}
	table, err := octave.BuildBandTable(rate)
	if err != nil {
		return nil, err
	}
	fb, err := octave.NewFilterBank(table)
	if err != nil {
		return nil, err
	}
	r.banks[rate] = fb
	return fb, nil
}

func markFailed(log logrus.FieldLogger, out export.FileOutcome, err error) export.FileOutcome {
	log.WithError(err).Error("analysis failed")
	out.Status = export.StatusFailed
	out.Error = err.Error()
	return out
}

func canceled(path string, err error) export.FileOutcome {
	return export.FileOutcome{
		Input:  path,
		Status: export.StatusSkipped,
		Error:  err.Error(),
	}
}
