package export

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File status values recorded in the manifest.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Manifest summarizes one batch run.
type Manifest struct {
	RunID      string        `yaml:"run_id"`
	StartedAt  time.Time     `yaml:"started_at"`
	FinishedAt time.Time     `yaml:"finished_at"`
	SampleRate float64       `yaml:"sample_rate"`
	InputDir   string        `yaml:"input_dir,omitempty"`
	OutputDir  string        `yaml:"output_dir"`
	Files      []FileOutcome `yaml:"files"`
}

// FileOutcome is the result of analyzing one input file.
type FileOutcome struct {
	Input      string  `yaml:"input"`
	Output     string  `yaml:"output,omitempty"`
	Status     string  `yaml:"status"`
	SampleRate int     `yaml:"sample_rate,omitempty"`
	Seconds    float64 `yaml:"seconds,omitempty"`
	Error      string  `yaml:"error,omitempty"`
}

// Counts returns how many files succeeded and failed.
func (m *Manifest) Counts() (ok, failed int) {
	for _, f := range m.Files {
		switch f.Status {
		case StatusOK:
			ok++
		case StatusFailed:
			failed++
		}
	}
	return ok, failed
}

// WriteManifest encodes m as YAML to path.
func WriteManifest(path string, m *Manifest) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return enc.Close()
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	var m Manifest
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
