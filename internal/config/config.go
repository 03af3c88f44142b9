// Package config loads analyzer settings from defaults, an optional YAML
// file, OCTAVE_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Keys shared by viper, flags and the config file.
const (
	KeySampleRate   = "sample_rate"
	KeyInputDir     = "input_dir"
	KeyOutputDir    = "output_dir"
	KeyCSVSubdir    = "csv_subdir"
	KeyExtensions   = "extensions"
	KeyWorkers      = "workers"
	KeyRateMismatch = "rate_mismatch"
	KeyChannelMode  = "channel_mode"
	KeyLogLevel     = "log_level"
	KeyManifest     = "manifest"
	KeyWatchSettle  = "watch_settle_ms"
)

// Defaults
const (
	defaultSampleRate   = 48000.0
	defaultOutputDir    = "processed_output"
	defaultCSVSubdir    = "csv_data"
	defaultWorkers      = 1
	defaultRateMismatch = MismatchRebuild
	defaultChannelMode  = "mix"
	defaultLogLevel     = "info"
	defaultWatchSettle  = 500

	envPrefix  = "OCTAVE"
	maxWorkers = 256
)

// Sample-rate mismatch policies.
const (
	// MismatchRebuild analyzes with a band table built for the file's rate.
	MismatchRebuild = "rebuild"
	// MismatchWarn logs a warning and analyzes with the configured table.
	MismatchWarn = "warn"
	// MismatchReject skips the file.
	MismatchReject = "reject"
)

// Config holds all analyzer settings.
type Config struct {
	SampleRate    float64  `mapstructure:"sample_rate"`
	InputDir      string   `mapstructure:"input_dir"`
	OutputDir     string   `mapstructure:"output_dir"`
	CSVSubdir     string   `mapstructure:"csv_subdir"`
	Extensions    []string `mapstructure:"extensions"`
	Workers       int      `mapstructure:"workers"`
	RateMismatch  string   `mapstructure:"rate_mismatch"`
	ChannelMode   string   `mapstructure:"channel_mode"`
	LogLevel      string   `mapstructure:"log_level"`
	Manifest      bool     `mapstructure:"manifest"`
	WatchSettleMs int      `mapstructure:"watch_settle_ms"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySampleRate, defaultSampleRate)
	v.SetDefault(KeyOutputDir, defaultOutputDir)
	v.SetDefault(KeyCSVSubdir, defaultCSVSubdir)
	v.SetDefault(KeyExtensions, []string{".wav", ".WAV"})
	v.SetDefault(KeyWorkers, defaultWorkers)
	v.SetDefault(KeyRateMismatch, defaultRateMismatch)
	v.SetDefault(KeyChannelMode, defaultChannelMode)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyManifest, true)
	v.SetDefault(KeyWatchSettle, defaultWatchSettle)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !(c.SampleRate > 0) {
		return fmt.Errorf("%w: sample_rate must be positive", ErrInvalidConfig)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalidConfig)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: at least one extension is required", ErrInvalidConfig)
	}
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("%w: workers must be 1-%d", ErrInvalidConfig, maxWorkers)
	}
	switch c.RateMismatch {
	case MismatchRebuild, MismatchWarn, MismatchReject:
	default:
		return fmt.Errorf("%w: rate_mismatch must be %s, %s or %s",
			ErrInvalidConfig, MismatchRebuild, MismatchWarn, MismatchReject)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	if c.WatchSettleMs < 0 {
		return fmt.Errorf("%w: watch_settle_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// NewLogger builds a text logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
