package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-octave-analyzer/internal/batch"
	"github.com/tphakala/go-octave-analyzer/internal/config"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Write band levels of WAV files to CSV",
		Long: `Analyze every WAV file in --input (or the files given as arguments)
and write <output>/<csv-subdir>/<name>_band_levels.csv for each.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args)
		},
	}

	f := cmd.Flags()
	f.String("input", "", "folder of WAV files to analyze")
	f.String("output", "", "output folder")
	f.String("csv-subdir", "", "CSV subfolder inside the output folder")
	f.Int("workers", 0, "files analyzed in parallel")
	f.String("rate-mismatch", "", "policy for files at another sample rate: rebuild, warn or reject")
	f.String("channel-mode", "", "multichannel handling: mix or first")
	f.Bool("manifest", true, "write manifest.yaml into the output folder")
	a.bindCommon(cmd)
	a.bind(f.Lookup("workers"), config.KeyWorkers)
	a.bind(f.Lookup("rate-mismatch"), config.KeyRateMismatch)
	a.bind(f.Lookup("manifest"), config.KeyManifest)

	return cmd
}

// bindCommon binds the flags analyze and watch share.
func (a *app) bindCommon(cmd *cobra.Command) {
	f := cmd.Flags()
	a.bind(f.Lookup("input"), config.KeyInputDir)
	a.bind(f.Lookup("output"), config.KeyOutputDir)
	a.bind(f.Lookup("csv-subdir"), config.KeyCSVSubdir)
	a.bind(f.Lookup("channel-mode"), config.KeyChannelMode)
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	runner, err := batch.NewRunner(a.cfg, a.log)
	if err != nil {
		return err
	}

	files := args
	if len(files) == 0 {
		if a.cfg.InputDir == "" {
			return errors.New("no input: pass WAV files or --input")
		}
		if files, err = runner.Discover(a.cfg.InputDir); err != nil {
			return err
		}
	}

	m, err := runner.Run(cmd.Context(), files)
	if errors.Is(err, batch.ErrNoAudioFiles) {
		fmt.Fprintf(cmd.OutOrStdout(), "No audio files found in %s\n", a.cfg.InputDir)
		return nil
	}
	if m != nil {
		ok, failed := m.Counts()
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d files: %d ok, %d failed, %d skipped\n",
			len(m.Files), ok, failed, len(m.Files)-ok-failed)
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved in %s\n", runner.CSVDir())
	}
	return err
}
