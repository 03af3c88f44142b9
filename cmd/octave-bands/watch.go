package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-octave-analyzer/internal/batch"
	"github.com/tphakala/go-octave-analyzer/internal/config"
	"github.com/tphakala/go-octave-analyzer/internal/export"
	"github.com/tphakala/go-octave-analyzer/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var existing bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Analyze WAV files as they are written to --input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.InputDir == "" {
				return errors.New("watch requires --input")
			}

			runner, err := batch.NewRunner(a.cfg, a.log)
			if err != nil {
				return err
			}
			if err := export.EnsureDir(runner.CSVDir()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if existing {
				files, err := runner.Discover(a.cfg.InputDir)
				if err != nil {
					return err
				}
				if _, err := runner.Run(ctx, files); err != nil && !errors.Is(err, batch.ErrNoAudioFiles) {
					a.log.WithError(err).Warn("initial pass finished with errors")
				}
			}

			w, err := watch.New(runner, a.log, a.cfg.InputDir, watch.Options{
				Settle: time.Duration(a.cfg.WatchSettleMs) * time.Millisecond,
				OnResult: func(o export.FileOutcome) {
					if o.Status == export.StatusOK {
						fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", o.Input, o.Output)
					}
				},
			})
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.String("input", "", "folder to watch")
	f.String("output", "", "output folder")
	f.String("csv-subdir", "", "CSV subfolder inside the output folder")
	f.String("channel-mode", "", "multichannel handling: mix or first")
	f.Int("settle-ms", 0, "quiet period before a written file is analyzed")
	f.BoolVar(&existing, "existing", false, "analyze files already in the folder first")
	a.bindCommon(cmd)
	a.bind(f.Lookup("settle-ms"), config.KeyWatchSettle)

	return cmd
}
