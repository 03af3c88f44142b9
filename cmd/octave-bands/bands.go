package main

import (
	"fmt"

	"github.com/spf13/cobra"

	octave "github.com/tphakala/go-octave-analyzer"
	"github.com/tphakala/go-octave-analyzer/internal/simdops"
)

// defaultImpulseLen gives sub-hertz spectral resolution at 48 kHz.
const defaultImpulseLen = 1 << 16

func newBandsCmd(a *app) *cobra.Command {
	var impulseLen int

	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Print the band table and each filter's measured response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if impulseLen < 2 {
				return fmt.Errorf("impulse length must be at least 2, got %d", impulseLen)
			}

			table, err := octave.BuildBandTable(a.cfg.SampleRate)
			if err != nil {
				return err
			}
			fb, err := octave.NewFilterBank(table)
			if err != nil {
				return err
			}
			reports, err := measureBands(fb, impulseLen)
			if err != nil {
				return err
			}

			a.log.WithField("cpu", simdops.Info()).Debug("vector kernels")
			writeBandReport(cmd.OutOrStdout(), table.SampleRate(), reports)
			return nil
		},
	}

	cmd.Flags().IntVar(&impulseLen, "impulse-length", defaultImpulseLen, "impulse response length used to measure each band's peak")
	return cmd
}
