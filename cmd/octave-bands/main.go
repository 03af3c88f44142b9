// Command octave-bands measures 1/3-octave band levels of WAV recordings.
//
// Usage:
//
//	octave-bands analyze --input recordings            # every *.wav in recordings
//	octave-bands analyze a.wav b.wav --output results  # explicit files
//	octave-bands bands --sample-rate 96000             # inspect the filter bank
//	octave-bands watch --input incoming                # analyze files as they arrive
//
// Settings come from flags, OCTAVE_* environment variables and an optional
// YAML file given with --config.
package main

import (
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/go-octave-analyzer/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// app carries state shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "octave-bands",
		Short:         "Measure 1/3-octave band levels of WAV recordings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.Float64("sample-rate", 0, "sample rate the band table is designed for (Hz)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	a.bind(pf.Lookup("sample-rate"), config.KeySampleRate)
	a.bind(pf.Lookup("log-level"), config.KeyLogLevel)

	root.AddCommand(
		newAnalyzeCmd(a),
		newBandsCmd(a),
		newWatchCmd(a),
	)
	return root
}

// load resolves configuration once flags are parsed.
func (a *app) load(cmd *cobra.Command) error {
	if err := a.bindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.NewLogger()
	a.log.SetOutput(cmd.ErrOrStderr())
	return nil
}
