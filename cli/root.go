// Package cli wires the dubbing pipeline into a cobra command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cfg "github.com/onevoice/dubsync/config"
	"github.com/onevoice/dubsync/orchestrator"
)

type Dependencies struct {
	Config *cfg.Root
	Log    *logrus.Logger
}

// flag name -> config key
var bindings = map[string]string{
	"log-level":       "pipeline.log_level",
	"outputs":         "paths.outputs",
	"mode":            "render.mode",
	"workers":         "render.workers",
	"sample-rate":     "audio.sample_rate",
	"source-lang":     "language.source",
	"target-lang":     "language.target",
	"asr-url":         "services.asr.url",
	"diarization-url": "services.diarization.url",
	"translation-url": "services.translation.url",
	"tts-url":         "services.tts.url",
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "dubsync",
		Short:         "Time-synchronized speech dubbing",
		Long:          "Segments a word-timed transcript, attributes speakers from diarization, translates and renders a dubbed track that keeps the original timing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			deps.Config.Apply(v)
			lvl, err := logrus.ParseLevel(deps.Config.Pipeline.LogLvl)
			if err != nil {
				return err
			}
			deps.Log.SetLevel(lvl)
			return nil
		},
	}
	if deps.Config.Pipeline.Version != "" {
		rootCmd.Version = deps.Config.Pipeline.Version
	}

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("outputs", "", "directory for task outputs")
	pf.String("mode", "", "render mode: sequential or multi-speaker")
	pf.Int("workers", 0, "concurrent service calls")
	pf.Int("sample-rate", 0, "sample rate of the dubbed track")
	pf.String("source-lang", "", "source language")
	pf.String("target-lang", "", "target language")
	pf.String("asr-url", "", "speech recognition service")
	pf.String("diarization-url", "", "speaker diarization service")
	pf.String("translation-url", "", "translation service")
	pf.String("tts-url", "", "speech synthesis service")
	if err := bindFlags(v, pf, bindings); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("DUBSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(NewSegmentCmd(deps))
	rootCmd.AddCommand(NewAlignCmd(deps))
	rootCmd.AddCommand(NewRenderCmd(deps))
	rootCmd.AddCommand(NewRunCmd(deps))

	return rootCmd
}

// bindFlags ties every flag in keys to its config key in v.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func (d *Dependencies) pipeline() *orchestrator.Pipeline {
	return orchestrator.NewPipeline(d.Config, d.Log)
}
