package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gopxl/beep"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/onevoice/dubsync/render"
	"github.com/onevoice/dubsync/transcript"
)

type Service struct {
	URL string `yaml:"url" toml:"url"`
}
type Services struct {
	ASR         Service `yaml:"asr" toml:"asr"`
	Diarization Service `yaml:"diarization" toml:"diarization"`
	Translation Service `yaml:"translation" toml:"translation"`
	TTS         Service `yaml:"tts" toml:"tts"`
}
type Audio struct {
	SampleRate int `yaml:"sample_rate" toml:"sample_rate"`
	Channels   int `yaml:"channels" toml:"channels"`
}
type Language struct {
	Source string `yaml:"source" toml:"source"`
	Target string `yaml:"target" toml:"target"`
}

// Sync holds the segmentation thresholds, in seconds.
type Sync struct {
	GapThreshold  float64 `yaml:"gap_threshold" toml:"gap_threshold"`
	ShortSentence float64 `yaml:"short_sentence" toml:"short_sentence"`
	Epsilon       float64 `yaml:"epsilon" toml:"epsilon"`
}
type Render struct {
	Mode    string   `yaml:"mode" toml:"mode"`
	Workers int      `yaml:"workers" toml:"workers"`
	Voices  []string `yaml:"voices" toml:"voices"`
}
type Root struct {
	Pipeline struct {
		Name    string `yaml:"name" toml:"name"`
		Version string `yaml:"version" toml:"version"`
		LogLvl  string `yaml:"log_level" toml:"log_level"`
		Timeout int    `yaml:"timeout" toml:"timeout"` // sec
	} `yaml:"pipeline" toml:"pipeline"`
	Audio    Audio    `yaml:"audio" toml:"audio"`
	Language Language `yaml:"language" toml:"language"`
	Services Services `yaml:"services" toml:"services"`
	Sync     Sync     `yaml:"sync" toml:"sync"`
	Render   Render   `yaml:"render" toml:"render"`
	Paths    struct {
		Outputs string `yaml:"outputs" toml:"outputs"`
	} `yaml:"paths" toml:"paths"`
}

// Default returns the configuration used when no file is found.
func Default() *Root {
	var cfg Root
	cfg.withDefaults()
	return &cfg
}

func (c *Root) withDefaults() {
	if c.Pipeline.Name == "" {
		c.Pipeline.Name = "dubsync"
	}
	if c.Pipeline.LogLvl == "" {
		c.Pipeline.LogLvl = "info"
	}
	if c.Pipeline.Timeout <= 0 {
		c.Pipeline.Timeout = 3600
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = int(render.DefaultFormat.SampleRate)
	}
	if c.Audio.Channels <= 0 {
		c.Audio.Channels = render.DefaultFormat.NumChannels
	}
	if c.Language.Source == "" {
		c.Language.Source = "en-US"
	}
	if c.Language.Target == "" {
		c.Language.Target = "ko-KR"
	}
	if c.Sync.GapThreshold <= 0 {
		c.Sync.GapThreshold = transcript.SilenceGap
	}
	if c.Sync.ShortSentence <= 0 {
		c.Sync.ShortSentence = transcript.ShortSentence
	}
	if c.Sync.Epsilon <= 0 {
		c.Sync.Epsilon = transcript.Epsilon
	}
	if c.Render.Mode == "" {
		c.Render.Mode = render.Sequential.String()
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = 4
	}
	if len(c.Render.Voices) == 0 {
		c.Render.Voices = render.DefaultVoices
	}
	if c.Paths.Outputs == "" {
		c.Paths.Outputs = "outputs"
	}
}

// Load reads config/<CONFIG_ENV>/config.{yaml,toml}, CONFIG_ENV defaulting to
// dev. Without any file the defaults are returned.
func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	var guess []string = []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("config", env, "config.toml"),
		"config.yaml",
	}
	for _, p := range guess {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return Default(), nil
}

// LoadFile decodes a yaml or toml file, chosen by extension.
func LoadFile(path string) (*Root, error) {
	var cfg Root
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format", path)
	}
	cfg.withDefaults()
	return &cfg, nil
}

// Apply overlays every key set in v (flags, DUBSYNC_* env) onto c.
func (c *Root) Apply(v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) && v.GetString(key) != "" {
			*dst = v.GetString(key)
		}
	}
	str("pipeline.log_level", &c.Pipeline.LogLvl)
	str("services.asr.url", &c.Services.ASR.URL)
	str("services.diarization.url", &c.Services.Diarization.URL)
	str("services.translation.url", &c.Services.Translation.URL)
	str("services.tts.url", &c.Services.TTS.URL)
	str("language.source", &c.Language.Source)
	str("language.target", &c.Language.Target)
	str("render.mode", &c.Render.Mode)
	str("paths.outputs", &c.Paths.Outputs)
	if v.IsSet("render.workers") && v.GetInt("render.workers") > 0 {
		c.Render.Workers = v.GetInt("render.workers")
	}
	if v.IsSet("audio.sample_rate") && v.GetInt("audio.sample_rate") > 0 {
		c.Audio.SampleRate = v.GetInt("audio.sample_rate")
	}
}

// Segmenter builds the transcript segmenter from the sync thresholds.
func (c *Root) Segmenter() transcript.Segmenter {
	return transcript.Segmenter{
		GapThreshold:  c.Sync.GapThreshold,
		ShortSentence: c.Sync.ShortSentence,
		Epsilon:       c.Sync.Epsilon,
	}
}

// Format is the PCM format of the dubbed track.
func (c *Root) Format() beep.Format {
	ch := c.Audio.Channels
	if ch > 2 {
		ch = 2
	}
	return beep.Format{SampleRate: beep.SampleRate(c.Audio.SampleRate), NumChannels: ch, Precision: 2}
}

func (c *Root) RenderMode() (render.Mode, error) { return render.ParseMode(c.Render.Mode) }

func (c *Root) Timeout() time.Duration { return DurSeconds(c.Pipeline.Timeout) }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
