package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/onevoice/dubsync/transcript"
)

var (
	ErrSynthesis      = errors.New("synthesis failed")
	ErrNoUsableOutput = errors.New("no usable output")
)

// Mode selects how rendered clips are placed on the timeline.
type Mode int

const (
	// Sequential appends clips in spec order, filling gaps with silence.
	Sequential Mode = iota
	// MultiSpeaker mixes every clip at its absolute start offset.
	MultiSpeaker
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case MultiSpeaker:
		return "multi-speaker"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "multi-speaker", "multispeaker", "multi":
		return MultiSpeaker, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// Synthesizer turns text into speech with the named voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*Clip, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(ctx context.Context, text, voice string) (*Clip, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, text, voice string) (*Clip, error) {
	return f(ctx, text, voice)
}

// Timeline is the assembled dubbed track, starting at zero. Voices records
// which voice each speaker was given.
type Timeline struct {
	Clip
	Voices map[string]string
}

// Report counts what happened to every spec of a render.
type Report struct {
	Specs       int
	Synthesized int
	Silent      int
	Failed      []int
}

// Renderer fits synthesized speech to timing specs.
type Renderer struct {
	Format  beep.Format
	Voices  []string
	Workers int
	Log     logrus.FieldLogger
}

func NewRenderer(format beep.Format, log logrus.FieldLogger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{Format: format, Voices: DefaultVoices, Workers: 4, Log: log}
}

// Render synthesizes every spec with text once, fits the clip to the spec
// window and assembles the timeline in the given mode. A failed synthesis
// leaves silence in its window. Render only fails when ctx is cancelled or
// nothing usable comes out: no specs, or every synthesis attempt failed.
func (r *Renderer) Render(ctx context.Context, specs []transcript.RenderSpec, synth Synthesizer, mode Mode) (*Timeline, Report, error) {
	rep := Report{Specs: len(specs)}
	if len(specs) == 0 {
		return nil, rep, fmt.Errorf("%w: empty table", ErrNoUsableOutput)
	}

	pool := NewVoicePool(r.Voices)
	voices := make([]string, len(specs))
	attempted := 0
	for i, s := range specs {
		if !speaks(s) {
			continue
		}
		attempted++
		if mode == MultiSpeaker {
			voices[i] = pool.Voice(s.Speaker)
		} else {
			voices[i] = pool.Default()
		}
	}

	clips, err := r.synthesize(ctx, specs, voices, synth)
	if err != nil {
		return nil, rep, err
	}
	for i, s := range specs {
		switch {
		case clips[i] != nil:
			rep.Synthesized++
		case speaks(s):
			rep.Failed = append(rep.Failed, i)
		default:
			rep.Silent++
		}
	}
	if attempted > 0 && rep.Synthesized == 0 {
		return nil, rep, fmt.Errorf("%w: all %d synthesis calls failed", ErrNoUsableOutput, attempted)
	}

	var out *Clip
	if mode == MultiSpeaker {
		out, err = r.overlay(specs, clips)
	} else {
		out, err = r.sequence(specs, clips)
	}
	if err != nil {
		return nil, rep, err
	}
	r.logger().WithFields(logrus.Fields{
		"mode":        mode.String(),
		"specs":       rep.Specs,
		"synthesized": rep.Synthesized,
		"silent":      rep.Silent,
		"failed":      len(rep.Failed),
		"duration":    fmt.Sprintf("%.2fs", out.Duration()),
	}).Info("render done")
	return &Timeline{Clip: *out, Voices: pool.Assigned()}, rep, nil
}

func (r *Renderer) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

func speaks(s transcript.RenderSpec) bool {
	return strings.TrimSpace(s.Text) != "" && s.Target() > 0
}

// synthesize runs the synthesis calls concurrently. clips[i] stays nil for
// silent specs and for failed calls.
func (r *Renderer) synthesize(ctx context.Context, specs []transcript.RenderSpec, voices []string, synth Synthesizer) ([]*Clip, error) {
	clips := make([]*Clip, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}
	for i, s := range specs {
		if !speaks(s) {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := r.logger().WithFields(logrus.Fields{"spec": i, "speaker": s.Speaker, "voice": voices[i]})
			clip, err := r.fit(gctx, synth, s, voices[i])
			if err != nil {
				if cerr := gctx.Err(); cerr != nil {
					return cerr
				}
				log.WithError(err).Warn("synthesis failed, leaving silence")
				return nil
			}
			clips[i] = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}

func (r *Renderer) fit(ctx context.Context, synth Synthesizer, s transcript.RenderSpec, voice string) (*Clip, error) {
	clip, err := synth.Synthesize(ctx, s.Text, voice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	if clip == nil || len(clip.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty clip", ErrSynthesis)
	}
	if clip, err = clip.Resample(r.Format.SampleRate); err != nil {
		return nil, fmt.Errorf("%w: resample: %v", ErrSynthesis, err)
	}
	clip = &Clip{Format: r.Format, Samples: clip.Samples}
	if f := SpeedFactor(clip.Duration(), s.Target()); f > 1 {
		r.logger().WithFields(logrus.Fields{"text": s.Text, "factor": math.Round(f*100) / 100}).Debug("speeding up clip")
	}
	return Fit(clip, s.Target())
}

func (r *Renderer) placed(s transcript.RenderSpec, clip *Clip) beep.Streamer {
	if clip != nil {
		return clip.Streamer()
	}
	return beep.Silence(samplesFor(r.Format.SampleRate, s.Target()))
}

func (r *Renderer) sequence(specs []transcript.RenderSpec, clips []*Clip) (*Clip, error) {
	parts := make([]beep.Streamer, 0, 2*len(specs))
	prevEnd := 0.0
	for i, s := range specs {
		if gap := s.Start - prevEnd; gap > Epsilon {
			parts = append(parts, beep.Silence(samplesFor(r.Format.SampleRate, gap)))
		}
		parts = append(parts, r.placed(s, clips[i]))
		prevEnd = s.End
	}
	return NewClip(r.Format, beep.Seq(parts...))
}

// overlay mixes every clip into a silent buffer as long as the latest spec
// end. Clips whose windows overlap are summed.
func (r *Renderer) overlay(specs []transcript.RenderSpec, clips []*Clip) (*Clip, error) {
	maxEnd := 0.0
	var voices []beep.Streamer
	for i, s := range specs {
		if !math.IsNaN(s.End) && !math.IsInf(s.End, 0) {
			maxEnd = math.Max(maxEnd, s.End)
		}
		if clips[i] == nil {
			continue
		}
		offset := beep.Silence(samplesFor(r.Format.SampleRate, s.Start))
		voices = append(voices, beep.Seq(offset, clips[i].Streamer()))
	}
	total := samplesFor(r.Format.SampleRate, maxEnd)
	return NewClip(r.Format, beep.Take(total, beep.Seq(beep.Mix(voices...), beep.Silence(-1))))
}
