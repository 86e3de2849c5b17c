// Package render fits synthesized speech into the timing windows of a
// translated transcript and assembles the dubbed audio track.
package render

import (
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

const resampleQuality = 4

// DefaultFormat is mono 16-bit PCM at 24 kHz, the rate TTS engines return.
var DefaultFormat = beep.Format{SampleRate: 24000, NumChannels: 1, Precision: 2}

// Clip is an owned buffer of PCM samples.
type Clip struct {
	Format  beep.Format
	Samples [][2]float64
}

// NewClip drains s into a clip. s must be finite.
func NewClip(format beep.Format, s beep.Streamer) (*Clip, error) {
	samples, err := drain(s)
	if err != nil {
		return nil, err
	}
	return &Clip{Format: format, Samples: samples}, nil
}

// SilentClip returns sec seconds of silence, clamped at zero.
func SilentClip(format beep.Format, sec float64) *Clip {
	return &Clip{Format: format, Samples: make([][2]float64, samplesFor(format.SampleRate, sec))}
}

// Duration is the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.Format.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.Format.SampleRate)
}

// Streamer returns a fresh streamer over the clip samples.
func (c *Clip) Streamer() beep.Streamer {
	return &sliceStreamer{samples: c.Samples}
}

// Resample converts the clip to sample rate sr, keeping its duration.
func (c *Clip) Resample(sr beep.SampleRate) (*Clip, error) {
	if c.Format.SampleRate == sr {
		return c, nil
	}
	format := c.Format
	format.SampleRate = sr
	return NewClip(format, beep.Resample(resampleQuality, c.Format.SampleRate, sr, c.Streamer()))
}

// WriteWAV encodes the clip as a WAV file.
func (c *Clip) WriteWAV(w io.WriteSeeker) error {
	return wav.Encode(w, c.Streamer(), c.Format)
}

type sliceStreamer struct {
	samples [][2]float64
	pos     int
}

func (s *sliceStreamer) Stream(out [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n := copy(out, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

func drain(s beep.Streamer) ([][2]float64, error) {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out, s.Err()
}

func samplesFor(sr beep.SampleRate, sec float64) int {
	if !(sec > 0) || math.IsInf(sec, 1) {
		return 0
	}
	return int(math.Round(sec * float64(sr)))
}
