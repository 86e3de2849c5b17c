package clients

import (
	"bytes"
	"context"
	"fmt"

	"github.com/gopxl/beep/wav"

	"github.com/onevoice/dubsync/render"
)

// --- TTS (/synthesize) ---
type SynthReq struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// Synthesize asks the TTS service for a WAV rendition of req.Text and
// decodes it into a clip.
func (h *HTTP) Synthesize(ctx context.Context, url string, req SynthReq) (*render.Clip, error) {
	body, err := h.postJSON(ctx, "tts", url+"/synthesize", req)
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tts decode: %w", err)
	}
	defer s.Close()

	clip, err := render.NewClip(format, s)
	if err != nil {
		return nil, fmt.Errorf("tts decode: %w", err)
	}
	return clip, nil
}

// Synthesizer binds the TTS endpoint so the client can feed a renderer.
type Synthesizer struct {
	HTTP       *HTTP
	URL        string
	SampleRate int
}

func (s Synthesizer) Synthesize(ctx context.Context, text, voice string) (*render.Clip, error) {
	return s.HTTP.Synthesize(ctx, s.URL, SynthReq{Text: text, Voice: voice, SampleRate: s.SampleRate})
}
