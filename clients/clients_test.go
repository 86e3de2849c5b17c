package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onevoice/dubsync/render"
	"github.com/onevoice/dubsync/transcript"
)

func tempAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, os.WriteFile(p, []byte("RIFF fake"), 0o644))
	return p
}

func TestASR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "in.wav", hdr.Filename)
		assert.Equal(t, "RIFF fake", string(b))
		_, _ = w.Write([]byte(`{"language":"en-US","words":[{"word":"hi.","start":0.1,"end":0.4}]}`))
	}))
	defer srv.Close()

	out, err := NewHTTP(time.Second).ASR(context.Background(), srv.URL, tempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, "en-US", out.Language)
	assert.Equal(t, []transcript.WordTimestamp{{Word: "hi.", Start: 0.1, End: 0.4}}, out.Words)
}

func TestDiarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/diarize", r.URL.Path)
		_, _ = w.Write([]byte(`{"diarization":[{"start":0,"end":1.5,"speaker":"SPEAKER_00"}]}`))
	}))
	defer srv.Close()

	out, err := NewHTTP(time.Second).Diarize(context.Background(), srv.URL, tempAudio(t))
	require.NoError(t, err)
	assert.Equal(t, []transcript.DiarizationTurn{{Start: 0, End: 1.5, SpeakerID: "SPEAKER_00"}}, out.Diarization)
}

func TestTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req TranslateReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TranslateReq{Text: "hello", Source: "en", Target: "ko"}, req)
		_, _ = w.Write([]byte(`{"translated_text":"안녕하세요"}`))
	}))
	defer srv.Close()

	got, err := NewHTTP(time.Second).Translate(context.Background(), srv.URL, TranslateReq{Text: "hello", Source: "en", Target: "ko"})
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", got)
}

func TestNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTP(time.Second).Translate(context.Background(), srv.URL, TranslateReq{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSynthesize(t *testing.T) {
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	clip := render.SilentClip(format, 0.5)
	wavPath := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(wavPath)
	require.NoError(t, err)
	require.NoError(t, clip.WriteWAV(f))
	require.NoError(t, f.Close())
	wavBytes, err := os.ReadFile(wavPath)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SynthReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ko-KR-Standard-B", req.Voice)
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wavBytes)
	}))
	defer srv.Close()

	s := Synthesizer{HTTP: NewHTTP(time.Second), URL: srv.URL, SampleRate: 8000}
	got, err := s.Synthesize(context.Background(), "안녕", "ko-KR-Standard-B")
	require.NoError(t, err)
	assert.Equal(t, beep.SampleRate(8000), got.Format.SampleRate)
	assert.Len(t, got.Samples, 4000)
	assert.InDelta(t, 0.5, got.Duration(), 1e-9)
}

func TestSynthesizeRejectsNonWAV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not audio"))
	}))
	defer srv.Close()

	_, err := NewHTTP(time.Second).Synthesize(context.Background(), srv.URL, SynthReq{Text: "x"})
	assert.ErrorContains(t, err, "tts decode")
}
