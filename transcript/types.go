// Package transcript turns word-level recognition output and diarization
// turns into speaker-attributed sentences, and reads and writes the
// tab-separated timing table shared with the translation and render stages.
package transcript

import "fmt"

// UnknownSpeaker is assigned when no diarization turns are available.
const UnknownSpeaker = "unknown"

type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"` // sec
	End   float64 `json:"end"`   // sec
}

// Segment is a contiguous interval of speech, or of explicit silence when
// Text is empty. Speaker stays empty until Align runs.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }

// IsSilence reports whether the segment carries no words.
func (s Segment) IsSilence() bool { return s.Text == "" }

func (s Segment) withSpeaker(spk string) Segment {
	s.Speaker = spk
	return s
}

type DiarizationTurn struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	SpeakerID string  `json:"speaker"`
}

func (t DiarizationTurn) center() float64 { return (t.Start + t.End) / 2 }

type Sentence struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// Segment converts the sentence back to a speaker-tagged segment.
func (s Sentence) Segment() Segment {
	return Segment{Start: s.Start, End: s.End, Text: s.Text, Speaker: s.Speaker}
}

// FormatLine renders the sentence the way merged transcripts are printed:
// "[0.00s - 2.50s] speaker: text".
func (s Sentence) FormatLine() string {
	return fmt.Sprintf("[%.2fs - %.2fs] %s: %s", s.Start, s.End, s.Speaker, s.Text)
}

// RenderSpec is one row of the translated timing table.
type RenderSpec struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

// Target is the window the synthesized speech has to fill.
func (r RenderSpec) Target() float64 { return r.End - r.Start }
