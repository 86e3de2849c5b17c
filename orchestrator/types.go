package orchestrator

import (
	"github.com/onevoice/dubsync/render"
	"github.com/onevoice/dubsync/transcript"
)

// Stage names the step a task is in, for logging.
type Stage string

const (
	StageSTT         Stage = "stt"
	StageDiarization Stage = "diarization"
	StageMerge       Stage = "merge"
	StageTranslation Stage = "translation"
	StageTTS         Stage = "tts"
)

// Stats describes how speech is spread over the dubbed track.
type Stats struct {
	SpeakingShare map[string]float64 `json:"speaking_share" yaml:"speaking_share"` // per speaker %
	OverlapRate   float64            `json:"overlap_rate" yaml:"overlap_rate"`     // share of the track with 2+ speakers
	Duration      float64            `json:"duration" yaml:"duration"`             // sec
}

// Result is everything one dubbing task produced.
type Result struct {
	TaskID    string
	Dir       string
	Source    string
	Sentences []transcript.Sentence
	Specs     []transcript.RenderSpec
	Skipped   []int // table lines that could not be parsed
	Report    render.Report
	Stats     Stats
	Voices    map[string]string
	Duration  float64 // sec
	TablePath string
	AudioPath string
}
