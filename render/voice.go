package render

// MaxVoices caps the number of distinct voices handed out per task.
const MaxVoices = 5

var DefaultVoices = []string{
	"ko-KR-Standard-A",
	"ko-KR-Standard-B",
	"ko-KR-Standard-C",
	"ko-KR-Standard-D",
	"ko-KR-Wavenet-A",
}

// VoicePool maps speakers to voices in the order speakers are first seen.
// Speakers past the pool size share the first voice. A pool belongs to a
// single task.
type VoicePool struct {
	voices   []string
	assigned map[string]string
	seen     int
}

func NewVoicePool(voices []string) *VoicePool {
	if len(voices) == 0 {
		voices = DefaultVoices
	}
	if len(voices) > MaxVoices {
		voices = voices[:MaxVoices]
	}
	return &VoicePool{voices: voices, assigned: map[string]string{}}
}

func (p *VoicePool) Voice(speaker string) string {
	if v, ok := p.assigned[speaker]; ok {
		return v
	}
	v := p.voices[0]
	if p.seen < len(p.voices) {
		v = p.voices[p.seen]
	}
	p.seen++
	p.assigned[speaker] = v
	return v
}

// Default is the voice used when speakers are not told apart.
func (p *VoicePool) Default() string { return p.voices[0] }

// Assigned returns the speaker to voice mapping handed out so far.
func (p *VoicePool) Assigned() map[string]string {
	out := make(map[string]string, len(p.assigned))
	for k, v := range p.assigned {
		out[k] = v
	}
	return out
}
