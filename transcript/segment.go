package transcript

import "strings"

const (
	// Epsilon absorbs floating point noise in timestamp arithmetic.
	Epsilon = 1e-6
	// SilenceGap is the pause length that closes a sentence and is emitted
	// as an explicit silence segment.
	SilenceGap = 1.5
	// ShortSentence is the longest segment still folded into its predecessor.
	ShortSentence = 2.0
)

// Segmenter groups a word stream into sentence segments.
type Segmenter struct {
	GapThreshold  float64
	ShortSentence float64
	Epsilon       float64
}

func DefaultSegmenter() Segmenter {
	return Segmenter{GapThreshold: SilenceGap, ShortSentence: ShortSentence, Epsilon: Epsilon}
}

// SegmentWords runs DefaultSegmenter over words.
func SegmentWords(words []WordTimestamp) []Segment {
	return DefaultSegmenter().Segment(words)
}

// Segment splits words on sentence-final punctuation and on long pauses,
// then folds short sentences into their predecessors.
func (s Segmenter) Segment(words []WordTimestamp) []Segment {
	var (
		out        []Segment
		pending    []string
		start, end float64
		prevEnd    float64
	)
	flush := func() {
		text := strings.TrimSpace(strings.Join(pending, " "))
		pending = pending[:0]
		if text == "" {
			return
		}
		if end < start {
			end = start
		}
		out = append(out, Segment{Start: start, End: end, Text: text})
	}

	for _, w := range words {
		gap := w.Start - prevEnd
		if gap > s.Epsilon && gap >= s.GapThreshold-s.Epsilon {
			flush()
			out = append(out, Segment{Start: prevEnd, End: w.Start})
		}

		if len(pending) == 0 {
			start = w.Start
		}
		pending = append(pending, w.Word)
		end = w.End

		if endsSentence(w.Word) {
			flush()
		}
		prevEnd = w.End
	}
	flush()

	return s.MergeShort(out)
}

// MergeShort folds every worded segment no longer than ShortSentence into the
// worded segment before it. Chains of short segments keep growing the same
// predecessor. Silence segments are left alone and stop the chain, and the
// first segment is never folded. Running it twice gives the same result.
func (s Segmenter) MergeShort(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for i, seg := range segs {
		if i > 0 && !seg.IsSilence() && seg.Duration() <= s.ShortSentence+s.Epsilon {
			if prev := &out[len(out)-1]; !prev.IsSilence() {
				prev.End = seg.End
				prev.Text += " " + seg.Text
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}

func endsSentence(word string) bool {
	if word == "" {
		return false
	}
	switch word[len(word)-1] {
	case '.', '?', '!':
		return true
	}
	return false
}

func hasTerminal(text string) bool {
	return strings.ContainsAny(text, ".!?")
}
