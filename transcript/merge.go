package transcript

import "sort"

// Merge joins consecutive aligned segments into sentences. A sentence is
// closed when the speaker changes or when the previous segment's text holds
// sentence-final punctuation. Input is stably sorted by start first.
func Merge(segs []Segment) []Sentence {
	if len(segs) == 0 {
		return nil
	}
	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]Sentence, 0, len(sorted))
	cur := newSentence(sorted[0])
	for i := 1; i < len(sorted); i++ {
		seg := sorted[i]
		if seg.Speaker != cur.Speaker || hasTerminal(sorted[i-1].Text) {
			out = append(out, cur)
			cur = newSentence(seg)
			continue
		}
		if seg.Text != "" {
			if cur.Text != "" {
				cur.Text += " "
			}
			cur.Text += seg.Text
		}
		cur.End = seg.End
	}
	return append(out, cur)
}

func newSentence(seg Segment) Sentence {
	return Sentence{Start: seg.Start, End: seg.End, Speaker: seg.Speaker, Text: seg.Text}
}

// Sentences runs the whole transcript stage: segmentation, speaker alignment
// against prefix-stripped turns, and merging.
func Sentences(words []WordTimestamp, turns []DiarizationTurn) []Sentence {
	return Merge(Align(SegmentWords(words), NormalizeTurns(turns)))
}
