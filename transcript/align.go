package transcript

import (
	"context"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

// StripSpeakerPrefix drops the diarization engine's "SPEAKER_" tag prefix.
func StripSpeakerPrefix(tag string) string {
	return strings.TrimPrefix(tag, "SPEAKER_")
}

// NormalizeTurns returns a copy of turns with engine prefixes removed.
func NormalizeTurns(turns []DiarizationTurn) []DiarizationTurn {
	out := make([]DiarizationTurn, len(turns))
	for i, t := range turns {
		t.SpeakerID = StripSpeakerPrefix(t.SpeakerID)
		out[i] = t
	}
	return out
}

// Align returns a copy of segs with every speaker assigned from turns.
func Align(segs []Segment, turns []DiarizationTurn) []Segment {
	out := make([]Segment, len(segs))
	for i, seg := range segs {
		out[i] = seg.withSpeaker(SpeakerFor(seg, turns))
	}
	return out
}

// AlignConcurrent is Align with the per-segment work spread over at most
// workers goroutines. A cancelled ctx aborts the remaining assignments.
func AlignConcurrent(ctx context.Context, segs []Segment, turns []DiarizationTurn, workers int) ([]Segment, error) {
	out := make([]Segment, len(segs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range segs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = segs[i].withSpeaker(SpeakerFor(segs[i], turns))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SpeakerFor picks the speaker with the largest total overlap with seg.
// Ties go to the speaker whose overlapping turn was supplied first. Without
// any overlap the turn with the nearest center wins, and without turns the
// speaker is UnknownSpeaker.
func SpeakerFor(seg Segment, turns []DiarizationTurn) string {
	if len(turns) == 0 {
		return UnknownSpeaker
	}
	if spk, ok := dominantSpeaker(seg, turns); ok {
		return spk
	}
	return nearestSpeaker(seg, turns)
}

func dominantSpeaker(seg Segment, turns []DiarizationTurn) (string, bool) {
	totals := map[string]float64{}
	var order []string
	for _, t := range turns {
		ov := math.Min(seg.End, t.End) - math.Max(seg.Start, t.Start)
		if ov <= 0 {
			continue
		}
		if _, seen := totals[t.SpeakerID]; !seen {
			order = append(order, t.SpeakerID)
		}
		totals[t.SpeakerID] += ov
	}
	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, spk := range order[1:] {
		if totals[spk] > totals[best]+Epsilon {
			best = spk
		}
	}
	return best, true
}

func nearestSpeaker(seg Segment, turns []DiarizationTurn) string {
	c := (seg.Start + seg.End) / 2
	best := turns[0].SpeakerID
	bestDist := math.Abs(c - turns[0].center())
	for _, t := range turns[1:] {
		if d := math.Abs(c - t.center()); d < bestDist-Epsilon {
			best, bestDist = t.SpeakerID, d
		}
	}
	return best
}
