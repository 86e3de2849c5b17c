package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeakerFor(t *testing.T) {
	tests := []struct {
		name  string
		seg   Segment
		turns []DiarizationTurn
		want  string
	}{
		{
			name:  "tie goes to first supplied turn",
			seg:   Segment{Start: 0.4, End: 1.6},
			turns: []DiarizationTurn{{0, 1, "A"}, {1, 2, "B"}},
			want:  "A",
		},
		{
			name:  "tie order follows supply order not time",
			seg:   Segment{Start: 0.4, End: 1.6},
			turns: []DiarizationTurn{{1, 2, "B"}, {0, 1, "A"}},
			want:  "B",
		},
		{
			name:  "overlap summed per speaker",
			seg:   Segment{Start: 0, End: 3},
			turns: []DiarizationTurn{{0, 0.5, "A"}, {0.5, 1.5, "B"}, {1.5, 2.0, "A"}, {2.0, 2.6, "A"}},
			want:  "A",
		},
		{
			name:  "largest overlap wins",
			seg:   Segment{Start: 0, End: 2},
			turns: []DiarizationTurn{{0, 0.5, "A"}, {0.5, 2, "B"}},
			want:  "B",
		},
		{
			name:  "no overlap falls back to nearest center",
			seg:   Segment{Start: 5, End: 6},
			turns: []DiarizationTurn{{0, 1, "A"}, {7, 8, "B"}, {20, 30, "C"}},
			want:  "B",
		},
		{
			name:  "touching turn is not an overlap",
			seg:   Segment{Start: 1, End: 2},
			turns: []DiarizationTurn{{0, 1, "A"}, {2.1, 2.5, "B"}},
			want:  "B",
		},
		{
			name:  "far away turn still assigned",
			seg:   Segment{Start: 100, End: 101},
			turns: []DiarizationTurn{{0, 1, "A"}},
			want:  "A",
		},
		{
			name: "no turns",
			seg:  Segment{Start: 0, End: 1},
			want: UnknownSpeaker,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeakerFor(tt.seg, tt.turns))
		})
	}
}

func TestAlignDoesNotMutateInput(t *testing.T) {
	in := []Segment{{Start: 0, End: 1, Text: "hi"}}
	out := Align(in, []DiarizationTurn{{0, 1, "A"}})
	assert.Empty(t, in[0].Speaker)
	assert.Equal(t, "A", out[0].Speaker)
}

func TestAlignDeterministic(t *testing.T) {
	segs := []Segment{{Start: 0.4, End: 1.6}, {Start: 2, End: 3}, {Start: 9, End: 10}}
	turns := []DiarizationTurn{{0, 1, "A"}, {1, 2, "B"}, {2, 2.5, "B"}, {2.5, 3, "A"}}
	first := Align(segs, turns)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Align(segs, turns))
	}
}

func TestAlignConcurrentMatchesAlign(t *testing.T) {
	var segs []Segment
	for i := 0; i < 50; i++ {
		segs = append(segs, Segment{Start: float64(i), End: float64(i) + 0.8, Text: "w"})
	}
	turns := []DiarizationTurn{{0, 10, "A"}, {10, 30, "B"}, {30, 60, "C"}}

	got, err := AlignConcurrent(context.Background(), segs, turns, 4)
	require.NoError(t, err)
	assert.Equal(t, Align(segs, turns), got)
}

func TestAlignConcurrentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AlignConcurrent(ctx, []Segment{{Start: 0, End: 1}}, nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeTurns(t *testing.T) {
	in := []DiarizationTurn{{0, 1, "SPEAKER_00"}, {1, 2, "guest"}}
	out := NormalizeTurns(in)
	assert.Equal(t, "00", out[0].SpeakerID)
	assert.Equal(t, "guest", out[1].SpeakerID)
	assert.Equal(t, "SPEAKER_00", in[0].SpeakerID)
}
