package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onevoice/dubsync/transcript"
)

// --- Diarization (/diarize) ---
type DiarizeResp struct {
	Diarization []transcript.DiarizationTurn `json:"diarization"`
}

// Diarize uploads the audio file and returns speaker turns with the raw
// engine tags (SPEAKER_00, ...).
func (h *HTTP) Diarize(ctx context.Context, url, wavPath string) (*DiarizeResp, error) {
	body, err := h.upload(ctx, "diarize", url+"/diarize", wavPath)
	if err != nil {
		return nil, err
	}
	var out DiarizeResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("diarize decode: %w", err)
	}
	return &out, nil
}
