package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onevoice/dubsync/transcript"
)

// --- ASR (/transcribe) ---
type ASRResp struct {
	Words    []transcript.WordTimestamp `json:"words"`
	Language string                     `json:"language"`
}

// ASR uploads the audio file and returns its word timestamps.
func (h *HTTP) ASR(ctx context.Context, url, wavPath string) (*ASRResp, error) {
	body, err := h.upload(ctx, "asr", url+"/transcribe", wavPath)
	if err != nil {
		return nil, err
	}
	var out ASRResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}
	return &out, nil
}
