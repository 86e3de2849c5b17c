package clients

import (
	"context"
	"encoding/json"
	"fmt"
)

// --- Translation (/translate) ---
type TranslateReq struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}
type TranslateResp struct {
	TranslatedText string `json:"translated_text"`
}

func (h *HTTP) Translate(ctx context.Context, url string, req TranslateReq) (string, error) {
	body, err := h.postJSON(ctx, "translate", url+"/translate", req)
	if err != nil {
		return "", err
	}
	var out TranslateResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("translate decode: %w", err)
	}
	return out.TranslatedText, nil
}
