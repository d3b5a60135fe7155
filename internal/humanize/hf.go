package humanize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai_text_detector/internal/prompts"
)

// HFParaphraser calls a hosted text2text model (T5 style) over the Hugging
// Face inference API.
type HFParaphraser struct {
	BaseURL string
	Model   string
	Token   string
	httpc   *http.Client
}

func NewHFParaphraser(baseURL, model, token string, timeout time.Duration) *HFParaphraser {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HFParaphraser{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Model:   strings.Trim(strings.TrimSpace(model), "/"),
		Token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (p *HFParaphraser) Name() string { return "hf" }

func (p *HFParaphraser) Paraphrase(ctx context.Context, text string) (Rewrite, error) {
	if p.Model == "" {
		return Rewrite{}, errors.New("paraphrase model not set")
	}
	body := map[string]any{
		"inputs": prompts.ParaphraseInput(text),
		"parameters": map[string]any{
			"num_beams":   5,
			"max_length":  256,
			"temperature": 1.5,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Rewrite{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/"+p.Model, bytes.NewReader(payload))
	if err != nil {
		return Rewrite{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return Rewrite{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rewrite{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Rewrite{}, fmt.Errorf("inference %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Rewrite{}, fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 {
		return Rewrite{}, errors.New("no generations returned")
	}
	return Rewrite{Text: out[0].GeneratedText}, nil
}
