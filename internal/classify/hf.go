package classify

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
)

const DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"

// HFClient calls a hosted text-classification model over the Hugging Face
// inference API.
type HFClient struct {
	BaseURL string
	Model   string
	Token   string
	httpc   *http.Client
}

func NewHFClient(baseURL, model, token string, timeout time.Duration) *HFClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HFClient{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Model:   strings.Trim(strings.TrimSpace(model), "/"),
		Token:   strings.TrimSpace(token),
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *HFClient) Classify(ctx context.Context, text string) (Result, error) {
	if c.Model == "" {
		return Result{}, errors.New("hf classify: model not set")
	}
	payload, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return Result{}, fmt.Errorf("hf classify: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+c.Model, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("hf classify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("hf classify: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("hf classify: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("hf classify %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	best, err := pickTopLabel(body)
	if err != nil {
		return Result{}, fmt.Errorf("hf classify: %w", err)
	}
	if err := best.Validate(); err != nil {
		return Result{}, fmt.Errorf("hf classify: %w", err)
	}
	return best, nil
}

// pickTopLabel accepts both the nested [[{label,score}]] shape returned for a
// single input and the flat [{label,score}] shape.
func pickTopLabel(body []byte) (Result, error) {
	var nested [][]Result
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return top(nested[0])
	}
	var flat []Result
	if err := json.Unmarshal(body, &flat); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	return top(flat)
}

func top(candidates []Result) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, errors.New("empty label list")
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, nil
}
