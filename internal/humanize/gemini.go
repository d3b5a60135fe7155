package humanize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"ai_text_detector/internal/prompts"
)

type GeminiParaphraser struct {
	APIKey string
	Model  string
}

func NewGeminiParaphraser(apiKey, model string) *GeminiParaphraser {
	return &GeminiParaphraser{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (g *GeminiParaphraser) Name() string { return "gemini" }

func (g *GeminiParaphraser) Paraphrase(ctx context.Context, text string) (Rewrite, error) {
	if g.APIKey == "" {
		return Rewrite{}, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return Rewrite{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.Model)
	if m == nil {
		return Rewrite{}, fmt.Errorf("gemini: model is nil")
	}
	m.SetTemperature(1.5)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompts.HumanizeSystemPrompt())},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompts.HumanizeUserPrompt(text)))
	if err != nil {
		return Rewrite{}, err
	}
	out := collectText(resp)
	if out == "" {
		return Rewrite{}, errors.New("gemini: empty response")
	}
	return Rewrite{Text: out}, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// first candidate with content wins
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String())
}
