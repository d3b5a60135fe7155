package humanize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptyInput = errors.New("empty text received")

const PlaceholderNote = "Paraphrasing feature is currently unavailable. Please use a local model or paid API service for text humanization."

type Result struct {
	OriginalText  string `json:"original_text"`
	HumanizedText string `json:"humanized_text"`
	Note          string `json:"note,omitempty"`
}

// Rewrite is what a backend produced. Note is shown to the caller when set.
type Rewrite struct {
	Text string
	Note string
}

type Paraphraser interface {
	Name() string
	Paraphrase(ctx context.Context, text string) (Rewrite, error)
}

type Service struct {
	p Paraphraser
}

func NewService(p Paraphraser) *Service {
	if p == nil {
		p = Placeholder{}
	}
	return &Service{p: p}
}

func (s *Service) Backend() string { return s.p.Name() }

// Humanize rewrites text through the configured backend. The humanized text
// may equal the original.
func (s *Service) Humanize(ctx context.Context, text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, ErrEmptyInput
	}
	rw, err := s.p.Paraphrase(ctx, trimmed)
	if err != nil {
		return Result{}, fmt.Errorf("%s paraphrase: %w", s.p.Name(), err)
	}
	out := strings.TrimSpace(rw.Text)
	if out == "" {
		return Result{}, fmt.Errorf("%s paraphrase: empty output", s.p.Name())
	}
	return Result{OriginalText: trimmed, HumanizedText: out, Note: rw.Note}, nil
}

// Placeholder echoes the input with an explanatory note.
type Placeholder struct{}

func (Placeholder) Name() string { return "placeholder" }

func (Placeholder) Paraphrase(_ context.Context, text string) (Rewrite, error) {
	return Rewrite{Text: text, Note: PlaceholderNote}, nil
}

type Options struct {
	Backend        string
	HFBaseURL      string
	HFToken        string
	HFModel        string
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
}

// NewParaphraser picks a backend by name. An empty name is the placeholder.
func NewParaphraser(opts Options) (Paraphraser, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "placeholder":
		return Placeholder{}, nil
	case "hf":
		return NewHFParaphraser(opts.HFBaseURL, opts.HFModel, opts.HFToken, opts.RequestTimeout), nil
	case "gemini":
		if strings.TrimSpace(opts.GeminiAPIKey) == "" {
			return nil, errors.New("humanize backend gemini requires GEMINI_API_KEY")
		}
		return NewGeminiParaphraser(opts.GeminiAPIKey, opts.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown humanize backend %q", opts.Backend)
	}
}
