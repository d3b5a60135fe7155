package offline

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai_text_detector/internal/aidetect"
	"ai_text_detector/internal/chunk"
	"ai_text_detector/internal/classify"
	"ai_text_detector/internal/humanize"
	"ai_text_detector/internal/ingest"
)

type failTransport struct{}

func (f failTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network disabled for offline test")
}

func TestOfflineMode(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = failTransport{}
	t.Cleanup(func() { http.DefaultTransport = original })

	text := strings.Repeat("This is a sentence. ", 500)
	segments := chunk.ByChars(text, chunk.DefaultMaxChars)
	if len(segments) < 5 {
		t.Fatalf("expected chunking to work offline, got %d segments", len(segments))
	}
	if len(chunk.SplitSentences(text)) != 500 {
		t.Fatal("expected sentence splitting to work offline")
	}

	path := filepath.Join(t.TempDir(), "essay.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	ext, err := ingest.Extract(path)
	if err != nil || ext.Text != text {
		t.Fatalf("expected extraction to work offline: %v", err)
	}

	res, err := humanize.NewService(nil).Humanize(context.Background(), text)
	if err != nil || res.HumanizedText != res.OriginalText {
		t.Fatalf("expected placeholder humanize to work offline: %v", err)
	}

	client := classify.NewHFClient("https://inference.invalid/models", "org/detector", "", time.Second)
	detector := aidetect.New(client, aidetect.DefaultConfig(), nil)
	if _, err := detector.Detect(context.Background(), text); !errors.Is(err, aidetect.ErrClassificationFailed) {
		t.Fatalf("expected detection to degrade to ErrClassificationFailed, got %v", err)
	}
}
