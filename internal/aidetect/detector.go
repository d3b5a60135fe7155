package aidetect

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"ai_text_detector/internal/chunk"
	"ai_text_detector/internal/classify"
	"ai_text_detector/internal/pipeline"
)

var (
	ErrEmptyInput           = errors.New("empty text received")
	ErrClassificationFailed = errors.New("failed to analyze text")
)

// Client-facing messages for the sentinel errors above.
const (
	MsgEmptyText      = "Empty text received"
	MsgAnalyzeFailure = "Failed to analyze text"
)

type Verdict struct {
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	AILikelihood string  `json:"ai_likelihood"`
}

type SentenceResult struct {
	Sentence     string  `json:"sentence"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	AILikelihood string  `json:"ai_likelihood"`
}

type Response struct {
	Overall          Verdict          `json:"overall"`
	Sentences        []SentenceResult `json:"sentences"`
	ChunksAnalyzed   int              `json:"chunks_analyzed"`
	ChunksSkipped    int              `json:"chunks_skipped,omitempty"`
	SentencesSkipped int              `json:"sentences_skipped,omitempty"`
}

type Config struct {
	MaxChunkChars    int
	MinSentenceChars int
	Workers          int
	FakeLabel        string
	RealLabel        string
}

type Logger interface {
	Log(level, stage, message, detail string)
}

func DefaultConfig() Config {
	return Config{
		MaxChunkChars:    chunk.DefaultMaxChars,
		MinSentenceChars: 10,
		Workers:          1,
		FakeLabel:        "Fake",
		RealLabel:        "Real",
	}
}

type Detector struct {
	classifier classify.Classifier
	cfg        Config
	logger     Logger
}

func New(classifier classify.Classifier, cfg Config, logger Logger) *Detector {
	def := DefaultConfig()
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = def.MaxChunkChars
	}
	if cfg.MinSentenceChars < 0 {
		cfg.MinSentenceChars = def.MinSentenceChars
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	cfg.FakeLabel = defaultIfEmpty(cfg.FakeLabel, def.FakeLabel)
	cfg.RealLabel = defaultIfEmpty(cfg.RealLabel, def.RealLabel)
	return &Detector{classifier: classifier, cfg: cfg, logger: logger}
}

// Detect classifies every chunk of text for the overall verdict and every
// sentence of at least MinSentenceChars runes for the breakdown. Failed
// calls are skipped; only a run where no chunk succeeded is an error.
func (d *Detector) Detect(ctx context.Context, text string) (Response, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Response{}, ErrEmptyInput
	}

	segments := chunk.ByChars(trimmed, d.cfg.MaxChunkChars)
	d.log("ANALYSIS", "DETECT", "Detection run started", fmt.Sprintf("chars=%d chunks=%d", utf8.RuneCountInString(trimmed), len(segments)))

	chunkOutcomes := pipeline.Run(ctx, segments, d.cfg.Workers, func(ctx context.Context, _ int, seg chunk.Segment) (classify.Result, error) {
		return d.classifier.Classify(ctx, seg.Text)
	})
	for _, o := range chunkOutcomes {
		if o.Err != nil {
			d.log("RISK", "CLASSIFY", "Chunk classification failed", fmt.Sprintf("chunk=%d err=%v", o.Index, o.Err))
		}
	}
	chunkResults := pipeline.Succeeded(chunkOutcomes)
	if len(chunkResults) == 0 {
		return Response{}, ErrClassificationFailed
	}
	overall := d.aggregate(chunkResults)

	sentences := d.eligibleSentences(trimmed)
	sentenceOutcomes := pipeline.Run(ctx, sentences, d.cfg.Workers, func(ctx context.Context, _ int, s string) (classify.Result, error) {
		return d.classifier.Classify(ctx, s)
	})
	breakdown := make([]SentenceResult, 0, len(sentences))
	sentencesSkipped := 0
	for _, o := range sentenceOutcomes {
		if o.Err != nil {
			sentencesSkipped++
			d.log("RISK", "CLASSIFY", "Sentence classification failed", fmt.Sprintf("sentence=%d err=%v", o.Index, o.Err))
			continue
		}
		// bucket on the raw score; rounding is for display only
		breakdown = append(breakdown, SentenceResult{
			Sentence:     sentences[o.Index],
			Label:        o.Value.Label,
			Score:        round4(o.Value.Score),
			AILikelihood: Likelihood(o.Value.Score),
		})
	}

	resp := Response{
		Overall:          overall,
		Sentences:        breakdown,
		ChunksAnalyzed:   len(chunkResults),
		ChunksSkipped:    len(segments) - len(chunkResults),
		SentencesSkipped: sentencesSkipped,
	}
	d.log("INFO", "DETECT", "Detection run finished", fmt.Sprintf("label=%s score=%.4f chunks=%d sentences=%d", overall.Label, overall.Score, resp.ChunksAnalyzed, len(breakdown)))
	return resp, nil
}

func (d *Detector) aggregate(results []classify.Result) Verdict {
	sum := 0.0
	fake := 0
	for _, r := range results {
		sum += r.Score
		if strings.EqualFold(strings.TrimSpace(r.Label), d.cfg.FakeLabel) {
			fake++
		}
	}
	label := d.cfg.RealLabel
	// strict majority; a tie is Real
	if fake*2 > len(results) {
		label = d.cfg.FakeLabel
	}
	mean := sum / float64(len(results))
	return Verdict{Label: label, Score: round4(mean), AILikelihood: Likelihood(mean)}
}

func (d *Detector) eligibleSentences(text string) []string {
	all := chunk.SplitSentences(text)
	out := make([]string, 0, len(all))
	for _, s := range all {
		if utf8.RuneCountInString(strings.TrimSpace(s)) < d.cfg.MinSentenceChars {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d *Detector) log(level, stage, message, detail string) {
	if d.logger != nil {
		d.logger.Log(level, stage, message, detail)
	}
}

// Likelihood buckets a score: above 0.8 is High, above 0.5 is Medium.
func Likelihood(score float64) string {
	switch {
	case score > 0.8:
		return "High"
	case score > 0.5:
		return "Medium"
	default:
		return "Low"
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
