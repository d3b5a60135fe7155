package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

type Result struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier labels one piece of text as machine or human written.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

var ErrInvalidResult = errors.New("invalid classification result")

// Validate rejects results with a blank label or a score outside [0,1].
func (r Result) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidResult)
	}
	if math.IsNaN(r.Score) || r.Score < 0 || r.Score > 1 {
		return fmt.Errorf("%w: score %v out of range", ErrInvalidResult, r.Score)
	}
	return nil
}
