package classify

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"ai_text_detector/internal/db"
)

type cached struct {
	next   Classifier
	repo   *db.CacheRepo
	model  string
	logger *zap.Logger
}

// WithCache serves repeated texts from repo. Lookups or writes that fail are
// logged and fall through to next; only next's errors are returned.
func WithCache(next Classifier, repo *db.CacheRepo, model string, logger *zap.Logger) Classifier {
	if repo == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cached{next: next, repo: repo, model: model, logger: logger.With(zap.String("model", model))}
}

func (c *cached) Classify(ctx context.Context, text string) (Result, error) {
	hit, err := c.repo.Find(ctx, c.model, text)
	switch {
	case err == nil:
		res := Result{Label: hit.Label, Score: hit.Score}
		verr := res.Validate()
		if verr == nil {
			return res, nil
		}
		c.logger.Debug("discarding invalid cache entry", zap.Error(verr))
	case errors.Is(err, sql.ErrNoRows):
	case ctx.Err() != nil:
		return Result{}, ctx.Err()
	default:
		c.logger.Warn("classification cache lookup failed", zap.Error(err))
	}

	res, err := c.next.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}
	if err := c.repo.Upsert(ctx, c.model, text, res.Label, res.Score); err != nil {
		c.logger.Warn("classification cache write failed", zap.Error(err))
	}
	return res, nil
}
