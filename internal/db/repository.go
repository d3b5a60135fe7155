package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type CachedResult struct {
	Label     string  `db:"label"`
	Score     float64 `db:"score"`
	CreatedAt int64   `db:"created_at"`
}

type CacheRepo struct {
	DB     *sqlx.DB
	MaxAge time.Duration
	now    func() time.Time
}

func NewCacheRepo(conn *sqlx.DB, maxAge time.Duration) *CacheRepo {
	return &CacheRepo{DB: conn, MaxAge: maxAge, now: time.Now}
}

// Find returns the cached classification of text for model. Entries older
// than MaxAge (when set) are reported as sql.ErrNoRows.
func (r *CacheRepo) Find(ctx context.Context, model, text string) (CachedResult, error) {
	const q = `SELECT label, score, created_at FROM classification_cache WHERE model = ? AND text_hash = ?`
	var out CachedResult
	if err := r.DB.GetContext(ctx, &out, q, model, TextHash(text)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CachedResult{}, sql.ErrNoRows
		}
		return CachedResult{}, fmt.Errorf("find cached result: %w", err)
	}
	if r.MaxAge > 0 && r.now().Sub(time.Unix(out.CreatedAt, 0)) > r.MaxAge {
		return CachedResult{}, sql.ErrNoRows
	}
	return out, nil
}

func (r *CacheRepo) Upsert(ctx context.Context, model, text, label string, score float64) error {
	const q = `
INSERT INTO classification_cache(model, text_hash, label, score, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (model, text_hash)
DO UPDATE SET label = excluded.label, score = excluded.score, created_at = excluded.created_at`
	if _, err := r.DB.ExecContext(ctx, q, model, TextHash(text), label, score, r.now().Unix()); err != nil {
		return fmt.Errorf("upsert cached result: %w", err)
	}
	return nil
}

func (r *CacheRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM classification_cache`); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
