package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS classification_cache (
    model TEXT NOT NULL,
    text_hash TEXT NOT NULL,
    label TEXT NOT NULL,
    score REAL NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (model, text_hash)
);
`

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open opens (or creates) the sqlite database at path and applies the schema.
// ":memory:" keeps the cache process local.
func Open(path string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection so ":memory:" is a single shared database
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(SchemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return conn, nil
}
