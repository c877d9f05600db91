// Package sqlite stores votes, items and site options in an embedded SQLite
// file. Timestamps are kept as unix seconds so range predicates compare
// integers.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		pro INTEGER NOT NULL DEFAULT 0,
		contra INTEGER NOT NULL DEFAULT 0,
		user_key TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	"CREATE INDEX IF NOT EXISTS idx_votes_item_id ON votes(item_id)",
	"CREATE INDEX IF NOT EXISTS idx_votes_created_at ON votes(created_at)",
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		permalink TEXT NOT NULL DEFAULT '',
		post_type TEXT NOT NULL DEFAULT 'post',
		published_at INTEGER NOT NULL
	)`,
	"CREATE INDEX IF NOT EXISTS idx_items_post_type ON items(post_type)",
	`CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// Open opens the database at path and creates missing tables. ":memory:"
// is limited to one connection, since every connection would otherwise get
// its own empty database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	slog.Debug("SQLite database initialized", "path", path)
	return db, nil
}

// HealthCheck pings the database.
func HealthCheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("sqlite ping failed: %w", err)
		}
		return nil
	}
}
