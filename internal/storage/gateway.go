// Package storage provides the durable key-value gateway behind the
// ledger, backed by sqlite. The gateway is deliberately forgiving:
// loads fall back on any failure and saves never surface errors, so a
// broken database degrades the process to an in-memory session instead
// of taking it down.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLiteGateway struct {
	db *sql.DB
}

// NewSQLiteGateway opens (creating if necessary) the database at dbPath
// and runs pending migrations.
func NewSQLiteGateway(dbPath string) (*SQLiteGateway, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteGateway{db: db}, nil
}

func (g *SQLiteGateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

// Load fetches the stored value for key. A missing key or any driver
// error reports ok=false so the caller can fall back.
func (g *SQLiteGateway) Load(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT value FROM ledger_kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to load stored collection, falling back", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

// Save upserts the value for key. Failures are logged and swallowed;
// the in-memory ledger remains the source of truth for the session.
func (g *SQLiteGateway) Save(ctx context.Context, key string, value []byte) {
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO ledger_kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		slog.WarnContext(ctx, "Failed to save collection", "key", key, "error", err)
		return
	}
	slog.DebugContext(ctx, "Collection saved", "key", key, "bytes", len(value))
}
