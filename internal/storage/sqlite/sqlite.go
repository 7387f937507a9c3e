package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// DB wraps database/sql for the embedded SQLite backend. A single
// connection avoids SQLITE_BUSY contention between the poller and readers.
type DB struct {
	*sql.DB
}

// schema is applied at open time. All statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS token_pairs (
    pair_address  TEXT PRIMARY KEY,
    chain_id      TEXT NOT NULL,
    base_symbol   TEXT NOT NULL,
    quote_symbol  TEXT NOT NULL,
    dev_wallet    TEXT NOT NULL DEFAULT 'unknown',
    created_at    INTEGER NOT NULL DEFAULT 0,
    first_seen_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_token_pairs_chain ON token_pairs (chain_id, first_seen_ms);

CREATE TABLE IF NOT EXISTS price_history (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_address     TEXT NOT NULL,
    price_usd        REAL NOT NULL,
    volume_24h       REAL NOT NULL,
    liquidity_usd    REAL NOT NULL,
    price_change_24h REAL NOT NULL,
    observed_at_ms   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_history_pair ON price_history (pair_address, observed_at_ms);

CREATE TABLE IF NOT EXISTS analysis (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_address   TEXT NOT NULL,
    event_type     TEXT NOT NULL,
    details        TEXT NOT NULL DEFAULT '{}',
    detected_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_pair ON analysis (pair_address, detected_at_ms);
CREATE INDEX IF NOT EXISTS idx_analysis_type ON analysis (event_type, detected_at_ms);

CREATE TABLE IF NOT EXISTS trades (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    pair_address   TEXT NOT NULL,
    action         TEXT NOT NULL,
    amount         REAL NOT NULL,
    price_usd      REAL NOT NULL,
    fee            REAL NOT NULL DEFAULT 0,
    executed_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades (pair_address, executed_at_ms);
`

// NewDB opens (creating if needed) the SQLite database at path and applies
// the schema.
func NewDB(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.DB.Close()
}

// isDuplicateKeyError checks if error is a unique or primary key violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique)
	}

	return false
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
