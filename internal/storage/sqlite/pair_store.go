package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// PairStore implements storage.PairStore using SQLite.
type PairStore struct {
	db *DB
}

// NewPairStore creates a new PairStore.
func NewPairStore(db *DB) *PairStore {
	return &PairStore{db: db}
}

// Compile-time interface check.
var _ storage.PairStore = (*PairStore)(nil)

// Insert adds a newly discovered pair. Returns ErrDuplicateKey if
// pair_address exists.
func (s *PairStore) Insert(ctx context.Context, p *domain.TokenPair) error {
	if p == nil || p.PairAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO token_pairs (
			pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.PairAddress,
		p.ChainID,
		p.BaseSymbol,
		p.QuoteSymbol,
		p.DevWallet,
		p.CreatedAt,
		p.FirstSeen.UnixMilli(),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pair: %w", err)
	}
	return nil
}

// Get retrieves a pair by address. Returns ErrNotFound if not exists.
func (s *PairStore) Get(ctx context.Context, pairAddress string) (*domain.TokenPair, error) {
	query := `
		SELECT pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen_ms
		FROM token_pairs
		WHERE pair_address = ?
	`

	p, err := scanPair(s.db.QueryRowContext(ctx, query, pairAddress))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pair: %w", err)
	}
	return p, nil
}

// Exists reports whether a pair address has been seen before.
func (s *PairStore) Exists(ctx context.Context, pairAddress string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM token_pairs WHERE pair_address = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, pairAddress).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pair exists: %w", err)
	}
	return exists, nil
}

// GetByChain retrieves all pairs discovered on a chain, ordered by
// first_seen ASC.
func (s *PairStore) GetByChain(ctx context.Context, chainID string) ([]*domain.TokenPair, error) {
	query := `
		SELECT pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen_ms
		FROM token_pairs
		WHERE chain_id = ?
		ORDER BY first_seen_ms ASC, pair_address ASC
	`

	rows, err := s.db.QueryContext(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("get pairs by chain: %w", err)
	}
	defer rows.Close()

	var pairs []*domain.TokenPair
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pair row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair rows: %w", err)
	}
	return pairs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPair(row rowScanner) (*domain.TokenPair, error) {
	var p domain.TokenPair
	var firstSeenMs int64

	err := row.Scan(
		&p.PairAddress,
		&p.ChainID,
		&p.BaseSymbol,
		&p.QuoteSymbol,
		&p.DevWallet,
		&p.CreatedAt,
		&firstSeenMs,
	)
	if err != nil {
		return nil, err
	}

	p.FirstSeen = time.UnixMilli(firstSeenMs).UTC()
	return &p, nil
}

var _ rowScanner = (*sql.Row)(nil)
