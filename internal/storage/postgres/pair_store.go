package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// PairStore implements storage.PairStore using PostgreSQL.
type PairStore struct {
	pool *Pool
}

// NewPairStore creates a new PairStore.
func NewPairStore(pool *Pool) *PairStore {
	return &PairStore{pool: pool}
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
			pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		p.PairAddress,
		p.ChainID,
		p.BaseSymbol,
		p.QuoteSymbol,
		p.DevWallet,
		p.CreatedAt,
		p.FirstSeen,
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
		SELECT pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen
		FROM token_pairs
		WHERE pair_address = $1
	`

	row := s.pool.QueryRow(ctx, query, pairAddress)
	p, err := scanPair(row)
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
	query := `SELECT EXISTS (SELECT 1 FROM token_pairs WHERE pair_address = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, pairAddress).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pair exists: %w", err)
	}
	return exists, nil
}

// GetByChain retrieves all pairs discovered on a chain, ordered by
// first_seen ASC.
func (s *PairStore) GetByChain(ctx context.Context, chainID string) ([]*domain.TokenPair, error) {
	query := `
		SELECT pair_address, chain_id, base_symbol, quote_symbol, dev_wallet, created_at, first_seen
		FROM token_pairs
		WHERE chain_id = $1
		ORDER BY first_seen ASC, pair_address ASC
	`

	rows, err := s.pool.Query(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("get pairs by chain: %w", err)
	}
	defer rows.Close()

	return scanPairs(rows)
}

// scanPair scans a single row into a TokenPair.
func scanPair(row pgx.Row) (*domain.TokenPair, error) {
	var p domain.TokenPair
	err := row.Scan(
		&p.PairAddress,
		&p.ChainID,
		&p.BaseSymbol,
		&p.QuoteSymbol,
		&p.DevWallet,
		&p.CreatedAt,
		&p.FirstSeen,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanPairs scans multiple rows into a slice of TokenPair.
func scanPairs(rows pgx.Rows) ([]*domain.TokenPair, error) {
	var pairs []*domain.TokenPair

	for rows.Next() {
		var p domain.TokenPair
		err := rows.Scan(
			&p.PairAddress,
			&p.ChainID,
			&p.BaseSymbol,
			&p.QuoteSymbol,
			&p.DevWallet,
			&p.CreatedAt,
			&p.FirstSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pair row: %w", err)
		}
		pairs = append(pairs, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair rows: %w", err)
	}

	return pairs, nil
}
