package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a persisted trade signal.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.PairAddress == "" || !t.Action.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (pair_address, action, amount, price_usd, fee, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		t.PairAddress,
		string(t.Action),
		t.Amount,
		t.PriceUSD,
		t.Fee,
		t.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByPair retrieves all trades for a pair, ordered by executed_at ASC.
func (s *TradeStore) GetByPair(ctx context.Context, pairAddress string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT pair_address, action, amount, price_usd, fee, executed_at
		FROM trades
		WHERE pair_address = $1
		ORDER BY executed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pairAddress)
	if err != nil {
		return nil, fmt.Errorf("get trades by pair: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Recent retrieves the most recent limit trades across all pairs, ordered
// by executed_at ASC.
func (s *TradeStore) Recent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT pair_address, action, amount, price_usd, fee, executed_at
		FROM trades
		ORDER BY executed_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent trades: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	return trades, nil
}

// scanTrades scans multiple rows into a slice of TradeRecord.
func scanTrades(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		var t domain.TradeRecord
		var actionStr string

		err := rows.Scan(
			&t.PairAddress,
			&actionStr,
			&t.Amount,
			&t.PriceUSD,
			&t.Fee,
			&t.ExecutedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		t.Action = domain.TradeAction(actionStr)
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
