package sqlite

import (
	"context"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// TradeStore implements storage.TradeStore using SQLite.
type TradeStore struct {
	db *DB
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(db *DB) *TradeStore {
	return &TradeStore{db: db}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a persisted trade signal.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.PairAddress == "" || !t.Action.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (pair_address, action, amount, price_usd, fee, executed_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.PairAddress,
		string(t.Action),
		t.Amount,
		t.PriceUSD,
		t.Fee,
		t.ExecutedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByPair retrieves all trades for a pair, ordered by executed_at ASC.
func (s *TradeStore) GetByPair(ctx context.Context, pairAddress string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT pair_address, action, amount, price_usd, fee, executed_at_ms
		FROM trades
		WHERE pair_address = ?
		ORDER BY executed_at_ms ASC, id ASC
	`
	return s.queryTrades(ctx, query, pairAddress)
}

// Recent retrieves the most recent limit trades across all pairs, ordered
// by executed_at ASC.
func (s *TradeStore) Recent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT pair_address, action, amount, price_usd, fee, executed_at_ms
		FROM trades
		ORDER BY executed_at_ms DESC, id DESC
		LIMIT ?
	`

	trades, err := s.queryTrades(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
	return trades, nil
}

func (s *TradeStore) queryTrades(ctx context.Context, query string, args ...interface{}) ([]*domain.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var actionStr string
		var executedAtMs int64

		err := rows.Scan(&t.PairAddress, &actionStr, &t.Amount, &t.PriceUSD, &t.Fee, &executedAtMs)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		t.Action = domain.TradeAction(actionStr)
		t.ExecutedAt = time.UnixMilli(executedAtMs).UTC()
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}
	return trades, nil
}
