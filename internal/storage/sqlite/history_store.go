package sqlite

import (
	"context"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// HistoryStore implements storage.HistoryStore using SQLite.
type HistoryStore struct {
	db *DB
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Compile-time interface check.
var _ storage.HistoryStore = (*HistoryStore)(nil)

const insertHistoryQuery = `
	INSERT INTO price_history (
		pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at_ms
	) VALUES (?, ?, ?, ?, ?, ?)
`

// Append adds one observation for a pair.
func (s *HistoryStore) Append(ctx context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.PairAddress == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, insertHistoryQuery,
		r.PairAddress,
		r.PriceUSD,
		r.Volume24h,
		r.LiquidityUSD,
		r.PriceChange24h,
		r.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// AppendBulk adds multiple observations atomically.
func (s *HistoryStore) AppendBulk(ctx context.Context, records []*domain.PriceHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.PairAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx, insertHistoryQuery,
			r.PairAddress,
			r.PriceUSD,
			r.Volume24h,
			r.LiquidityUSD,
			r.PriceChange24h,
			r.Timestamp.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("append history in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Recent retrieves the most recent limit observations for a pair, ordered
// by timestamp ASC.
func (s *HistoryStore) Recent(ctx context.Context, pairAddress string, limit int) ([]*domain.PriceHistoryRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	// Fetch newest first, then restore chronological order.
	query := `
		SELECT pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at_ms
		FROM price_history
		WHERE pair_address = ?
		ORDER BY observed_at_ms DESC, id DESC
		LIMIT ?
	`

	records, err := s.queryHistory(ctx, query, pairAddress, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Window retrieves observations for a pair with timestamp >= since, ordered
// by timestamp ASC.
func (s *HistoryStore) Window(ctx context.Context, pairAddress string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	query := `
		SELECT pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at_ms
		FROM price_history
		WHERE pair_address = ? AND observed_at_ms >= ?
		ORDER BY observed_at_ms ASC, id ASC
	`

	return s.queryHistory(ctx, query, pairAddress, since.UnixMilli())
}

// RecentPriceChanges retrieves price_change_24h across all pairs with
// timestamp >= since, ordered by timestamp ASC.
func (s *HistoryStore) RecentPriceChanges(ctx context.Context, since time.Time) ([]float64, error) {
	query := `
		SELECT price_change_24h
		FROM price_history
		WHERE observed_at_ms >= ?
		ORDER BY observed_at_ms ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query price changes: %w", err)
	}
	defer rows.Close()

	var changes []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price changes: %w", err)
	}
	return changes, nil
}

func (s *HistoryStore) queryHistory(ctx context.Context, query string, args ...interface{}) ([]*domain.PriceHistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []*domain.PriceHistoryRecord
	for rows.Next() {
		var r domain.PriceHistoryRecord
		var observedAtMs int64

		err := rows.Scan(
			&r.PairAddress,
			&r.PriceUSD,
			&r.Volume24h,
			&r.LiquidityUSD,
			&r.PriceChange24h,
			&observedAtMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		r.Timestamp = time.UnixMilli(observedAtMs).UTC()
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}
