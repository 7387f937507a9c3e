package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// HistoryStore implements storage.HistoryStore using PostgreSQL.
type HistoryStore struct {
	pool *Pool
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(pool *Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.HistoryStore = (*HistoryStore)(nil)

// Append adds one observation for a pair.
func (s *HistoryStore) Append(ctx context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.PairAddress == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO price_history (
			pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		r.PairAddress,
		r.PriceUSD,
		r.Volume24h,
		r.LiquidityUSD,
		r.PriceChange24h,
		r.Timestamp,
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO price_history (
			pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.PairAddress,
			r.PriceUSD,
			r.Volume24h,
			r.LiquidityUSD,
			r.PriceChange24h,
			r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append history in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
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
		SELECT pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		FROM price_history
		WHERE pair_address = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, pairAddress, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent history: %w", err)
	}
	defer rows.Close()

	records, err := scanHistory(rows)
	if err != nil {
		return nil, err
	}
	reverseHistory(records)
	return records, nil
}

// Window retrieves observations for a pair with timestamp >= since, ordered
// by timestamp ASC.
func (s *HistoryStore) Window(ctx context.Context, pairAddress string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	query := `
		SELECT pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		FROM price_history
		WHERE pair_address = $1 AND observed_at >= $2
		ORDER BY observed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pairAddress, since)
	if err != nil {
		return nil, fmt.Errorf("get history window: %w", err)
	}
	defer rows.Close()

	return scanHistory(rows)
}

// RecentPriceChanges retrieves price_change_24h across all pairs with
// timestamp >= since, ordered by timestamp ASC.
func (s *HistoryStore) RecentPriceChanges(ctx context.Context, since time.Time) ([]float64, error) {
	query := `
		SELECT price_change_24h
		FROM price_history
		WHERE observed_at >= $1
		ORDER BY observed_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, since)
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

// scanHistory scans multiple rows into a slice of PriceHistoryRecord.
func scanHistory(rows pgx.Rows) ([]*domain.PriceHistoryRecord, error) {
	var records []*domain.PriceHistoryRecord

	for rows.Next() {
		var r domain.PriceHistoryRecord
		err := rows.Scan(
			&r.PairAddress,
			&r.PriceUSD,
			&r.Volume24h,
			&r.LiquidityUSD,
			&r.PriceChange24h,
			&r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return records, nil
}

func reverseHistory(records []*domain.PriceHistoryRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
