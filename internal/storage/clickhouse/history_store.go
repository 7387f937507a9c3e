package clickhouse

import (
	"context"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// HistoryStore implements storage.HistoryStore using ClickHouse. MergeTree
// does not enforce uniqueness, which suits append-only history.
type HistoryStore struct {
	conn *Conn
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(conn *Conn) *HistoryStore {
	return &HistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.HistoryStore = (*HistoryStore)(nil)

// Append adds one observation for a pair.
func (s *HistoryStore) Append(ctx context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.PairAddress == "" {
		return storage.ErrInvalidInput
	}
	return s.AppendBulk(ctx, []*domain.PriceHistoryRecord{r})
}

// AppendBulk adds multiple observations in one batch.
func (s *HistoryStore) AppendBulk(ctx context.Context, records []*domain.PriceHistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.PairAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.PairAddress, r.PriceUSD, r.Volume24h,
			r.LiquidityUSD, r.PriceChange24h, r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
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
		WHERE pair_address = ?
		ORDER BY observed_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, pairAddress, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent history: %w", err)
	}
	defer rows.Close()

	records, err := scanHistory(rows)
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
		SELECT pair_address, price_usd, volume_24h, liquidity_usd, price_change_24h, observed_at
		FROM price_history
		WHERE pair_address = ? AND observed_at >= ?
		ORDER BY observed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, pairAddress, since)
	if err != nil {
		return nil, fmt.Errorf("query history window: %w", err)
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
		WHERE observed_at >= ?
		ORDER BY observed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, since)
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

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanHistory scans multiple rows into a slice of PriceHistoryRecord.
func scanHistory(rows chRows) ([]*domain.PriceHistoryRecord, error) {
	var records []*domain.PriceHistoryRecord

	for rows.Next() {
		var r domain.PriceHistoryRecord
		err := rows.Scan(
			&r.PairAddress, &r.PriceUSD, &r.Volume24h,
			&r.LiquidityUSD, &r.PriceChange24h, &r.Timestamp,
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
