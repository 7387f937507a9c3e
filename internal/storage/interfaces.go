package storage

import (
	"context"
	"time"

	"dexwatch/internal/domain"
)

// PairStore provides access to token_pairs storage.
type PairStore interface {
	// Insert adds a newly discovered pair. Returns ErrDuplicateKey if
	// pair_address exists.
	Insert(ctx context.Context, p *domain.TokenPair) error

	// Get retrieves a pair by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, pairAddress string) (*domain.TokenPair, error)

	// Exists reports whether a pair address has been seen before.
	Exists(ctx context.Context, pairAddress string) (bool, error)

	// GetByChain retrieves all pairs discovered on a chain, ordered by
	// first_seen ASC.
	GetByChain(ctx context.Context, chainID string) ([]*domain.TokenPair, error)
}

// HistoryStore provides access to price_history storage. History is
// append-only; rows are never updated or deleted.
type HistoryStore interface {
	// Append adds one observation for a pair.
	Append(ctx context.Context, r *domain.PriceHistoryRecord) error

	// AppendBulk adds multiple observations. Fails the entire batch on
	// any error.
	AppendBulk(ctx context.Context, records []*domain.PriceHistoryRecord) error

	// Recent retrieves the most recent limit observations for a pair,
	// ordered by timestamp ASC.
	Recent(ctx context.Context, pairAddress string, limit int) ([]*domain.PriceHistoryRecord, error)

	// Window retrieves observations for a pair with timestamp >= since,
	// ordered by timestamp ASC.
	Window(ctx context.Context, pairAddress string, since time.Time) ([]*domain.PriceHistoryRecord, error)

	// RecentPriceChanges retrieves the price_change_24h of every
	// observation across all pairs with timestamp >= since, ordered by
	// timestamp ASC. Feeds the volatility estimate behind adaptive
	// thresholds.
	RecentPriceChanges(ctx context.Context, since time.Time) ([]float64, error)
}

// EventStore provides access to analysis storage.
type EventStore interface {
	// Insert adds a detection for a pair.
	Insert(ctx context.Context, e *domain.AnalysisEvent) error

	// GetByPair retrieves all detections for a pair, ordered by
	// detected_at ASC.
	GetByPair(ctx context.Context, pairAddress string) ([]*domain.AnalysisEvent, error)

	// GetByType retrieves all detections of one type, ordered by
	// detected_at ASC.
	GetByType(ctx context.Context, typ domain.EventType) ([]*domain.AnalysisEvent, error)
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a persisted trade signal.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// GetByPair retrieves all trades for a pair, ordered by executed_at ASC.
	GetByPair(ctx context.Context, pairAddress string) ([]*domain.TradeRecord, error)

	// Recent retrieves the most recent limit trades across all pairs,
	// ordered by executed_at ASC.
	Recent(ctx context.Context, limit int) ([]*domain.TradeRecord, error)
}
