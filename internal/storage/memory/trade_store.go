package memory

import (
	"context"
	"sort"
	"sync"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu     sync.RWMutex
	trades []*domain.TradeRecord
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

// Insert adds a persisted trade signal.
func (s *TradeStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.PairAddress == "" || !t.Action.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tradeCopy := *t
	s.trades = append(s.trades, &tradeCopy)
	return nil
}

// GetByPair retrieves all trades for a pair, ordered by executed_at ASC.
func (s *TradeStore) GetByPair(_ context.Context, pairAddress string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.trades {
		if t.PairAddress == pairAddress {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}
	sortTrades(result)
	return result, nil
}

// Recent retrieves the most recent limit trades across all pairs, ordered
// by executed_at ASC.
func (s *TradeStore) Recent(_ context.Context, limit int) ([]*domain.TradeRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TradeRecord, 0, len(s.trades))
	for _, t := range s.trades {
		tradeCopy := *t
		result = append(result, &tradeCopy)
	}
	sortTrades(result)
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

// sortTrades orders by executed_at ASC, preserving insert order for equal
// timestamps.
func sortTrades(trades []*domain.TradeRecord) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ExecutedAt.Before(trades[j].ExecutedAt)
	})
}

// Verify interface compliance at compile time.
var _ storage.TradeStore = (*TradeStore)(nil)
