package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// HistoryStore is an in-memory implementation of storage.HistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PriceHistoryRecord // keyed by pair_address
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		data: make(map[string][]*domain.PriceHistoryRecord),
	}
}

// Append adds one observation for a pair.
func (s *HistoryStore) Append(_ context.Context, r *domain.PriceHistoryRecord) error {
	if r == nil || r.PairAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	s.data[r.PairAddress] = append(s.data[r.PairAddress], &recordCopy)
	return nil
}

// AppendBulk adds multiple observations. Fails the entire batch on any
// invalid record, appending nothing.
func (s *HistoryStore) AppendBulk(_ context.Context, records []*domain.PriceHistoryRecord) error {
	for _, r := range records {
		if r == nil || r.PairAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		recordCopy := *r
		s.data[r.PairAddress] = append(s.data[r.PairAddress], &recordCopy)
	}
	return nil
}

// Recent retrieves the most recent limit observations for a pair, ordered
// by timestamp ASC.
func (s *HistoryStore) Recent(_ context.Context, pairAddress string, limit int) ([]*domain.PriceHistoryRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.sortedCopy(pairAddress)
	if len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

// Window retrieves observations for a pair with timestamp >= since, ordered
// by timestamp ASC.
func (s *HistoryStore) Window(_ context.Context, pairAddress string, since time.Time) ([]*domain.PriceHistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceHistoryRecord
	for _, r := range s.sortedCopy(pairAddress) {
		if !r.Timestamp.Before(since) {
			result = append(result, r)
		}
	}
	return result, nil
}

// RecentPriceChanges retrieves price_change_24h across all pairs with
// timestamp >= since, ordered by timestamp ASC.
func (s *HistoryStore) RecentPriceChanges(_ context.Context, since time.Time) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []*domain.PriceHistoryRecord
	for _, pairRows := range s.data {
		for _, r := range pairRows {
			if !r.Timestamp.Before(since) {
				rows = append(rows, r)
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	changes := make([]float64, 0, len(rows))
	for _, r := range rows {
		changes = append(changes, r.PriceChange24h)
	}
	return changes, nil
}

// sortedCopy returns copies of a pair's records ordered by timestamp ASC,
// preserving append order for equal timestamps. Callers must hold the lock.
func (s *HistoryStore) sortedCopy(pairAddress string) []*domain.PriceHistoryRecord {
	rows := s.data[pairAddress]
	result := make([]*domain.PriceHistoryRecord, 0, len(rows))
	for _, r := range rows {
		recordCopy := *r
		result = append(result, &recordCopy)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// Verify interface compliance at compile time.
var _ storage.HistoryStore = (*HistoryStore)(nil)
