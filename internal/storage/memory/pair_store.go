package memory

import (
	"context"
	"sort"
	"sync"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// PairStore is an in-memory implementation of storage.PairStore.
type PairStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TokenPair // keyed by pair_address
}

// NewPairStore creates a new in-memory pair store.
func NewPairStore() *PairStore {
	return &PairStore{
		data: make(map[string]*domain.TokenPair),
	}
}

// Insert adds a newly discovered pair. Returns ErrDuplicateKey if
// pair_address exists.
func (s *PairStore) Insert(_ context.Context, p *domain.TokenPair) error {
	if p == nil || p.PairAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.PairAddress]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	pairCopy := *p
	s.data[p.PairAddress] = &pairCopy
	return nil
}

// Get retrieves a pair by address. Returns ErrNotFound if not exists.
func (s *PairStore) Get(_ context.Context, pairAddress string) (*domain.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[pairAddress]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	pairCopy := *p
	return &pairCopy, nil
}

// Exists reports whether a pair address has been seen before.
func (s *PairStore) Exists(_ context.Context, pairAddress string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[pairAddress]
	return exists, nil
}

// GetByChain retrieves all pairs discovered on a chain, ordered by
// first_seen ASC.
func (s *PairStore) GetByChain(_ context.Context, chainID string) ([]*domain.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenPair
	for _, p := range s.data {
		if p.ChainID == chainID {
			pairCopy := *p
			result = append(result, &pairCopy)
		}
	}

	// Sort by first_seen ASC
	sort.Slice(result, func(i, j int) bool {
		return result[i].FirstSeen.Before(result[j].FirstSeen)
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PairStore = (*PairStore)(nil)
