package memory

import (
	"context"
	"sort"
	"sync"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []*domain.AnalysisEvent
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Insert adds a detection for a pair.
func (s *EventStore) Insert(_ context.Context, e *domain.AnalysisEvent) error {
	if e == nil || e.PairAddress == "" || !e.Type.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.events = append(s.events, &eventCopy)
	return nil
}

// GetByPair retrieves all detections for a pair, ordered by detected_at ASC.
func (s *EventStore) GetByPair(_ context.Context, pairAddress string) ([]*domain.AnalysisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnalysisEvent
	for _, e := range s.events {
		if e.PairAddress == pairAddress {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}
	sortEvents(result)
	return result, nil
}

// GetByType retrieves all detections of one type, ordered by detected_at ASC.
func (s *EventStore) GetByType(_ context.Context, typ domain.EventType) ([]*domain.AnalysisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnalysisEvent
	for _, e := range s.events {
		if e.Type == typ {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}
	sortEvents(result)
	return result, nil
}

// sortEvents orders by detected_at ASC, preserving insert order for equal
// timestamps.
func sortEvents(events []*domain.AnalysisEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DetectedAt.Before(events[j].DetectedAt)
	})
}

// Verify interface compliance at compile time.
var _ storage.EventStore = (*EventStore)(nil)
