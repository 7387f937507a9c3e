package sqlite

import (
	"context"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// EventStore implements storage.EventStore using SQLite.
type EventStore struct {
	db *DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert adds a detection for a pair.
func (s *EventStore) Insert(ctx context.Context, e *domain.AnalysisEvent) error {
	if e == nil || e.PairAddress == "" || !e.Type.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO analysis (pair_address, event_type, details, detected_at_ms)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.PairAddress,
		string(e.Type),
		e.Details,
		e.DetectedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByPair retrieves all detections for a pair, ordered by detected_at ASC.
func (s *EventStore) GetByPair(ctx context.Context, pairAddress string) ([]*domain.AnalysisEvent, error) {
	query := `
		SELECT pair_address, event_type, details, detected_at_ms
		FROM analysis
		WHERE pair_address = ?
		ORDER BY detected_at_ms ASC, id ASC
	`
	return s.queryEvents(ctx, query, pairAddress)
}

// GetByType retrieves all detections of one type, ordered by detected_at ASC.
func (s *EventStore) GetByType(ctx context.Context, typ domain.EventType) ([]*domain.AnalysisEvent, error) {
	query := `
		SELECT pair_address, event_type, details, detected_at_ms
		FROM analysis
		WHERE event_type = ?
		ORDER BY detected_at_ms ASC, id ASC
	`
	return s.queryEvents(ctx, query, string(typ))
}

func (s *EventStore) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.AnalysisEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.AnalysisEvent
	for rows.Next() {
		var e domain.AnalysisEvent
		var typeStr string
		var detectedAtMs int64

		err := rows.Scan(&e.PairAddress, &typeStr, &e.Details, &detectedAtMs)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.Type = domain.EventType(typeStr)
		e.DetectedAt = time.UnixMilli(detectedAtMs).UTC()
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, nil
}
