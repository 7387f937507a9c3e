package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

// Insert adds a detection for a pair.
func (s *EventStore) Insert(ctx context.Context, e *domain.AnalysisEvent) error {
	if e == nil || e.PairAddress == "" || !e.Type.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO analysis (pair_address, event_type, details, detected_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query,
		e.PairAddress,
		string(e.Type),
		e.Details,
		e.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByPair retrieves all detections for a pair, ordered by detected_at ASC.
func (s *EventStore) GetByPair(ctx context.Context, pairAddress string) ([]*domain.AnalysisEvent, error) {
	query := `
		SELECT pair_address, event_type, details, detected_at
		FROM analysis
		WHERE pair_address = $1
		ORDER BY detected_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, pairAddress)
	if err != nil {
		return nil, fmt.Errorf("get events by pair: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByType retrieves all detections of one type, ordered by detected_at ASC.
func (s *EventStore) GetByType(ctx context.Context, typ domain.EventType) ([]*domain.AnalysisEvent, error) {
	query := `
		SELECT pair_address, event_type, details, detected_at
		FROM analysis
		WHERE event_type = $1
		ORDER BY detected_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(typ))
	if err != nil {
		return nil, fmt.Errorf("get events by type: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// scanEvents scans multiple rows into a slice of AnalysisEvent.
func scanEvents(rows pgx.Rows) ([]*domain.AnalysisEvent, error) {
	var events []*domain.AnalysisEvent

	for rows.Next() {
		var e domain.AnalysisEvent
		var typeStr string

		err := rows.Scan(
			&e.PairAddress,
			&typeStr,
			&e.Details,
			&e.DetectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.Type = domain.EventType(typeStr)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
