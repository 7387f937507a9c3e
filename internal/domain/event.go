package domain

import (
	"encoding/json"
	"time"
)

// EventType labels a detection recorded for a pair.
type EventType string

const (
	EventNew  EventType = "new"  // pair first seen within the new-pair window
	EventRug  EventType = "rug"  // price collapse with drained liquidity
	EventPump EventType = "pump" // price spike with elevated volume
)

// IsValid reports whether an event type is one of the known detections.
func (t EventType) IsValid() bool {
	switch t {
	case EventNew, EventRug, EventPump:
		return true
	}
	return false
}

func (t EventType) String() string { return string(t) }

// AnalysisEvent records a single detection for a pair. Events are
// append-only; the same pair may accumulate events of different types over
// its lifetime. Corresponds to a row in the analysis table.
type AnalysisEvent struct {
	PairAddress string    // pair the detection fired for
	Type        EventType // detection type
	Details     string    // JSON payload with the inputs that triggered it
	DetectedAt  time.Time // detection time
}

type newPairDetails struct {
	AgeHours int `json:"age_hours"`
}

type rugDetails struct {
	PriceChange24h float64 `json:"price_change_24h"`
	LiquidityUSD   float64 `json:"liquidity_usd"`
}

type pumpDetails struct {
	PriceChange24h float64 `json:"price_change_24h"`
	Volume24h      float64 `json:"volume_24h"`
}

// NewPairEvent builds the detection recorded when a pair is first seen
// inside the new-pair window. The payload carries the window width, not the
// observed age.
func NewPairEvent(pairAddress string, windowHours int, at time.Time) *AnalysisEvent {
	return &AnalysisEvent{
		PairAddress: pairAddress,
		Type:        EventNew,
		Details:     marshalDetails(newPairDetails{AgeHours: windowHours}),
		DetectedAt:  at,
	}
}

// RugEvent builds the detection recorded for a rug pull.
func RugEvent(pairAddress string, priceChange24h, liquidityUSD float64, at time.Time) *AnalysisEvent {
	return &AnalysisEvent{
		PairAddress: pairAddress,
		Type:        EventRug,
		Details:     marshalDetails(rugDetails{PriceChange24h: priceChange24h, LiquidityUSD: liquidityUSD}),
		DetectedAt:  at,
	}
}

// PumpEvent builds the detection recorded for a pump.
func PumpEvent(pairAddress string, priceChange24h, volume24h float64, at time.Time) *AnalysisEvent {
	return &AnalysisEvent{
		PairAddress: pairAddress,
		Type:        EventPump,
		Details:     marshalDetails(pumpDetails{PriceChange24h: priceChange24h, Volume24h: volume24h}),
		DetectedAt:  at,
	}
}

func marshalDetails(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
