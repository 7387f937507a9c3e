// Package screener pulls market pair data from a DexScreener-compatible
// feed, over REST polling or a snapshot websocket stream, and maps it
// into validated domain snapshots.
package screener

import (
	"context"

	"dexwatch/internal/domain"
)

// Source supplies the current pair snapshots for a chain.
type Source interface {
	// FetchPairs returns the latest snapshots for the chain. Entries
	// that fail validation are dropped at the boundary.
	FetchPairs(ctx context.Context, chainID string) ([]domain.PairSnapshot, error)
}
