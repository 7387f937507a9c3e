// Package oracle holds clients for the external verdict services
// consulted before a pair is analyzed: a token reputation rating and a
// fake-volume probe. Clients return transport and decode failures as
// errors; the caller decides whether an unanswered check passes or
// fails the pair.
package oracle

import "context"

// ReputationClient reports whether a token's public rating passes.
type ReputationClient interface {
	// IsGood reports whether the address is rated "good" (case-insensitive).
	// Any other rating, or a missing one, is not good.
	IsGood(ctx context.Context, tokenAddress string) (bool, error)
}

// VolumeCheck is the request payload for a fake-volume probe.
type VolumeCheck struct {
	Chain        string  `json:"chain"`
	PairAddress  string  `json:"pair_address"`
	Volume24h    float64 `json:"volume_24h"`
	LiquidityUSD float64 `json:"liquidity_usd"`
}

// VolumeVerdict is the oracle's answer to a fake-volume probe.
type VolumeVerdict struct {
	IsFake bool
	Reason string
}

// VolumeClient probes a pair's reported volume for fabrication.
type VolumeClient interface {
	CheckVolume(ctx context.Context, check VolumeCheck) (VolumeVerdict, error)
}
