package domain

import (
	"fmt"
	"math"
	"time"
)

// PairSnapshot is a single observation of a tradable pair on a chain,
// produced once per poll. Snapshots are immutable; the watcher validates
// them at the ingestion boundary and rejects malformed ones before any
// engine state is touched.
type PairSnapshot struct {
	ChainID        string    // screener chain identifier ("ethereum", "bsc", ...)
	PairAddress    string    // unique on-chain pair address
	BaseSymbol     string    // base token symbol
	QuoteSymbol    string    // quote token symbol
	DevWallet      string    // pair creator wallet, DevWalletUnknown when unreported
	PriceUSD       float64   // last price in USD
	Volume24h      float64   // 24h trading volume in USD
	LiquidityUSD   float64   // pool liquidity in USD
	PriceChange24h float64   // 24h price change in percent
	CreatedAt      int64     // pair creation time, unix seconds (0 when unknown)
	ObservedAt     time.Time // when this snapshot was taken
}

// DevWalletUnknown marks a snapshot whose creator wallet was missing or
// implausible for its chain.
const DevWalletUnknown = "unknown"

// Validate checks the required snapshot fields. It returns a descriptive
// error for the first problem found; a snapshot failing validation must be
// skipped without mutating any state.
func (s *PairSnapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("nil snapshot")
	}
	if s.ChainID == "" {
		return fmt.Errorf("missing chain id")
	}
	if s.PairAddress == "" {
		return fmt.Errorf("missing pair address")
	}
	if !ValidPairAddress(s.ChainID, s.PairAddress) {
		return fmt.Errorf("invalid pair address %q for chain %s", s.PairAddress, s.ChainID)
	}
	if s.BaseSymbol == "" {
		return fmt.Errorf("missing base token symbol for %s", s.PairAddress)
	}
	if s.QuoteSymbol == "" {
		return fmt.Errorf("missing quote token symbol for %s", s.PairAddress)
	}
	for name, v := range map[string]float64{
		"price_usd":        s.PriceUSD,
		"volume_24h":       s.Volume24h,
		"liquidity_usd":    s.LiquidityUSD,
		"price_change_24h": s.PriceChange24h,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite %s for %s", name, s.PairAddress)
		}
	}
	if s.ObservedAt.IsZero() {
		return fmt.Errorf("missing observation time for %s", s.PairAddress)
	}
	return nil
}

// Age returns how old the pair is at the given instant. Pairs with an
// unknown creation time (CreatedAt == 0) report an age measured from the
// unix epoch, which keeps them safely outside any "new pair" window.
func (s *PairSnapshot) Age(at time.Time) time.Duration {
	return at.Sub(time.Unix(s.CreatedAt, 0))
}
