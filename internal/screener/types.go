package screener

import (
	"fmt"
	"strconv"
	"time"

	"dexwatch/internal/domain"
)

// Pair is the wire representation of a market pair.
type Pair struct {
	PairAddress   string    `json:"pairAddress"`
	ChainID       string    `json:"chainId"`
	DexID         string    `json:"dexId"`
	BaseToken     Token     `json:"baseToken"`
	QuoteToken    Token     `json:"quoteToken"`
	PriceUSD      string    `json:"priceUsd"`
	Volume        Window    `json:"volume"`
	Liquidity     Liquidity `json:"liquidity"`
	PriceChange   Window    `json:"priceChange"`
	PairCreatedAt int64     `json:"pairCreatedAt"` // Unix milliseconds
	PairCreatedBy string    `json:"pairCreatedBy"` // creator wallet, often absent
}

// Token identifies one side of a pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Window holds per-timeframe figures; only the 24h bucket is used.
type Window struct {
	H24 float64 `json:"h24"`
}

// Liquidity holds the pooled liquidity figures.
type Liquidity struct {
	USD float64 `json:"usd"`
}

// Snapshot converts the wire pair into a validated domain snapshot.
// priceUsd arrives as a string on the wire; an absent value maps to 0.
func (p Pair) Snapshot(observedAt time.Time) (domain.PairSnapshot, error) {
	var priceUSD float64
	if p.PriceUSD != "" {
		v, err := strconv.ParseFloat(p.PriceUSD, 64)
		if err != nil {
			return domain.PairSnapshot{}, fmt.Errorf("parse priceUsd %q for %s: %w", p.PriceUSD, p.PairAddress, err)
		}
		priceUSD = v
	}

	snap := domain.PairSnapshot{
		ChainID:        p.ChainID,
		PairAddress:    p.PairAddress,
		BaseSymbol:     p.BaseToken.Symbol,
		QuoteSymbol:    p.QuoteToken.Symbol,
		DevWallet:      domain.NormalizeDevWallet(p.ChainID, p.PairCreatedBy),
		PriceUSD:       priceUSD,
		Volume24h:      p.Volume.H24,
		LiquidityUSD:   p.Liquidity.USD,
		PriceChange24h: p.PriceChange.H24,
		CreatedAt:      p.PairCreatedAt / 1000,
		ObservedAt:     observedAt,
	}
	if err := snap.Validate(); err != nil {
		return domain.PairSnapshot{}, err
	}
	return snap, nil
}

// snapshots maps wire pairs to validated snapshots, dropping entries
// that fail validation.
func snapshots(pairs []Pair, observedAt time.Time) []domain.PairSnapshot {
	out := make([]domain.PairSnapshot, 0, len(pairs))
	for _, p := range pairs {
		snap, err := p.Snapshot(observedAt)
		if err != nil {
			continue
		}
		out = append(out, snap)
	}
	return out
}
