package domain

import "time"

// PriceHistoryRecord is one appended market observation for a pair.
// Corresponds to a row in the price_history table. History is append-only
// and ordered by Timestamp; returns and volatility calculations depend on
// that ordering.
type PriceHistoryRecord struct {
	PairAddress    string    // pair the observation belongs to
	PriceUSD       float64   // price at observation time
	Volume24h      float64   // 24h volume at observation time
	LiquidityUSD   float64   // liquidity at observation time
	PriceChange24h float64   // 24h change in percent at observation time
	Timestamp      time.Time // observation time
}

// HistoryFromSnapshot converts a validated snapshot into its history row.
func HistoryFromSnapshot(s *PairSnapshot) *PriceHistoryRecord {
	return &PriceHistoryRecord{
		PairAddress:    s.PairAddress,
		PriceUSD:       s.PriceUSD,
		Volume24h:      s.Volume24h,
		LiquidityUSD:   s.LiquidityUSD,
		PriceChange24h: s.PriceChange24h,
		Timestamp:      s.ObservedAt,
	}
}
