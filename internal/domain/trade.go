package domain

import "time"

// TradeRecord persists an emitted trade signal for later review.
// Corresponds to a row in the trades table. Fee is zero at signal time and
// filled in once an execution report is available.
type TradeRecord struct {
	PairAddress string      // pair the trade was signalled for
	Action      TradeAction // buy or sell
	Amount      float64     // position size in units
	PriceUSD    float64     // price at signal time
	Fee         float64     // execution fee, zero until reported
	ExecutedAt  time.Time   // signal time
}

// TradeFromSignal converts an emitted signal into its persisted record.
func TradeFromSignal(sig *TradeSignal) *TradeRecord {
	return &TradeRecord{
		PairAddress: sig.PairAddress,
		Action:      sig.Action,
		Amount:      sig.Amount,
		PriceUSD:    sig.PriceUSD,
		ExecutedAt:  sig.IssuedAt,
	}
}
