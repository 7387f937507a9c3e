package domain

import "time"

// TradeAction is the side of an emitted trade signal.
type TradeAction string

const (
	ActionBuy  TradeAction = "buy"
	ActionSell TradeAction = "sell"
)

// IsValid reports whether the action is a known trade side.
func (a TradeAction) IsValid() bool {
	return a == ActionBuy || a == ActionSell
}

func (a TradeAction) String() string { return string(a) }

// TradeSignal instructs the trade sink to act on a pair. Signals carry
// everything the sink needs so it never has to look a pair back up.
type TradeSignal struct {
	PairAddress string      // pair to trade
	ChainID     string      // chain the pair trades on
	BaseSymbol  string      // base token symbol, used in confirmations
	Action      TradeAction // buy or sell
	Amount      float64     // position size in units
	PriceUSD    float64     // price at signal time
	Reason      string      // detection that produced the signal
	IssuedAt    time.Time   // signal time
}
