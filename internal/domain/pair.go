package domain

import "time"

// TokenPair is the persisted identity of a discovered pair.
// Corresponds to a row in the token_pairs table.
type TokenPair struct {
	PairAddress string    // unique key
	ChainID     string    // chain the pair trades on
	BaseSymbol  string    // base token symbol
	QuoteSymbol string    // quote token symbol
	DevWallet   string    // creator wallet, DevWalletUnknown when unreported
	CreatedAt   int64     // on-chain creation time, unix seconds
	FirstSeen   time.Time // first observation by this process
}

// PairFromSnapshot builds the persisted identity for a snapshot seen for
// the first time.
func PairFromSnapshot(s *PairSnapshot) *TokenPair {
	return &TokenPair{
		PairAddress: s.PairAddress,
		ChainID:     s.ChainID,
		BaseSymbol:  s.BaseSymbol,
		QuoteSymbol: s.QuoteSymbol,
		DevWallet:   s.DevWallet,
		CreatedAt:   s.CreatedAt,
		FirstSeen:   s.ObservedAt,
	}
}
