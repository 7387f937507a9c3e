package domain

import (
	"math"
	"strings"
	"testing"
	"time"
)

func validSnapshot() PairSnapshot {
	return PairSnapshot{
		ChainID:        ChainEthereum,
		PairAddress:    "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984",
		BaseSymbol:     "UNI",
		QuoteSymbol:    "WETH",
		DevWallet:      DevWalletUnknown,
		PriceUSD:       7.42,
		Volume24h:      125000,
		LiquidityUSD:   980000,
		PriceChange24h: -3.1,
		CreatedAt:      1600000000,
		ObservedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PairSnapshot)
		wantErr string
	}{
		{
			name:   "valid snapshot",
			mutate: func(s *PairSnapshot) {},
		},
		{
			name:    "missing chain",
			mutate:  func(s *PairSnapshot) { s.ChainID = "" },
			wantErr: "missing chain id",
		},
		{
			name:    "missing pair address",
			mutate:  func(s *PairSnapshot) { s.PairAddress = "" },
			wantErr: "missing pair address",
		},
		{
			name:    "malformed evm pair address",
			mutate:  func(s *PairSnapshot) { s.PairAddress = "0x1234" },
			wantErr: "invalid pair address",
		},
		{
			name:    "missing base symbol",
			mutate:  func(s *PairSnapshot) { s.BaseSymbol = "" },
			wantErr: "missing base token symbol",
		},
		{
			name:    "missing quote symbol",
			mutate:  func(s *PairSnapshot) { s.QuoteSymbol = "" },
			wantErr: "missing quote token symbol",
		},
		{
			name:    "nan price",
			mutate:  func(s *PairSnapshot) { s.PriceUSD = math.NaN() },
			wantErr: "non-finite price_usd",
		},
		{
			name:    "infinite liquidity",
			mutate:  func(s *PairSnapshot) { s.LiquidityUSD = math.Inf(1) },
			wantErr: "non-finite liquidity_usd",
		},
		{
			name:    "nan price change",
			mutate:  func(s *PairSnapshot) { s.PriceChange24h = math.NaN() },
			wantErr: "non-finite price_change_24h",
		},
		{
			name:    "missing observation time",
			mutate:  func(s *PairSnapshot) { s.ObservedAt = time.Time{} },
			wantErr: "missing observation time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotValidateNil(t *testing.T) {
	var s *PairSnapshot
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() on nil snapshot = nil, want error")
	}
}

func TestSnapshotAge(t *testing.T) {
	s := validSnapshot()
	s.CreatedAt = s.ObservedAt.Add(-6 * time.Hour).Unix()

	if got := s.Age(s.ObservedAt); got != 6*time.Hour {
		t.Errorf("Age() = %v, want %v", got, 6*time.Hour)
	}

	// Unknown creation time counts from the epoch, far outside any
	// freshness window.
	s.CreatedAt = 0
	if got := s.Age(s.ObservedAt); got < 24*365*time.Hour {
		t.Errorf("Age() with zero CreatedAt = %v, want epoch-scale age", got)
	}
}

func TestPairFromSnapshot(t *testing.T) {
	s := validSnapshot()
	p := PairFromSnapshot(&s)

	if p.PairAddress != s.PairAddress {
		t.Errorf("PairAddress = %q, want %q", p.PairAddress, s.PairAddress)
	}
	if p.ChainID != s.ChainID {
		t.Errorf("ChainID = %q, want %q", p.ChainID, s.ChainID)
	}
	if p.BaseSymbol != s.BaseSymbol || p.QuoteSymbol != s.QuoteSymbol {
		t.Errorf("symbols = %q/%q, want %q/%q", p.BaseSymbol, p.QuoteSymbol, s.BaseSymbol, s.QuoteSymbol)
	}
	if p.CreatedAt != s.CreatedAt {
		t.Errorf("CreatedAt = %d, want %d", p.CreatedAt, s.CreatedAt)
	}
	if !p.FirstSeen.Equal(s.ObservedAt) {
		t.Errorf("FirstSeen = %v, want %v", p.FirstSeen, s.ObservedAt)
	}
}

func TestHistoryFromSnapshot(t *testing.T) {
	s := validSnapshot()
	h := HistoryFromSnapshot(&s)

	if h.PairAddress != s.PairAddress {
		t.Errorf("PairAddress = %q, want %q", h.PairAddress, s.PairAddress)
	}
	if h.PriceUSD != s.PriceUSD || h.Volume24h != s.Volume24h || h.LiquidityUSD != s.LiquidityUSD {
		t.Errorf("market fields not carried over: %+v", h)
	}
	if h.PriceChange24h != s.PriceChange24h {
		t.Errorf("PriceChange24h = %v, want %v", h.PriceChange24h, s.PriceChange24h)
	}
	if !h.Timestamp.Equal(s.ObservedAt) {
		t.Errorf("Timestamp = %v, want %v", h.Timestamp, s.ObservedAt)
	}
}
