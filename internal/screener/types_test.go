package screener

import (
	"math"
	"testing"
	"time"

	"dexwatch/internal/domain"
)

const (
	testPairAddr = "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"
	testDevAddr  = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
)

func wirePair() Pair {
	return Pair{
		PairAddress:   testPairAddr,
		ChainID:       "ethereum",
		DexID:         "uniswap",
		BaseToken:     Token{Symbol: "UNI", Name: "Uniswap"},
		QuoteToken:    Token{Symbol: "WETH", Name: "Wrapped Ether"},
		PriceUSD:      "7.25",
		Volume:        Window{H24: 125000.5},
		Liquidity:     Liquidity{USD: 4500.75},
		PriceChange:   Window{H24: -12.5},
		PairCreatedAt: 1700000000000,
		PairCreatedBy: testDevAddr,
	}
}

func TestPairSnapshot_Mapping(t *testing.T) {
	observedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	snap, err := wirePair().Snapshot(observedAt)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if snap.PairAddress != testPairAddr {
		t.Errorf("PairAddress = %s", snap.PairAddress)
	}
	if snap.ChainID != "ethereum" {
		t.Errorf("ChainID = %s", snap.ChainID)
	}
	if snap.BaseSymbol != "UNI" || snap.QuoteSymbol != "WETH" {
		t.Errorf("symbols = %s/%s", snap.BaseSymbol, snap.QuoteSymbol)
	}
	if snap.PriceUSD != 7.25 {
		t.Errorf("PriceUSD = %v, want 7.25", snap.PriceUSD)
	}
	if snap.Volume24h != 125000.5 {
		t.Errorf("Volume24h = %v", snap.Volume24h)
	}
	if snap.LiquidityUSD != 4500.75 {
		t.Errorf("LiquidityUSD = %v", snap.LiquidityUSD)
	}
	if snap.PriceChange24h != -12.5 {
		t.Errorf("PriceChange24h = %v", snap.PriceChange24h)
	}
	if snap.CreatedAt != 1700000000 {
		t.Errorf("CreatedAt = %d, want seconds not milliseconds", snap.CreatedAt)
	}
	if snap.DevWallet != testDevAddr {
		t.Errorf("DevWallet = %s", snap.DevWallet)
	}
	if !snap.ObservedAt.Equal(observedAt) {
		t.Errorf("ObservedAt = %v", snap.ObservedAt)
	}
}

func TestPairSnapshot_EmptyPriceUSD(t *testing.T) {
	p := wirePair()
	p.PriceUSD = ""

	snap, err := p.Snapshot(time.Now().UTC())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.PriceUSD != 0 {
		t.Errorf("PriceUSD = %v, want 0 for absent value", snap.PriceUSD)
	}
}

func TestPairSnapshot_BadPriceUSD(t *testing.T) {
	p := wirePair()
	p.PriceUSD = "not-a-number"

	if _, err := p.Snapshot(time.Now().UTC()); err == nil {
		t.Fatal("expected error for unparseable priceUsd")
	}
}

func TestPairSnapshot_MissingCreatorWallet(t *testing.T) {
	p := wirePair()
	p.PairCreatedBy = ""

	snap, err := p.Snapshot(time.Now().UTC())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.DevWallet != domain.DevWalletUnknown {
		t.Errorf("DevWallet = %s, want %s", snap.DevWallet, domain.DevWalletUnknown)
	}
}

func TestPairSnapshot_GarbageCreatorWallet(t *testing.T) {
	p := wirePair()
	p.PairCreatedBy = "definitely-not-an-address"

	snap, err := p.Snapshot(time.Now().UTC())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.DevWallet != domain.DevWalletUnknown {
		t.Errorf("DevWallet = %s, want %s", snap.DevWallet, domain.DevWalletUnknown)
	}
}

func TestSnapshots_SkipsInvalid(t *testing.T) {
	missingAddr := wirePair()
	missingAddr.PairAddress = ""

	nanVolume := wirePair()
	nanVolume.Volume.H24 = math.NaN()

	badPrice := wirePair()
	badPrice.PriceUSD = "garbage"

	out := snapshots([]Pair{missingAddr, wirePair(), nanVolume, badPrice}, time.Now().UTC())

	if len(out) != 1 {
		t.Fatalf("expected 1 valid snapshot, got %d", len(out))
	}
	if out[0].PairAddress != testPairAddr {
		t.Errorf("PairAddress = %s", out[0].PairAddress)
	}
}
