package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

func TestEventStore_InsertAndGetByPair(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []*domain.AnalysisEvent{
		domain.RugEvent("0xAAA", -80, 500, base.Add(2*time.Hour)),
		domain.NewPairEvent("0xAAA", 24, base),
		domain.PumpEvent("0xBBB", 150, 250000, base.Add(1*time.Hour)),
	}
	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByPair(ctx, "0xAAA")
	if err != nil {
		t.Fatalf("GetByPair failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 events for 0xAAA, got %d", len(result))
	}
	if result[0].Type != domain.EventNew || result[1].Type != domain.EventRug {
		t.Errorf("Wrong order: got %s, %s", result[0].Type, result[1].Type)
	}
}

func TestEventStore_GetByType(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []*domain.AnalysisEvent{
		domain.NewPairEvent("0xAAA", 24, base),
		domain.RugEvent("0xBBB", -90, 100, base.Add(1*time.Hour)),
		domain.RugEvent("0xCCC", -60, 800, base.Add(2*time.Hour)),
	}
	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rugs, err := store.GetByType(ctx, domain.EventRug)
	if err != nil {
		t.Fatalf("GetByType failed: %v", err)
	}
	if len(rugs) != 2 {
		t.Fatalf("Expected 2 rug events, got %d", len(rugs))
	}
	if rugs[0].PairAddress != "0xBBB" || rugs[1].PairAddress != "0xCCC" {
		t.Errorf("Wrong order: got %s, %s", rugs[0].PairAddress, rugs[1].PairAddress)
	}
}

func TestEventStore_InvalidInput(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	bad := &domain.AnalysisEvent{PairAddress: "0xAAA", Type: "dump", DetectedAt: time.Now()}
	if err := store.Insert(ctx, bad); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestTradeStore_InsertAndGetByPair(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	trades := []*domain.TradeRecord{
		{PairAddress: "0xAAA", Action: domain.ActionSell, Amount: 50, PriceUSD: 2, ExecutedAt: base.Add(time.Hour)},
		{PairAddress: "0xAAA", Action: domain.ActionBuy, Amount: 100, PriceUSD: 1, ExecutedAt: base},
		{PairAddress: "0xBBB", Action: domain.ActionBuy, Amount: 10, PriceUSD: 5, ExecutedAt: base.Add(2 * time.Hour)},
	}
	for _, tr := range trades {
		if err := store.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByPair(ctx, "0xAAA")
	if err != nil {
		t.Fatalf("GetByPair failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(result))
	}
	if result[0].Action != domain.ActionBuy || result[1].Action != domain.ActionSell {
		t.Errorf("Wrong order: got %s, %s", result[0].Action, result[1].Action)
	}
}

func TestTradeStore_Recent(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tr := &domain.TradeRecord{
			PairAddress: "0xAAA",
			Action:      domain.ActionBuy,
			Amount:      float64(i + 1),
			PriceUSD:    1,
			ExecutedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Insert(ctx, tr); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(result))
	}
	if result[0].Amount != 4 || result[1].Amount != 5 {
		t.Errorf("Expected the two latest trades, got amounts %v, %v", result[0].Amount, result[1].Amount)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	bad := &domain.TradeRecord{PairAddress: "0xAAA", Action: "hold", Amount: 1}
	if err := store.Insert(ctx, bad); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown action, got %v", err)
	}
}
