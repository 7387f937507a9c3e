package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dexwatch/internal/domain"
	"dexwatch/internal/storage"
)

func TestEventStore_InsertAndGetByPair(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []*domain.AnalysisEvent{
		domain.NewPairEvent("0xaaa", 24, base),
		domain.RugEvent("0xaaa", -80.5, 400, base.Add(2*time.Hour)),
		domain.PumpEvent("0xbbb", 160, 300000, base.Add(1*time.Hour)),
	}
	for _, e := range events {
		require.NoError(t, store.Insert(ctx, e))
	}

	result, err := store.GetByPair(ctx, "0xaaa")
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, domain.EventNew, result[0].Type)
	assert.Equal(t, domain.EventRug, result[1].Type)
	assert.JSONEq(t, `{"age_hours":24}`, result[0].Details)
	assert.JSONEq(t, `{"price_change_24h":-80.5,"liquidity_usd":400}`, result[1].Details)
}

func TestEventStore_GetByType(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, domain.PumpEvent("0xaaa", 120, 200000, base)))
	require.NoError(t, store.Insert(ctx, domain.RugEvent("0xbbb", -70, 900, base.Add(time.Hour))))
	require.NoError(t, store.Insert(ctx, domain.PumpEvent("0xccc", 300, 500000, base.Add(2*time.Hour))))

	pumps, err := store.GetByType(ctx, domain.EventPump)
	require.NoError(t, err)

	require.Len(t, pumps, 2)
	assert.Equal(t, "0xaaa", pumps[0].PairAddress)
	assert.Equal(t, "0xccc", pumps[1].PairAddress)

	rugs, err := store.GetByType(ctx, domain.EventRug)
	require.NoError(t, err)
	require.Len(t, rugs, 1)
	assert.Equal(t, "0xbbb", rugs[0].PairAddress)
}

func TestEventStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewEventStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Insert(ctx, &domain.AnalysisEvent{PairAddress: "0xaaa", Type: "dump", DetectedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestTradeStore_InsertAndGetByPair(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	trades := []*domain.TradeRecord{
		{PairAddress: "0xaaa", Action: domain.ActionBuy, Amount: 100, PriceUSD: 0.5, ExecutedAt: base},
		{PairAddress: "0xaaa", Action: domain.ActionSell, Amount: 50, PriceUSD: 0.8, ExecutedAt: base.Add(time.Hour)},
		{PairAddress: "0xbbb", Action: domain.ActionBuy, Amount: 10, PriceUSD: 4, ExecutedAt: base.Add(2 * time.Hour)},
	}
	for _, tr := range trades {
		require.NoError(t, store.Insert(ctx, tr))
	}

	result, err := store.GetByPair(ctx, "0xaaa")
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, domain.ActionBuy, result[0].Action)
	assert.Equal(t, domain.ActionSell, result[1].Action)
	assert.Equal(t, 0.0, result[0].Fee)
}

func TestTradeStore_Recent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		tr := &domain.TradeRecord{
			PairAddress: "0xaaa",
			Action:      domain.ActionBuy,
			Amount:      float64(i + 1),
			PriceUSD:    1,
			ExecutedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Insert(ctx, tr))
	}

	result, err := store.Recent(ctx, 3)
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, float64(3), result[0].Amount)
	assert.Equal(t, float64(5), result[2].Amount)
}

func TestTradeStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, &domain.TradeRecord{PairAddress: "0xaaa", Action: "hold", Amount: 1, ExecutedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.Recent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
