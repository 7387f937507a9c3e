package analysis

import (
	"context"
	"fmt"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/oracle"
)

// Classification is the terminal outcome of analyzing one snapshot.
type Classification string

const (
	ClassUnrated     Classification = "unrated"     // reputation gate failed or errored
	ClassFakeVolume  Classification = "fake_volume" // volume oracle flagged the pair
	ClassBlacklisted Classification = "blacklisted" // symbol, address, or dev deny-listed
	ClassFiltered    Classification = "filtered"    // admission filter rejected the pair
	ClassRug         Classification = "rug"
	ClassPump        Classification = "pump"
	ClassDip         Classification = "dip"
	ClassNormal      Classification = "normal"
)

func (c Classification) String() string { return string(c) }

// dipSellAmount is the fixed sell size for dip signals.
const dipSellAmount = 0.5

// Result is the engine's verdict for one snapshot. Events and Signal are
// populated in memory even when their persistence failed; BlacklistAdditions
// lists the coin entries this pass added so the caller can write them back
// to the settings file.
type Result struct {
	PairAddress        string
	Classification     Classification
	Reason             string
	Confidence         float64 // Sharpe-like ratio, informational
	NewPair            bool    // first observation of this pair
	Events             []*domain.AnalysisEvent
	Signal             *domain.TradeSignal
	BlacklistAdditions []string
}

// Classify runs one snapshot through the gate pipeline: reputation,
// fake volume, blacklist, first-sighting bookkeeping, admission filter,
// history append, then threshold detection. Gates short-circuit in that
// order. The returned error is non-nil only for a snapshot that fails
// validation; oracle and storage failures degrade per gate policy and
// never abort the pass.
func (e *Engine) Classify(ctx context.Context, snap *domain.PairSnapshot) (*Result, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	res := &Result{PairAddress: snap.PairAddress}

	// Reputation gate. Anything but a good rating skips the pair, and an
	// unreachable oracle counts as not rated.
	good, err := e.reputation.IsGood(ctx, snap.PairAddress)
	switch {
	case err != nil:
		e.logger.Printf("Reputation check failed for %s: %v", snap.PairAddress, err)
		res.Classification = ClassUnrated
		res.Reason = "reputation check unavailable"
		return res, nil
	case !good:
		res.Classification = ClassUnrated
		res.Reason = "reputation rating not good"
		return res, nil
	}

	// Fake-volume gate. An unreachable oracle counts as clean.
	verdict, err := e.volume.CheckVolume(ctx, oracle.VolumeCheck{
		Chain:        snap.ChainID,
		PairAddress:  snap.PairAddress,
		Volume24h:    snap.Volume24h,
		LiquidityUSD: snap.LiquidityUSD,
	})
	if err != nil {
		e.logger.Printf("Volume check failed for %s: %v", snap.PairAddress, err)
	} else if verdict.IsFake {
		for _, entry := range []string{snap.PairAddress, snap.BaseSymbol} {
			if e.blacklist.AddCoin(entry) {
				res.BlacklistAdditions = append(res.BlacklistAdditions, entry)
			}
		}
		res.Classification = ClassFakeVolume
		res.Reason = verdict.Reason
		if res.Reason == "" {
			res.Reason = "fake volume"
		}
		return res, nil
	}

	// Blacklist gate.
	if hit, why := e.blacklistHit(snap); hit {
		res.Classification = ClassBlacklisted
		res.Reason = why
		return res, nil
	}

	// First sighting lands in the pair store before the admission filter:
	// a filtered pair is still a known pair. Remaining writes for the pair
	// are dropped once one fails.
	writesOK := true
	newPair, err := e.ensurePair(ctx, snap)
	if err != nil {
		e.storageError("pairs", err)
		writesOK = false
	}
	res.NewPair = newPair
	if newPair && snap.Age(snap.ObservedAt) < e.thresholds.NewPairWindow {
		ev := domain.NewPairEvent(snap.PairAddress, int(e.thresholds.NewPairWindow/time.Hour), snap.ObservedAt)
		res.Events = append(res.Events, ev)
		if writesOK {
			if err := e.events.Insert(ctx, ev); err != nil {
				e.storageError("events", err)
				writesOK = false
			}
		}
		e.logger.Printf("New pair detected: %s", snap.PairAddress)
	}

	// Admission filter. Rejected pairs get no history row.
	if !e.filters.Passes(snap.LiquidityUSD, snap.Volume24h, snap.PriceChange24h) {
		res.Classification = ClassFiltered
		res.Reason = "below admission thresholds"
		return res, nil
	}

	if writesOK {
		if err := e.history.Append(ctx, domain.HistoryFromSnapshot(snap)); err != nil {
			e.storageError("history", err)
			writesOK = false
		}
	}

	res.Confidence = e.confidence(ctx, snap.PairAddress)

	det := detect(snap, e.thresholds.Adjusted(e.tracker.Adjustment()))
	res.Classification = det.class
	res.Reason = det.reason

	switch det.class {
	case ClassRug:
		ev := domain.RugEvent(snap.PairAddress, snap.PriceChange24h, snap.LiquidityUSD, snap.ObservedAt)
		res.Events = append(res.Events, ev)
		if writesOK {
			if err := e.events.Insert(ctx, ev); err != nil {
				e.storageError("events", err)
				writesOK = false
			}
		}
		e.logger.Printf("Rug pull detected: %s", snap.PairAddress)
	case ClassPump:
		ev := domain.PumpEvent(snap.PairAddress, snap.PriceChange24h, snap.Volume24h, snap.ObservedAt)
		res.Events = append(res.Events, ev)
		if writesOK {
			if err := e.events.Insert(ctx, ev); err != nil {
				e.storageError("events", err)
				writesOK = false
			}
		}
		e.logger.Printf("Pump detected: %s", snap.PairAddress)
		if amount := e.sizer.Size(snap.LiquidityUSD); amount > 0 {
			res.Signal = tradeSignal(snap, domain.ActionBuy, amount, det.class)
		} else {
			e.logger.Printf("Pump on %s sized to zero, no signal", snap.PairAddress)
		}
	case ClassDip:
		res.Signal = tradeSignal(snap, domain.ActionSell, dipSellAmount, det.class)
	}

	if res.Signal != nil && writesOK {
		if err := e.trades.Insert(ctx, domain.TradeFromSignal(res.Signal)); err != nil {
			e.storageError("trades", err)
		}
	}

	return res, nil
}

// detection is what the threshold comparison produced for one snapshot.
type detection struct {
	class  Classification
	reason string
}

// detect compares a snapshot against the adjusted bounds. The three
// branches are mutually exclusive and use strict inequalities; the dip
// floor is not volatility-adjusted.
func detect(snap *domain.PairSnapshot, t Thresholds) detection {
	switch {
	case snap.PriceChange24h < t.Rug && snap.LiquidityUSD < t.RugLiquidityCeiling:
		return detection{
			class:  ClassRug,
			reason: fmt.Sprintf("24h change %.2f%% with liquidity %.2f USD", snap.PriceChange24h, snap.LiquidityUSD),
		}
	case snap.PriceChange24h > t.Pump && snap.Volume24h > t.PumpVolumeFloor:
		return detection{
			class:  ClassPump,
			reason: fmt.Sprintf("24h change %.2f%% with volume %.2f USD", snap.PriceChange24h, snap.Volume24h),
		}
	case snap.PriceChange24h < t.Dip:
		return detection{
			class:  ClassDip,
			reason: fmt.Sprintf("24h change %.2f%%", snap.PriceChange24h),
		}
	}
	return detection{class: ClassNormal}
}

func (e *Engine) blacklistHit(snap *domain.PairSnapshot) (bool, string) {
	for _, entry := range []string{snap.BaseSymbol, snap.QuoteSymbol, snap.PairAddress} {
		if e.blacklist.HasCoin(entry) {
			return true, fmt.Sprintf("blacklisted coin %s", entry)
		}
	}
	if e.blacklist.HasDev(snap.DevWallet) {
		return true, fmt.Sprintf("blacklisted dev %s", snap.DevWallet)
	}
	return false, ""
}

func tradeSignal(snap *domain.PairSnapshot, action domain.TradeAction, amount float64, class Classification) *domain.TradeSignal {
	return &domain.TradeSignal{
		PairAddress: snap.PairAddress,
		ChainID:     snap.ChainID,
		BaseSymbol:  snap.BaseSymbol,
		Action:      action,
		Amount:      amount,
		PriceUSD:    snap.PriceUSD,
		Reason:      string(class),
		IssuedAt:    snap.ObservedAt,
	}
}
