// Package analysis implements the detection engine: admission filtering,
// blacklist bookkeeping, adaptive thresholds, and per-snapshot
// classification into rug, pump, dip, or normal.
package analysis

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"dexwatch/internal/domain"
	"dexwatch/internal/observability"
	"dexwatch/internal/oracle"
	"dexwatch/internal/storage"
)

// DefaultThresholdWindow is the volatility lookback for adaptive
// thresholds.
const DefaultThresholdWindow = 6 * time.Hour

// Options configures an Engine. The oracle clients and stores are
// required; zero-value fields with a documented default take it.
type Options struct {
	Reputation oracle.ReputationClient
	Volume     oracle.VolumeClient

	Pairs   storage.PairStore
	History storage.HistoryStore
	Events  storage.EventStore
	Trades  storage.TradeStore

	Filters    FilterConfig // zero value takes DefaultFilterConfig
	Thresholds Thresholds   // zero value takes DefaultThresholds
	Blacklist  *Blacklist   // nil starts empty
	Sizer      *RiskSizer   // nil takes the default sizing

	RiskFreeRate    float64       // confidence baseline, default 0
	ThresholdWindow time.Duration // volatility lookback, default 6h
	Logger          *log.Logger   // default log.Default()
}

// Engine owns the mutable analysis state (blacklist, adaptive tracker,
// seen-pair cache) and wires the gate pipeline to the stores. One
// goroutine drives it; it is not safe for concurrent use.
type Engine struct {
	reputation oracle.ReputationClient
	volume     oracle.VolumeClient

	pairs   storage.PairStore
	history storage.HistoryStore
	events  storage.EventStore
	trades  storage.TradeStore

	filters    FilterConfig
	thresholds Thresholds
	blacklist  *Blacklist
	tracker    *AdaptiveTracker
	sizer      *RiskSizer

	riskFreeRate    float64
	thresholdWindow time.Duration

	knownPairs    map[string]struct{}
	storageErrors int64
	logger        *log.Logger
}

// NewEngine creates an engine from options, filling in defaults.
func NewEngine(opts Options) *Engine {
	if opts.Filters == (FilterConfig{}) {
		opts.Filters = DefaultFilterConfig()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Blacklist == nil {
		opts.Blacklist = NewBlacklist(nil, nil)
	}
	if opts.Sizer == nil {
		opts.Sizer = NewRiskSizer(0, 0)
	}
	if opts.ThresholdWindow <= 0 {
		opts.ThresholdWindow = DefaultThresholdWindow
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Engine{
		reputation:      opts.Reputation,
		volume:          opts.Volume,
		pairs:           opts.Pairs,
		history:         opts.History,
		events:          opts.Events,
		trades:          opts.Trades,
		filters:         opts.Filters,
		thresholds:      opts.Thresholds,
		blacklist:       opts.Blacklist,
		tracker:         NewAdaptiveTracker(),
		sizer:           opts.Sizer,
		riskFreeRate:    opts.RiskFreeRate,
		thresholdWindow: opts.ThresholdWindow,
		knownPairs:      make(map[string]struct{}),
		logger:          opts.Logger,
	}
}

// RefreshThresholds recomputes the adaptive adjustment from the recent
// cross-pair price-change window. Called once per cycle, before pair
// processing. Non-finite samples are dropped; a store failure keeps the
// prior state.
func (e *Engine) RefreshThresholds(ctx context.Context) {
	since := time.Now().UTC().Add(-e.thresholdWindow)
	samples, err := e.history.RecentPriceChanges(ctx, since)
	if err != nil {
		e.storageError("history", err)
		return
	}

	finite := make([]float64, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			continue
		}
		finite = append(finite, s)
	}

	e.tracker.Update(finite)
	observability.SetThresholdState(e.tracker.Volatility(), e.tracker.Adjustment())
}

// Adjustment returns the current threshold multiplier.
func (e *Engine) Adjustment() float64 {
	return e.tracker.Adjustment()
}

// Blacklists returns the current deny sets sorted, for persistence.
func (e *Engine) Blacklists() (coins, devs []string) {
	return e.blacklist.Coins(), e.blacklist.Devs()
}

// StorageErrors returns how many store operations have failed so far.
func (e *Engine) StorageErrors() int64 {
	return e.storageErrors
}

// ensurePair records a pair's first sighting. The in-memory cache keeps
// repeat observations off the store; a lost insert race counts as already
// known.
func (e *Engine) ensurePair(ctx context.Context, snap *domain.PairSnapshot) (bool, error) {
	if _, ok := e.knownPairs[snap.PairAddress]; ok {
		return false, nil
	}

	exists, err := e.pairs.Exists(ctx, snap.PairAddress)
	if err != nil {
		return false, err
	}
	if exists {
		e.knownPairs[snap.PairAddress] = struct{}{}
		return false, nil
	}

	err = e.pairs.Insert(ctx, domain.PairFromSnapshot(snap))
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		e.knownPairs[snap.PairAddress] = struct{}{}
		return false, nil
	case err != nil:
		return false, err
	}

	e.knownPairs[snap.PairAddress] = struct{}{}
	return true, nil
}

// confidence computes the Sharpe-like ratio over the pair's recent
// history. A store failure reports 0.
func (e *Engine) confidence(ctx context.Context, pairAddress string) float64 {
	records, err := e.history.Recent(ctx, pairAddress, confidenceWindow)
	if err != nil {
		e.logger.Printf("Error reading history for %s: %v", pairAddress, err)
		return 0
	}

	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.PriceUSD
	}
	return computeConfidence(computeReturns(prices), e.riskFreeRate)
}

// storageError records a store failure. Classification continues in
// memory; the caller drops the pair's remaining writes for the cycle.
func (e *Engine) storageError(store string, err error) {
	e.storageErrors++
	observability.RecordStorageError(store)
	e.logger.Printf("Storage error (%s): %v", store, err)
}
