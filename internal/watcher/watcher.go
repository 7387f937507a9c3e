// Package watcher drives the scan loop. Each cycle refreshes the
// adaptive thresholds, pulls the latest snapshots for every watched
// chain, classifies them, hands signals to the dispatcher, and writes
// blacklist growth back to the settings file.
package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/ratelimit"

	"dexwatch/internal/analysis"
	"dexwatch/internal/domain"
	"dexwatch/internal/observability"
	"dexwatch/internal/screener"
)

const (
	// DefaultInterval is the sleep between scan cycles.
	DefaultInterval = 5 * time.Minute
	// DefaultRateLimit is the per-second ceiling on snapshot processing.
	DefaultRateLimit = 5
)

// SignalQueue accepts outbound deliveries without blocking.
type SignalQueue interface {
	EnqueueSignal(sig *domain.TradeSignal) bool
	EnqueueMessage(message string) bool
}

// BlacklistWriter persists the updated deny lists.
type BlacklistWriter interface {
	SaveBlacklists(coins, devs []string) error
}

// Options contains configuration for creating a Watcher. Source and
// Engine are required; a nil Queue or Settings disables that output.
type Options struct {
	Source   screener.Source
	Engine   *analysis.Engine
	Queue    SignalQueue
	Settings BlacklistWriter

	Chains    []string      // default domain.DefaultChains()
	Interval  time.Duration // default DefaultInterval
	RateLimit int           // snapshots per second, default DefaultRateLimit
	Logger    *log.Logger
}

// Watcher owns the scan loop. One goroutine drives it.
type Watcher struct {
	source   screener.Source
	engine   *analysis.Engine
	queue    SignalQueue
	settings BlacklistWriter

	chains   []string
	interval time.Duration
	limiter  ratelimit.Limiter
	logger   *log.Logger
}

// NewWatcher creates a watcher from options, filling in defaults.
func NewWatcher(opts Options) *Watcher {
	chains := opts.Chains
	if len(chains) == 0 {
		chains = domain.DefaultChains()
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	rate := opts.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		source:   opts.Source,
		engine:   opts.Engine,
		queue:    opts.Queue,
		settings: opts.Settings,
		chains:   chains,
		interval: interval,
		limiter:  ratelimit.New(rate),
		logger:   logger,
	}
}

// Run scans until ctx is cancelled. Cancellation is observed between
// pairs and during the inter-cycle sleep, never mid-write.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Printf("Watcher started: chains=%v interval=%v", w.chains, w.interval)

	for {
		w.RunCycle(ctx)
		if ctx.Err() != nil {
			w.logger.Println("Watcher stopping...")
			return ctx.Err()
		}
		w.logger.Printf("Completed scan of %v. Sleeping for %v.", w.chains, w.interval)

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Println("Watcher stopping...")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle performs one scan pass: a threshold refresh, then every
// watched chain in order. Run loops it; the scan command calls it once.
func (w *Watcher) RunCycle(ctx context.Context) {
	w.engine.RefreshThresholds(ctx)

	for _, chain := range w.chains {
		if ctx.Err() != nil {
			return
		}
		w.scanChain(ctx, chain)
	}
	observability.SetLastSuccessfulCycle(time.Now().Unix())
}

func (w *Watcher) scanChain(ctx context.Context, chainID string) {
	start := time.Now()

	snaps, err := w.source.FetchPairs(ctx, chainID)
	if err != nil {
		w.logger.Printf("Error fetching %s pairs: %v", chainID, err)
		observability.RecordCycle(chainID, "error", time.Since(start).Seconds())
		return
	}
	observability.RecordPairsFetched(chainID, len(snaps))

	for i := range snaps {
		if ctx.Err() != nil {
			return
		}
		w.limiter.Take()
		w.processSnapshot(ctx, &snaps[i])
	}
	observability.RecordCycle(chainID, "ok", time.Since(start).Seconds())
}

func (w *Watcher) processSnapshot(ctx context.Context, snap *domain.PairSnapshot) {
	res, err := w.engine.Classify(ctx, snap)
	if err != nil {
		w.logger.Printf("Skipping %s snapshot %s: %v", snap.ChainID, snap.PairAddress, err)
		observability.RecordSnapshotSkipped(snap.ChainID)
		return
	}

	observability.RecordClassification(res.Classification.String())
	for _, ev := range res.Events {
		observability.RecordEventDetected(string(ev.Type))
		if ev.Type == domain.EventRug && w.queue != nil {
			w.queue.EnqueueMessage(fmt.Sprintf("Rug pull detected: %s", ev.PairAddress))
		}
	}

	if len(res.BlacklistAdditions) > 0 {
		w.persistBlacklists()
	}

	if res.Signal != nil {
		observability.RecordSignalEmitted(string(res.Signal.Action))
		if w.queue != nil && !w.queue.EnqueueSignal(res.Signal) {
			w.logger.Printf("Signal for %s dropped by dispatcher", res.Signal.PairAddress)
		}
	}
}

// persistBlacklists writes the engine's deny lists through the settings
// store. Called only when a pass added entries.
func (w *Watcher) persistBlacklists() {
	coins, devs := w.engine.Blacklists()
	observability.SetBlacklistSize(len(coins) + len(devs))

	if w.settings == nil {
		return
	}
	if err := w.settings.SaveBlacklists(coins, devs); err != nil {
		w.logger.Printf("Error writing blacklists: %v", err)
		return
	}
	w.logger.Printf("Blacklists updated: %d coins, %d devs", len(coins), len(devs))
}
