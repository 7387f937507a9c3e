package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"dexwatch/internal/analysis"
	"dexwatch/internal/config"
	"dexwatch/internal/domain"
	"dexwatch/internal/oracle"
	"dexwatch/internal/screener"
	"dexwatch/internal/storage/memory"
)

func main() {
	// Parse flags
	chain := flag.String("chain", "ethereum", "Chain to scan")
	pair := flag.String("pair", "", "Single pair address to scan (empty scans the whole chain)")
	screenerURL := flag.String("screener-url", "https://api.dexscreener.com", "DexScreener-compatible API base URL")
	rugcheckURL := flag.String("rugcheck-url", "", "Reputation oracle base URL (empty skips the check)")
	pocketURL := flag.String("pocket-universe-url", "", "Fake-volume oracle base URL (empty skips the check)")
	pocketKey := flag.String("pocket-universe-key", "", "Fake-volume oracle API key")
	settingsPath := flag.String("settings", "config.json", "Settings file with filters and blacklists")
	timeout := flag.Duration("timeout", 10*time.Second, "Oracle and screener request timeout")
	flag.Parse()

	logger := log.New(os.Stderr, "[scan] ", log.LstdFlags)

	ctx := context.Background()

	settings := loadSettings(logger, *settingsPath)

	// One-shot scans run against memory stores; nothing is persisted.
	engine := analysis.NewEngine(analysis.Options{
		Reputation: reputationClient(*rugcheckURL, *timeout),
		Volume:     volumeClient(*pocketURL, *pocketKey, *timeout),
		Pairs:      memory.NewPairStore(),
		History:    memory.NewHistoryStore(),
		Events:     memory.NewEventStore(),
		Trades:     memory.NewTradeStore(),
		Filters: analysis.FilterConfig{
			MinLiquidityUSD:   settings.Filters.MinLiquidityUSD,
			MinVolume24h:      settings.Filters.MinVolume24h,
			MinPriceChange24h: settings.Filters.MinPriceChange24h,
		},
		Blacklist: analysis.NewBlacklist(settings.BlacklistedCoins, settings.BlacklistedDevs),
		Logger:    logger,
	})

	client := screener.NewHTTPClient(*screenerURL, screener.WithTimeout(*timeout))

	var snaps []domain.PairSnapshot
	if *pair != "" {
		snap, err := client.FetchPair(ctx, *chain, *pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching pair %s/%s: %v\n", *chain, *pair, err)
			os.Exit(1)
		}
		snaps = []domain.PairSnapshot{snap}
	} else {
		var err error
		snaps, err = client.FetchPairs(ctx, *chain)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching pairs for %s: %v\n", *chain, err)
			os.Exit(1)
		}
	}

	if len(snaps) == 0 {
		fmt.Printf("No pairs returned for %s\n", *chain)
		return
	}

	fmt.Printf("Scanning %d pair(s) on %s\n\n", len(snaps), *chain)

	for i := range snaps {
		result, err := engine.Classify(ctx, &snaps[i])
		if err != nil {
			logger.Printf("Skipping %s: %v", snaps[i].PairAddress, err)
			continue
		}
		printResult(&snaps[i], result)
	}

	coins, devs := engine.Blacklists()
	fmt.Printf("\nBlacklist after scan: %d coins, %d devs\n", len(coins), len(devs))
}

// loadSettings reads the settings file, falling back to defaults when it
// is missing or malformed.
func loadSettings(logger *log.Logger, path string) config.Settings {
	store := config.NewSettingsStore(path)
	settings, err := store.Load()
	if err != nil {
		logger.Printf("Settings file unavailable, using defaults: %v", err)
	}
	return settings
}

// reputationClient returns the reputation oracle, or an allow-all stand-in
// when no URL is configured.
func reputationClient(baseURL string, timeout time.Duration) oracle.ReputationClient {
	if baseURL == "" {
		return allowAllReputation{}
	}
	return oracle.NewRugcheckClient(baseURL, oracle.WithTimeout(timeout))
}

// volumeClient returns the fake-volume oracle, or a trust-all stand-in
// when no URL is configured.
func volumeClient(baseURL, apiKey string, timeout time.Duration) oracle.VolumeClient {
	if baseURL == "" {
		return trustAllVolume{}
	}
	return oracle.NewPocketUniverseClient(baseURL, apiKey, oracle.WithTimeout(timeout))
}

type allowAllReputation struct{}

func (allowAllReputation) IsGood(context.Context, string) (bool, error) { return true, nil }

type trustAllVolume struct{}

func (trustAllVolume) CheckVolume(context.Context, oracle.VolumeCheck) (oracle.VolumeVerdict, error) {
	return oracle.VolumeVerdict{}, nil
}

// printResult writes one pair's verdict to stdout.
func printResult(snap *domain.PairSnapshot, result *analysis.Result) {
	fmt.Printf("%-12s %s %s/%s\n", result.Classification, snap.PairAddress, snap.BaseSymbol, snap.QuoteSymbol)
	fmt.Printf("             price $%.6f  change %+.2f%%  volume $%.0f  liquidity $%.0f\n",
		snap.PriceUSD, snap.PriceChange24h, snap.Volume24h, snap.LiquidityUSD)

	if result.Reason != "" {
		fmt.Printf("             reason: %s\n", result.Reason)
	}
	if result.NewPair {
		fmt.Printf("             first sighting (age %.1fh)\n", snap.Age(snap.ObservedAt).Hours())
	}
	for _, ev := range result.Events {
		fmt.Printf("             event: %s %s\n", ev.Type, ev.Details)
	}
	if result.Signal != nil {
		fmt.Printf("             signal: %s %g units (confidence %.4f)\n",
			result.Signal.Action, result.Signal.Amount, result.Confidence)
	}
}
