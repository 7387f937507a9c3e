package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dexwatch/internal/analysis"
	"dexwatch/internal/config"
	"dexwatch/internal/dispatch"
	"dexwatch/internal/notify"
	"dexwatch/internal/observability"
	"dexwatch/internal/oracle"
	"dexwatch/internal/screener"
	"dexwatch/internal/storage"
	chstore "dexwatch/internal/storage/clickhouse"
	"dexwatch/internal/storage/memory"
	"dexwatch/internal/storage/migrations"
	pgstore "dexwatch/internal/storage/postgres"
	sqlitestore "dexwatch/internal/storage/sqlite"
	"dexwatch/internal/watcher"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "[dexwatch] ", log.LstdFlags|log.Lshortfile)

	// All daemon configuration comes from the environment (and .env when
	// present); the settings file carries filters and blacklists.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Load configuration: %v", err)
	}

	// Start metrics server if enabled
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal main goroutine completion
	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, cfg)

	// Signal completion to shutdown handler
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires stores, oracles, sinks, and the watcher, then blocks until
// the context is cancelled or the watcher fails.
func run(ctx context.Context, logger *log.Logger, cfg *config.Config) error {
	settings := config.NewSettingsStore(cfg.SettingsPath)
	loaded, err := settings.Load()
	if err != nil {
		logger.Printf("Settings file unavailable, continuing with defaults: %v", err)
	}

	// Create stores (use interfaces)
	var (
		pairStore    storage.PairStore    = memory.NewPairStore()
		historyStore storage.HistoryStore = memory.NewHistoryStore()
		eventStore   storage.EventStore   = memory.NewEventStore()
		tradeStore   storage.TradeStore   = memory.NewTradeStore()
	)

	switch cfg.Backend {
	case config.BackendMemory:
		logger.Println("Using in-memory storage; nothing survives a restart")

	case config.BackendSQLite:
		db, err := sqlitestore.NewDB(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()

		pairStore = sqlitestore.NewPairStore(db)
		historyStore = sqlitestore.NewHistoryStore(db)
		eventStore = sqlitestore.NewEventStore(db)
		tradeStore = sqlitestore.NewTradeStore(db)
		logger.Printf("Using SQLite storage at %s", cfg.SQLitePath)

	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("apply postgres migrations: %w", err)
		}

		pairStore = pgstore.NewPairStore(pool)
		historyStore = pgstore.NewHistoryStore(pool)
		eventStore = pgstore.NewEventStore(pool)
		tradeStore = pgstore.NewTradeStore(pool)
		logger.Println("Using PostgreSQL storage")
	}

	// Optional ClickHouse offload for the price history timeseries. The
	// remaining stores stay on the primary backend.
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return fmt.Errorf("apply clickhouse migrations: %w", err)
		}
		defer conn.Close()

		historyStore = chstore.NewHistoryStore(conn)
		logger.Println("Price history offloaded to ClickHouse")
	}

	// Create oracle clients
	reputation := oracle.NewRugcheckClient(cfg.RugcheckBaseURL,
		oracle.WithTimeout(cfg.OracleTimeout))
	volume := oracle.NewPocketUniverseClient(cfg.PocketUniverseBaseURL, cfg.PocketUniverseAPIKey,
		oracle.WithTimeout(cfg.OracleTimeout))

	// Market data source: REST polling by default, websocket stream when
	// an endpoint is configured.
	var source screener.Source = screener.NewHTTPClient(cfg.ScreenerBaseURL)
	if cfg.ScreenerWSURL != "" {
		stream, err := screener.NewStreamSource(ctx, cfg.ScreenerWSURL, cfg.Chains, nil)
		if err != nil {
			return fmt.Errorf("connect snapshot stream: %w", err)
		}
		defer stream.Close()

		source = stream
		logger.Printf("Streaming snapshots from %s", cfg.ScreenerWSURL)
	}

	engine := analysis.NewEngine(analysis.Options{
		Reputation: reputation,
		Volume:     volume,
		Pairs:      pairStore,
		History:    historyStore,
		Events:     eventStore,
		Trades:     tradeStore,
		Filters: analysis.FilterConfig{
			MinLiquidityUSD:   loaded.Filters.MinLiquidityUSD,
			MinVolume24h:      loaded.Filters.MinVolume24h,
			MinPriceChange24h: loaded.Filters.MinPriceChange24h,
		},
		Blacklist: analysis.NewBlacklist(loaded.BlacklistedCoins, loaded.BlacklistedDevs),
		Logger:    logger,
	})

	// Sinks: Telegram when a token is configured, log-only otherwise.
	var (
		notifier notify.Notifier
		trader   notify.Trader
	)
	if cfg.TelegramToken != "" {
		sink, err := notify.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID,
			notify.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("create telegram sink: %w", err)
		}
		notifier, trader = sink, sink
		logger.Println("Delivering signals to Telegram")
	} else {
		sink := notify.NewLogSink(logger)
		notifier, trader = sink, sink
		logger.Println("No Telegram token configured, signals are logged only")
	}

	dispatcher := dispatch.NewDispatcher(dispatch.Options{
		Trader:   trader,
		Notifier: notifier,
		Logger:   logger,
	})

	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("Dispatcher stopped: %v", err)
		}
	}()

	w := watcher.NewWatcher(watcher.Options{
		Source:    source,
		Engine:    engine,
		Queue:     dispatcher,
		Settings:  settings,
		Chains:    cfg.Chains,
		Interval:  cfg.PollInterval,
		RateLimit: cfg.PairsPerSecond,
		Logger:    logger,
	})

	logger.Printf("Watching chains %v every %v", cfg.Chains, cfg.PollInterval)
	err = w.Run(ctx)

	// Let the dispatcher flush accepted deliveries before returning.
	<-dispatchDone
	return err
}
