package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dexwatch/internal/domain"
)

// Storage backend names accepted in DATABASE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config carries process-level settings. Filter thresholds and blacklists
// live in the JSON settings file instead, so they can be rewritten at
// runtime without touching the environment.
type Config struct {
	// Chains to watch, in poll order.
	Chains []string

	// PollInterval is the sleep between full scan cycles.
	PollInterval time.Duration

	// PairsPerSecond throttles per-pair work inside a cycle.
	PairsPerSecond int

	// SettingsPath is the JSON file holding filters and blacklists.
	SettingsPath string

	// Screener endpoints.
	ScreenerBaseURL string
	ScreenerWSURL   string

	// Reputation and volume oracles.
	RugcheckBaseURL       string
	PocketUniverseBaseURL string
	PocketUniverseAPIKey  string
	OracleTimeout         time.Duration

	// Trade sink. An empty token disables Telegram and falls back to the
	// log notifier.
	TelegramToken  string
	TelegramChatID int64

	// Storage selection.
	Backend       string
	SQLitePath    string
	PostgresDSN   string
	ClickhouseDSN string // optional history offload; empty keeps history in Backend

	// MetricsAddr serves prometheus when non-empty.
	MetricsAddr string
}

// Load reads configuration from the environment, after loading .env when
// present. Missing optional values fall back to defaults matching a local
// single-node run.
func Load() (*Config, error) {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Chains:                splitList(getEnv("CHAINS", strings.Join(domain.DefaultChains(), ","))),
		SettingsPath:          getEnv("SETTINGS_PATH", "config.json"),
		ScreenerBaseURL:       getEnv("DEXSCREENER_URL", "https://api.dexscreener.com"),
		ScreenerWSURL:         getEnv("DEXSCREENER_WS_URL", ""),
		RugcheckBaseURL:       getEnv("RUGCHECK_URL", "https://rugcheck.xyz"),
		PocketUniverseBaseURL: getEnv("POCKET_UNIVERSE_URL", "https://api.pocketuniverse.app"),
		PocketUniverseAPIKey:  getEnv("POCKET_UNIVERSE_API_KEY", ""),
		TelegramToken:         getEnv("TELEGRAM_BOT_TOKEN", ""),
		Backend:               getEnv("DATABASE_BACKEND", BackendSQLite),
		SQLitePath:            getEnv("DATABASE_PATH", "dexwatch.db"),
		PostgresDSN:           getEnv("POSTGRES_DSN", ""),
		ClickhouseDSN:         getEnv("CLICKHOUSE_DSN", ""),
		MetricsAddr:           getEnv("METRICS_ADDR", ""),
	}

	var err error
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.OracleTimeout, err = getEnvDuration("ORACLE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.PairsPerSecond, err = getEnvInt("PAIRS_PER_SECOND", 5); err != nil {
		return nil, err
	}
	if cfg.TelegramChatID, err = getEnvInt64("TELEGRAM_CHAT_ID", 0); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Chains) == 0 {
		return fmt.Errorf("config: CHAINS must name at least one chain")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: POLL_INTERVAL must be positive")
	}
	if c.PairsPerSecond <= 0 {
		return fmt.Errorf("config: PAIRS_PER_SECOND must be positive")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config: DATABASE_PATH required for sqlite backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("config: POSTGRES_DSN required for postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown DATABASE_BACKEND %q", c.Backend)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("config: TELEGRAM_CHAT_ID required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
