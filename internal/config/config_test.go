package config

import (
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host environments cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHAINS", "POLL_INTERVAL", "PAIRS_PER_SECOND", "SETTINGS_PATH",
		"DEXSCREENER_URL", "DEXSCREENER_WS_URL", "RUGCHECK_URL",
		"POCKET_UNIVERSE_URL", "POCKET_UNIVERSE_API_KEY", "ORACLE_TIMEOUT",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_BACKEND",
		"DATABASE_PATH", "POSTGRES_DSN", "CLICKHOUSE_DSN", "METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Chains) != 3 || cfg.Chains[0] != "ethereum" || cfg.Chains[1] != "bsc" || cfg.Chains[2] != "polygon" {
		t.Errorf("Chains = %v, want default [ethereum bsc polygon]", cfg.Chains)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", cfg.PollInterval)
	}
	if cfg.PairsPerSecond != 5 {
		t.Errorf("PairsPerSecond = %d, want 5", cfg.PairsPerSecond)
	}
	if cfg.OracleTimeout != 5*time.Second {
		t.Errorf("OracleTimeout = %v, want 5s", cfg.OracleTimeout)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.SQLitePath != "dexwatch.db" {
		t.Errorf("SQLitePath = %q, want dexwatch.db", cfg.SQLitePath)
	}
	if cfg.ScreenerBaseURL != "https://api.dexscreener.com" {
		t.Errorf("ScreenerBaseURL = %q", cfg.ScreenerBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAINS", "solana, base")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("PAIRS_PER_SECOND", "10")
	t.Setenv("DATABASE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/dexwatch")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Chains) != 2 || cfg.Chains[0] != "solana" || cfg.Chains[1] != "base" {
		t.Errorf("Chains = %v, want [solana base]", cfg.Chains)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.PairsPerSecond != 10 {
		t.Errorf("PairsPerSecond = %d, want 10", cfg.PairsPerSecond)
	}
	if cfg.Backend != BackendPostgres {
		t.Errorf("Backend = %q, want postgres", cfg.Backend)
	}
	if cfg.TelegramChatID != -100200300 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad poll interval", "POLL_INTERVAL", "soon"},
		{"bad rate", "PAIRS_PER_SECOND", "fast"},
		{"negative rate", "PAIRS_PER_SECOND", "-1"},
		{"unknown backend", "DATABASE_BACKEND", "etcd"},
		{"bad chat id", "TELEGRAM_CHAT_ID", "not-a-number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoadRequiresChatIDWithToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted a telegram token without a chat id")
	}
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted postgres backend without POSTGRES_DSN")
	}
}
