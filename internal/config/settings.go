package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Filters are the admission thresholds applied to every snapshot. A pair
// must clear all three to reach detection.
type Filters struct {
	MinLiquidityUSD   float64 `json:"min_liquidity"`
	MinVolume24h      float64 `json:"min_volume_24h"`
	MinPriceChange24h float64 `json:"min_price_change"`
}

// DefaultFilters returns the thresholds used when the settings file is
// missing or unreadable.
func DefaultFilters() Filters {
	return Filters{
		MinLiquidityUSD:   1000,
		MinVolume24h:      10000,
		MinPriceChange24h: -1000,
	}
}

// Settings is the runtime-adjustable part of configuration: admission
// filters plus the two blacklists.
type Settings struct {
	Filters          Filters  `json:"filters"`
	BlacklistedCoins []string `json:"blacklisted_coins"`
	BlacklistedDevs  []string `json:"blacklisted_devs"`
}

// DefaultSettings returns default filters with empty blacklists.
func DefaultSettings() Settings {
	return Settings{Filters: DefaultFilters()}
}

// SettingsStore reads and rewrites the JSON settings file. Keys it does not
// understand are kept verbatim across saves, so a file shared with other
// tooling never loses fields.
type SettingsStore struct {
	mu   sync.Mutex
	path string
	raw  map[string]json.RawMessage
}

// NewSettingsStore creates a store for the given path. Nothing is read
// until Load.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path, raw: make(map[string]json.RawMessage)}
}

// Load parses the settings file. Absent filter fields take their defaults.
// On a missing or malformed file the returned error is non-nil and the
// caller is expected to continue with DefaultSettings.
func (s *SettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return settings, fmt.Errorf("read settings %s: %w", s.path, err)
	}

	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	s.raw = raw

	if v, ok := raw["filters"]; ok {
		if err := json.Unmarshal(v, &settings.Filters); err != nil {
			return DefaultSettings(), fmt.Errorf("parse filters in %s: %w", s.path, err)
		}
	}
	if v, ok := raw["blacklisted_coins"]; ok {
		if err := json.Unmarshal(v, &settings.BlacklistedCoins); err != nil {
			return DefaultSettings(), fmt.Errorf("parse blacklisted_coins in %s: %w", s.path, err)
		}
	}
	if v, ok := raw["blacklisted_devs"]; ok {
		if err := json.Unmarshal(v, &settings.BlacklistedDevs); err != nil {
			return DefaultSettings(), fmt.Errorf("parse blacklisted_devs in %s: %w", s.path, err)
		}
	}

	return settings, nil
}

// SaveBlacklists rewrites the settings file with updated blacklists,
// preserving every other key from the last successful Load.
func (s *SettingsStore) SaveBlacklists(coins, devs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if coins == nil {
		coins = []string{}
	}
	if devs == nil {
		devs = []string{}
	}

	coinsJSON, err := json.Marshal(coins)
	if err != nil {
		return fmt.Errorf("marshal blacklisted_coins: %w", err)
	}
	devsJSON, err := json.Marshal(devs)
	if err != nil {
		return fmt.Errorf("marshal blacklisted_devs: %w", err)
	}

	if _, ok := s.raw["filters"]; !ok {
		filtersJSON, err := json.Marshal(DefaultFilters())
		if err != nil {
			return fmt.Errorf("marshal default filters: %w", err)
		}
		s.raw["filters"] = filtersJSON
	}
	s.raw["blacklisted_coins"] = coinsJSON
	s.raw["blacklisted_devs"] = devsJSON

	data, err := json.MarshalIndent(s.raw, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}
