package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		LogLevel string `toml:"log_level"`
	} `toml:"app"`

	Kraken struct {
		BaseURL    string `toml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"kraken"`

	Database struct {
		APIURL     string `toml:"api_url"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"database"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	Cache struct {
		PairsTTLSec int `toml:"pairs_ttl_sec"`
	} `toml:"cache"`

	Sync struct {
		Pairs       []string `toml:"pairs"`
		Timeframe   string   `toml:"timeframe"`
		IntervalMin int      `toml:"interval_min"`
	} `toml:"sync"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Kraken.TimeoutSec <= 0 {
		cfg.Kraken.TimeoutSec = 30
	}
	if cfg.Database.TimeoutSec <= 0 {
		cfg.Database.TimeoutSec = 30
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.PairsTTLSec <= 0 {
		cfg.Cache.PairsTTLSec = 3600
	}
	if cfg.Sync.Timeframe == "" {
		cfg.Sync.Timeframe = "1d"
	}
	if cfg.Sync.IntervalMin <= 0 {
		cfg.Sync.IntervalMin = 60
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Database.APIURL) == "" {
		return errors.New("database.api_url is empty")
	}

	cfg.Sync.Pairs = normalizePairs(cfg.Sync.Pairs)
	if len(cfg.Sync.Pairs) == 0 {
		return errors.New("sync.pairs is empty")
	}
	return nil
}

func normalizePairs(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, p := range in {
		u := strings.ToUpper(strings.TrimSpace(p))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
