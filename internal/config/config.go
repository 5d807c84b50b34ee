package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CatalogConfig points at an optional catalog file. When File is empty the
// compiled-in GPU table is used.
type CatalogConfig struct {
	File string `yaml:"file"`
}

// DefaultsConfig holds the form defaults and the benchmark duration used for
// the cheapest-option banner.
type DefaultsConfig struct {
	ElectricityCostUSD float64 `yaml:"electricity_cost_usd"`
	Hours              float64 `yaml:"hours"`
	BenchmarkHours     float64 `yaml:"benchmark_hours"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Defaults.ElectricityCostUSD == 0 {
		cfg.Defaults.ElectricityCostUSD = 0.10
	}
	if cfg.Defaults.Hours == 0 {
		cfg.Defaults.Hours = 10
	}
	if cfg.Defaults.BenchmarkHours == 0 {
		cfg.Defaults.BenchmarkHours = 1
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 1024
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Defaults.ElectricityCostUSD < 0 {
		return fmt.Errorf("defaults.electricity_cost_usd must not be negative, got %v", cfg.Defaults.ElectricityCostUSD)
	}
	if cfg.Defaults.Hours < 0 {
		return fmt.Errorf("defaults.hours must not be negative, got %v", cfg.Defaults.Hours)
	}
	if cfg.Defaults.BenchmarkHours < 0 {
		return fmt.Errorf("defaults.benchmark_hours must not be negative, got %v", cfg.Defaults.BenchmarkHours)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", cfg.Cache.MaxEntries)
	}
	return nil
}
