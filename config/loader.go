package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "https://api.trafikinfo.trafikverket.se/v2/data.json"

// Load reads the configuration file, applies environment overrides for
// secrets and addresses, validates the result and fills defaults.
// A missing config file is not an error; defaults plus environment are enough
// to run against a local filesystem store.
func Load(path string) (*Config, error) {
	// .env in the working directory, if present
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRAFIKVERKET_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("TRAFIKVERKET_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.DatabaseURL = v
		if cfg.Store.Backend == "" {
			cfg.Store.Backend = "postgres"
		}
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STORE_ROOT"); v != "" {
		cfg.Store.Root = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.URL == "" {
		cfg.API.URL = defaultAPIURL
	}
	if cfg.API.TimeoutSec == 0 {
		cfg.API.TimeoutSec = 60
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = 3
	}
	if cfg.API.BackoffSec == 0 {
		cfg.API.BackoffSec = 2.0
	}
	if cfg.API.WindowPauseMS == 0 {
		cfg.API.WindowPauseMS = 500
	}
	if cfg.API.LimitPerWindow == 0 {
		cfg.API.LimitPerWindow = 50000
	}
	if cfg.API.FetchDays == 0 {
		cfg.API.FetchDays = 3
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "fs"
	}
	if cfg.Store.Root == "" {
		cfg.Store.Root = "./data"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "traintrips"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Stockholm"
	}
}

// Location resolves the configured reporting timezone. Load already
// validated the name, so failures here only happen on a stale struct.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
