package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alex30free/swedish-stock-screener/internal/screener"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string  `yaml:"provider"` // "yahoo" or "stooq"
		BaseURL           string  `yaml:"base_url"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Universe []string `yaml:"universe"`
	Screen   struct {
		LookbackDays         int     `yaml:"lookback_days"`
		MinObservations      int     `yaml:"min_observations"`
		TopN                 int     `yaml:"top_n"`
		VolatilityWeight     float64 `yaml:"volatility_weight"`
		MomentumWeight       float64 `yaml:"momentum_weight"`
		YieldWeight          float64 `yaml:"yield_weight"`
		MomentumWindowDays   int     `yaml:"momentum_window_days"`
		VolatilityPercentile float64 `yaml:"volatility_percentile"`
		MomentumCutoff       float64 `yaml:"momentum_cutoff"`
	} `yaml:"screen"`
	Schedule struct {
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Output struct {
		JSONPath string `yaml:"json_path"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("UNIVERSE"); v != "" {
		cfg.Universe = splitList(v)
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screen.TopN = n
		}
	}
	if v := os.Getenv("CRON_WEEKLY"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		cfg.Output.JSONPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 3
	}
	if cfg.Screen.LookbackDays == 0 {
		cfg.Screen.LookbackDays = 400
	}
	if cfg.Screen.MinObservations == 0 {
		cfg.Screen.MinObservations = 50
	}
	if cfg.Screen.TopN == 0 {
		cfg.Screen.TopN = 10
	}
	if cfg.Screen.MomentumWindowDays == 0 {
		cfg.Screen.MomentumWindowDays = screener.DefaultMomentumWindowDays
	}
	if cfg.Screen.VolatilityWeight == 0 && cfg.Screen.MomentumWeight == 0 && cfg.Screen.YieldWeight == 0 {
		cfg.Screen.VolatilityWeight = 0.40
		cfg.Screen.MomentumWeight = 0.35
		cfg.Screen.YieldWeight = 0.25
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 6 * * 1"
	}
	if cfg.Output.JSONPath == "" {
		cfg.Output.JSONPath = "data.json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = 20
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 3
	}

	return cfg, nil
}

// Validate checks that all required fields are set and the screen
// parameters are usable.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must list at least one ticker")
	}
	switch c.DataSource.Provider {
	case "yahoo", "stooq":
	default:
		return fmt.Errorf("data_source.provider must be yahoo or stooq, got %q", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	return c.ScreenConfig().Validate()
}

// ScreenConfig maps the screen section onto the engine configuration.
func (c *Config) ScreenConfig() screener.Config {
	return screener.Config{
		LookbackDays:         c.Screen.LookbackDays,
		MinObservations:      c.Screen.MinObservations,
		TopN:                 c.Screen.TopN,
		WVolatility:          c.Screen.VolatilityWeight,
		WMomentum:            c.Screen.MomentumWeight,
		WYield:               c.Screen.YieldWeight,
		MomentumWindowDays:   c.Screen.MomentumWindowDays,
		VolatilityPercentile: c.Screen.VolatilityPercentile,
		MomentumCutoff:       c.Screen.MomentumCutoff,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
