package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"stockchart/internal/marketdata"
)

// InstrumentConfig is one universe entry: a symbol plus its sector label
// for the chart legend.
type InstrumentConfig struct {
	Symbol string `mapstructure:"symbol"`
	Sector string `mapstructure:"sector"`
}

// Config holds all configuration for the chart feed.
type Config struct {
	// HTTP surface
	ListenAddr string `mapstructure:"listen_addr"`

	// Upstream endpoint (overridable so tests can point at a mock server)
	YahooBaseURL string `mapstructure:"yahoo_base_url"`

	// Instrument universe; order matters for legend and color assignment
	Instruments []InstrumentConfig `mapstructure:"instruments"`

	// Retrieval windows
	LookbackDays  int    `mapstructure:"lookback_days"`
	DefaultWindow string `mapstructure:"default_window"`

	// Batch behavior; pacing_rps 0 disables pacing entirely
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds"`
	PacingRPS        float64 `mapstructure:"pacing_rps"`
	BatchConcurrency int     `mapstructure:"batch_concurrency"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over config file
// values.
//
// Recognized environment variables:
//   - LISTEN_ADDR
//   - YAHOO_BASE_URL
//   - LOOKBACK_DAYS
//   - DEFAULT_WINDOW (one of 1d, 3d, 5d)
//   - CACHE_TTL_SECONDS
//   - PACING_RPS
//   - BATCH_CONCURRENCY
//   - LOG_LEVEL
//
// The instrument universe can only come from the config file; with no
// file present the built-in ETF universe is used.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("lookback_days", 5)
	v.SetDefault("default_window", "5d")
	v.SetDefault("cache_ttl_seconds", 300)
	v.SetDefault("pacing_rps", 10)
	v.SetDefault("batch_concurrency", 1)
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockchart")

	// config file is optional
	_ = v.ReadInConfig()

	v.BindEnv("listen_addr", "LISTEN_ADDR")
	v.BindEnv("yahoo_base_url", "YAHOO_BASE_URL")
	v.BindEnv("lookback_days", "LOOKBACK_DAYS")
	v.BindEnv("default_window", "DEFAULT_WINDOW")
	v.BindEnv("cache_ttl_seconds", "CACHE_TTL_SECONDS")
	v.BindEnv("pacing_rps", "PACING_RPS")
	v.BindEnv("batch_concurrency", "BATCH_CONCURRENCY")
	v.BindEnv("log_level", "LOG_LEVEL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Instruments) == 0 {
		config.Instruments = defaultInstruments()
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", c.LookbackDays)
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cache_ttl_seconds must be positive, got %d", c.CacheTTLSeconds)
	}
	if c.PacingRPS < 0 {
		return fmt.Errorf("pacing_rps must not be negative, got %v", c.PacingRPS)
	}
	if _, ok := Windows()[c.DefaultWindow]; !ok {
		return fmt.Errorf("default_window %q is not a known preset", c.DefaultWindow)
	}
	return nil
}

// Windows returns the named display-window presets offered to the UI.
func Windows() map[string]time.Duration {
	return map[string]time.Duration{
		"1d": 24 * time.Hour,
		"3d": 3 * 24 * time.Hour,
		"5d": 5 * 24 * time.Hour,
	}
}

// Universe converts the configured instruments into domain values.
func (c *Config) Universe() []marketdata.Instrument {
	universe := make([]marketdata.Instrument, len(c.Instruments))
	for i, inst := range c.Instruments {
		universe[i] = marketdata.Instrument{Symbol: inst.Symbol, Sector: inst.Sector}
	}
	return universe
}

// Lookback returns the upstream request window.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// CacheTTL returns the batch result time-to-live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SlogLevel parses the configured log level. Unknown values fall back to
// info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultInstruments is the thematic ETF universe the chart was built
// around.
func defaultInstruments() []InstrumentConfig {
	return []InstrumentConfig{
		{Symbol: "QTUM", Sector: "Quantum Computing"},
		{Symbol: "UFO", Sector: "Space"},
		{Symbol: "ARKG", Sector: "Genomics"},
		{Symbol: "URA", Sector: "Uranium"},
		{Symbol: "SPAM", Sector: "Cybersecurity"},
		{Symbol: "XLU", Sector: "Utilities"},
		{Symbol: "HYDR", Sector: "Hydrogen"},
		{Symbol: "SOXX", Sector: "Semiconductors"},
		{Symbol: "VDC", Sector: "Consumer Staples"},
		{Symbol: "IPAY", Sector: "Payments"},
		{Symbol: "FINX", Sector: "Fintech"},
		{Symbol: "XLF", Sector: "Financials"},
		{Symbol: "KLXY", Sector: "Luxury"},
		{Symbol: "XLV", Sector: "Healthcare"},
		{Symbol: "CGW", Sector: "Water"},
	}
}
