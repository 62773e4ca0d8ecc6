package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stockfetcher/internal/ratelimit"
)

// Config holds all configuration for the stock fetcher service.
type Config struct {
	// API Keys for the upstream providers
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`
	FinnhubAPIKey      string `mapstructure:"finnhub_api_key"`
	PolygonAPIKey      string `mapstructure:"polygon_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`
	YahooBaseURL        string `mapstructure:"yahoo_base_url"`
	FinnhubBaseURL      string `mapstructure:"finnhub_base_url"`

	// HTTP server
	ServerAddr string `mapstructure:"server_addr"`

	// Upstream behaviour
	AdapterTimeout  time.Duration `mapstructure:"adapter_timeout"`
	HTTPRetryCount  int           `mapstructure:"http_retry_count"`
	AlphavantageRPM float64       `mapstructure:"alphavantage_rpm"`
	FinnhubRPM      float64       `mapstructure:"finnhub_rpm"`
	YahooRPM        float64       `mapstructure:"yahoo_rpm"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Symbol lists
	PopularSymbols []string `mapstructure:"popular_symbols"`
	SearchSymbols  []string `mapstructure:"search_symbols"`
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"alphavantage_api_key":  "ALPHAVANTAGE_API_KEY",
	"finnhub_api_key":       "FINNHUB_API_KEY",
	"polygon_api_key":       "POLYGON_API_KEY",
	"alphavantage_base_url": "ALPHAVANTAGE_BASE_URL",
	"yahoo_base_url":        "YAHOO_BASE_URL",
	"finnhub_base_url":      "FINNHUB_BASE_URL",
	"server_addr":           "SERVER_ADDR",
	"adapter_timeout":       "ADAPTER_TIMEOUT",
	"http_retry_count":      "HTTP_RETRY_COUNT",
	"alphavantage_rpm":      "ALPHAVANTAGE_RPM",
	"finnhub_rpm":           "FINNHUB_RPM",
	"yahoo_rpm":             "YAHOO_RPM",
	"log_level":             "LOG_LEVEL",
	"log_format":            "LOG_FORMAT",
	"popular_symbols":       "POPULAR_SYMBOLS",
	"search_symbols":        "SEARCH_SYMBOLS",
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file. Environment variables take precedence over
// .env values, which take precedence over config file values.
//
// Required environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - FINNHUB_API_KEY
//
// Everything else has a default; see setDefaults.
func Load() (*Config, error) {
	return load(".env", ".", "$HOME/.stockfetcher")
}

func load(envFile string, configPaths ...string) (*Config, error) {
	// .env never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	setDefaults(v)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Unmarshal config into struct (durations and comma separated lists
	// are decoded by viper's default hooks)
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.PopularSymbols = normalizeSymbols(config.PopularSymbols)
	config.SearchSymbols = normalizeSymbols(config.SearchSymbols)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("yahoo_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("finnhub_base_url", "https://finnhub.io/api/v1")

	v.SetDefault("server_addr", ":8080")
	v.SetDefault("adapter_timeout", "10s")
	v.SetDefault("http_retry_count", 2)

	// free tier budgets
	v.SetDefault("alphavantage_rpm", 5)
	v.SetDefault("finnhub_rpm", 60)
	v.SetDefault("yahoo_rpm", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("popular_symbols", []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA"})
	v.SetDefault("search_symbols", []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA", "JPM", "V"})
}

// Validate reports missing keys and out of range values.
func (c *Config) Validate() error {
	var missing []string
	if c.AlphavantageAPIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if c.FinnhubAPIKey == "" {
		missing = append(missing, "FINNHUB_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.AdapterTimeout <= 0 {
		return fmt.Errorf("invalid configuration: ADAPTER_TIMEOUT must be positive, got %s", c.AdapterTimeout)
	}
	if c.HTTPRetryCount < 0 {
		return fmt.Errorf("invalid configuration: HTTP_RETRY_COUNT must not be negative, got %d", c.HTTPRetryCount)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid configuration: LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Limits returns the request budget for each rate limited API.
func (c *Config) Limits() map[ratelimit.API]ratelimit.Limit {
	return map[ratelimit.API]ratelimit.Limit{
		ratelimit.APIAlphaVantage: {PerMinute: c.AlphavantageRPM, Burst: burst(c.AlphavantageRPM)},
		ratelimit.APIFinnhub:      {PerMinute: c.FinnhubRPM, Burst: burst(c.FinnhubRPM)},
		ratelimit.APIYahoo:        {PerMinute: c.YahooRPM, Burst: burst(c.YahooRPM)},
	}
}

// burst lets up to a minute's budget go out back to back, capped at ten.
func burst(perMinute float64) int {
	return max(1, int(min(10, perMinute)))
}

// Logger builds the root logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid configuration: LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}

func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
