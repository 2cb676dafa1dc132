package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all runtime configuration for the venue simulator.
type Config struct {
	LogLevel             string
	TickerInterval       time.Duration
	EngineInterval       time.Duration
	QuoteTTL             time.Duration
	RedisAddr            string // empty selects the in-process cache
	DefaultSeedPrice     decimal.Decimal
	SymbolSeeds          map[string]decimal.Decimal
	VolatilityMultiplier decimal.Decimal
	ShutdownTimeout      time.Duration
}

// Load reads configuration from environment variables, applies
// defaults, and validates values. It returns an error for any invalid
// value.
func Load() (*Config, error) {
	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	tickerInterval, err := getDuration("TICKER_INTERVAL", 1*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid TICKER_INTERVAL: %w", err)
	}
	if tickerInterval <= 0 {
		return nil, fmt.Errorf("invalid TICKER_INTERVAL: must be positive")
	}

	engineInterval, err := getDuration("ENGINE_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid ENGINE_INTERVAL: %w", err)
	}
	if engineInterval <= 0 {
		return nil, fmt.Errorf("invalid ENGINE_INTERVAL: must be positive")
	}

	quoteTTL, err := getDuration("QUOTE_TTL", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_TTL: %w", err)
	}
	if quoteTTL <= 0 {
		return nil, fmt.Errorf("invalid QUOTE_TTL: must be positive")
	}

	defaultSeed, err := getDecimal("DEFAULT_SEED_PRICE", "100")
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SEED_PRICE: %w", err)
	}
	if defaultSeed.Sign() <= 0 {
		return nil, fmt.Errorf("invalid DEFAULT_SEED_PRICE: must be positive")
	}

	seeds, err := parseSymbolSeeds(os.Getenv("SYMBOL_SEEDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYMBOL_SEEDS: %w", err)
	}

	multiplier, err := getDecimal("VOLATILITY_MULTIPLIER", "1.0")
	if err != nil {
		return nil, fmt.Errorf("invalid VOLATILITY_MULTIPLIER: %w", err)
	}
	if multiplier.Sign() <= 0 {
		return nil, fmt.Errorf("invalid VOLATILITY_MULTIPLIER: must be positive")
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		LogLevel:             logLevel,
		TickerInterval:       tickerInterval,
		EngineInterval:       engineInterval,
		QuoteTTL:             quoteTTL,
		RedisAddr:            getStr("REDIS_ADDR", ""),
		DefaultSeedPrice:     defaultSeed,
		SymbolSeeds:          seeds,
		VolatilityMultiplier: multiplier,
		ShutdownTimeout:      shutdownTimeout,
	}, nil
}

// parseSymbolSeeds parses a "SYM=price,SYM=price" list into per-symbol
// seed prices. An empty input yields an empty map.
func parseSymbolSeeds(s string) (map[string]decimal.Decimal, error) {
	seeds := make(map[string]decimal.Decimal)
	if s == "" {
		return seeds, nil
	}
	for _, pair := range strings.Split(s, ",") {
		symbol, price, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || symbol == "" {
			return nil, fmt.Errorf("malformed entry %q, expected SYMBOL=price", pair)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", pair, err)
		}
		if d.Sign() <= 0 {
			return nil, fmt.Errorf("entry %q: price must be positive", pair)
		}
		seeds[symbol] = d
	}
	return seeds, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func getDecimal(key, defaultVal string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		v = defaultVal
	}
	return decimal.NewFromString(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
