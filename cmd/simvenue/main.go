package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dvries/simvenue/internal/config"
	"github.com/dvries/simvenue/internal/domain"
	"github.com/dvries/simvenue/internal/engine"
	"github.com/dvries/simvenue/internal/marketdata"
	"github.com/dvries/simvenue/internal/store"
)

func main() {
	// .env is optional; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Stores.
	exchangeStore := store.NewExchangeStore()
	marketStore := store.NewMarketStore()
	ledger := store.NewLedger()

	// Quote cache: Redis when configured, in-process otherwise.
	var cache engine.QuoteCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("redis unreachable", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		cache = marketdata.NewRedisQuoteCache(client)
		logger.Info("quote cache: redis", slog.String("addr", cfg.RedisAddr))
	} else {
		cache = marketdata.NewMemoryQuoteCache()
		logger.Info("quote cache: in-process")
	}

	broker := marketdata.NewBroker()
	audit := marketdata.NewAuditLog(10_000)
	validator := marketdata.NewValidator()

	// Seed a default venue so the binary simulates out of the box; a
	// production deployment replaces this with the provisioning flow.
	symbols := make([]string, 0, len(cfg.SymbolSeeds))
	for symbol := range cfg.SymbolSeeds {
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		symbols = []string{"SIM"}
	}
	exchangeStore.Put(&domain.Exchange{
		ExchangeID:           "primary",
		Name:                 "Primary Venue",
		Active:               true,
		EngineEnabled:        true,
		VolatilityMultiplier: cfg.VolatilityMultiplier,
		Symbols:              symbols,
		CreatedAt:            time.Now(),
	})

	prices := engine.NewPriceGenerator(
		cfg.SymbolSeeds,
		cfg.DefaultSeedPrice,
		rand.NewPCG(rand.Uint64(), rand.Uint64()),
	)

	orch := engine.NewOrchestrator(
		exchangeStore,
		marketStore,
		ledger,
		prices,
		cache,
		broker,
		audit,
		validator,
		cfg.TickerInterval,
		cfg.EngineInterval,
		cfg.QuoteTTL,
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := orch.Start(ctx)
	logger.Info("simulation started",
		slog.Duration("ticker_interval", cfg.TickerInterval),
		slog.Duration("engine_interval", cfg.EngineInterval),
		slog.Int("symbols", len(symbols)))

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	cancel()
	select {
	case <-done:
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("shutdown timed out")
	}
	logger.Info("simulation stopped")
}
