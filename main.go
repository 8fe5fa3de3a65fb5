package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"stockchart/internal/batch"
	"stockchart/internal/cache"
	"stockchart/internal/config"
	"stockchart/internal/server"
	"stockchart/internal/source"
	"stockchart/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Retrieval strategies in priority order: the direct chart query
	// first, the coarse range path as the safety net.
	retriever := source.NewFallback(logger,
		yahoo.NewChartClient(cfg.YahooBaseURL),
		yahoo.NewRangeClient(cfg.YahooBaseURL),
	)

	// a zero rate would admit one request and then block forever, so a
	// pacing of 0 means no limiter at all
	var limiter *rate.Limiter
	if cfg.PacingRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.PacingRPS), 1)
	}
	fetcher := batch.New(retriever, limiter, cfg.BatchConcurrency, logger)
	store := cache.NewTTL(cfg.CacheTTL())

	handler := server.NewHandler(server.HandlerConfig{
		Universe:      cfg.Universe(),
		Lookback:      cfg.Lookback(),
		Windows:       config.Windows(),
		DefaultWindow: cfg.DefaultWindow,
	}, fetcher, store, logger)

	srv := server.New(cfg.ListenAddr, handler.Router(), logger)

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received interrupt signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		os.Exit(1)
	}
}
