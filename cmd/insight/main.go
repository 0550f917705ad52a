package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crypto-insight/internal/logger"
	"crypto-insight/internal/pipeline"
	"crypto-insight/internal/store"
	"crypto-insight/internal/trace"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		coin       = flag.String("coin", "", "coin id (overrides config)")
		currency   = flag.String("currency", "", "quote currency (overrides config)")
		days       = flag.Int("days", 0, "analysis period in days (overrides config)")
		window     = flag.Int("window", 0, "volatility window in days (overrides config)")
		format     = flag.String("format", "text", "output format: text or json")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize tracer: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Allow the whole run to be abandoned by the caller.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Interrupted, abandoning analysis")
		cancel()
	}()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", *configPath)
		os.Exit(1)
	}

	req := pipeline.Request{
		Coin:      cfg.Analysis.Coin,
		Currency:  cfg.Analysis.Currency,
		Days:      cfg.Analysis.Days,
		VolWindow: cfg.Analysis.VolatilityWindow,
	}
	if *coin != "" {
		req.Coin = *coin
	}
	if *currency != "" {
		req.Currency = *currency
	}
	if *days > 0 {
		req.Days = *days
	}
	if *window > 0 {
		req.VolWindow = *window
	}

	runner := buildRunner(cfg)

	logger.Info(ctx, "Starting analysis",
		"coin", req.Coin, "currency", req.Currency, "days", req.Days, "window", req.VolWindow)

	report, err := runner.Run(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis failed", err)
		shutdown()
		os.Exit(1)
	}

	if err := printReport(report, *format); err != nil {
		logger.ErrorWithErr(ctx, "Failed to render report", err)
		shutdown()
		os.Exit(1)
	}

	shutdown()
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
}
