package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crypto-insight/internal/insight"
	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/news"
	"crypto-insight/internal/ta"
	"crypto-insight/internal/trace"
	"crypto-insight/internal/types"
)

// ErrInvalidInput marks requests rejected at the boundary, before any
// external call is made.
var ErrInvalidInput = errors.New("invalid input")

// Request describes one analysis run.
type Request struct {
	Coin      string
	Currency  string
	Days      int
	VolWindow int
}

// Validate rejects malformed requests before any external call.
func (r Request) Validate() error {
	if r.Coin == "" {
		return fmt.Errorf("%w: coin id cannot be empty", ErrInvalidInput)
	}
	if r.Currency == "" {
		return fmt.Errorf("%w: currency cannot be empty", ErrInvalidInput)
	}
	if r.Days <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidInput, r.Days)
	}
	if r.VolWindow <= 0 {
		return fmt.Errorf("%w: volatility window must be positive, got %d", ErrInvalidInput, r.VolWindow)
	}
	return nil
}

// Runner executes the full market-insight pipeline: price history and
// news content are fetched concurrently, sentiment is extracted and
// aggregated, and both halves join at the synthesis stage. Runs are
// single-flight; one analysis completes before the next begins.
type Runner struct {
	mu     sync.Mutex
	prices interfaces.PriceFetcher
	newsSv *news.Service
	synth  *insight.Synthesizer
}

// New creates a pipeline runner over the given collaborators.
func New(prices interfaces.PriceFetcher, newsSv *news.Service, synth *insight.Synthesizer) *Runner {
	return &Runner{
		prices: prices,
		newsSv: newsSv,
		synth:  synth,
	}
}

// Run performs one end-to-end analysis. Partial failure degrades rather
// than aborts: a failed price fetch leaves sentiment results reportable
// and turns the forecast into an error message, and vice versa. Run
// itself returns an error only for invalid input.
func (r *Runner) Run(ctx context.Context, req Request) (*types.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	op := logger.StartOperation(ctx, "market-analysis",
		"coin", req.Coin, "currency", req.Currency, "days", req.Days)
	ctx = op.GetContext()

	// Price history and news content have no ordering dependency; fetch
	// them concurrently.
	var (
		series    types.Series
		sentiment *news.Result
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		series = r.prices.Fetch(ctx, req.Coin, req.Currency, req.Days)
	}()
	go func() {
		defer wg.Done()
		result, err := r.newsSv.Analyze(ctx, req.Coin)
		if err != nil {
			logger.ErrorWithErr(ctx, "Sentiment stage failed", err, "coin", req.Coin)
			result = &news.Result{Dist: types.Distribution{}}
		}
		sentiment = result
	}()
	wg.Wait()

	report := &types.Report{
		Coin:       req.Coin,
		Currency:   req.Currency,
		Series:     series,
		Articles:   sentiment.Articles,
		Sentiments: sentiment.Records,
		Dist:       sentiment.Dist,
	}

	// Technical features are advisory on the report; the synthesizer
	// recomputes them and reports its own failure text when history is
	// short.
	if len(series) > 0 {
		features, err := ta.Compute(series, req.VolWindow)
		if err != nil {
			logger.Warn(ctx, "Technical features unavailable", "coin", req.Coin, "error", err)
		} else {
			report.Features = &features
		}
	} else {
		logger.Warn(ctx, "Price series empty, skipping technical analysis", "coin", req.Coin)
	}

	report.Forecast = r.synth.Synthesize(ctx, sentiment.Dist, series, req.VolWindow)

	op.End("candles", len(series), "articles", len(report.Articles), "forecast_ok", report.Forecast.OK())
	return report, nil
}
