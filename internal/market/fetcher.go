package market

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"crypto-insight/internal/api"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/trace"
	"crypto-insight/internal/types"
)

// Fetcher retrieves OHLC price history for a coin. Implementations fail
// closed: any error yields an empty series, never a panic or a raised
// error, so callers can always range over the result.
type Fetcher interface {
	Fetch(ctx context.Context, coinID, currency string, days int) types.Series
}

// CoinGeckoFetcher fetches OHLC candles from the CoinGecko API.
type CoinGeckoFetcher struct {
	client *api.Client
	cache  *seriesCache
}

// Option configures the fetcher
type Option func(*CoinGeckoFetcher)

// WithCache enables session caching of results keyed on the exact
// (coin, currency, days) triple.
func WithCache(ttl time.Duration) Option {
	return func(f *CoinGeckoFetcher) {
		f.cache = newSeriesCache(ttl)
	}
}

// NewCoinGeckoFetcher creates a fetcher backed by the given HTTP client.
// The client is expected to carry the API base URL and timeout.
func NewCoinGeckoFetcher(client *api.Client, opts ...Option) *CoinGeckoFetcher {
	f := &CoinGeckoFetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves up to `days` of OHLC candles for coinID quoted in
// currency. Invalid input, network failure, a non-2xx response, an
// unparseable payload, or an empty body all return an empty series with
// a logged diagnostic. One attempt per call, no retries.
func (f *CoinGeckoFetcher) Fetch(ctx context.Context, coinID, currency string, days int) types.Series {
	ctx, span := trace.StartSpan(ctx, "market.Fetch")
	defer span.End()

	if coinID == "" {
		logger.Warn(ctx, "Price fetch rejected: empty coin id")
		return nil
	}
	if days <= 0 {
		logger.Warn(ctx, "Price fetch rejected: non-positive days", "coin", coinID, "days", days)
		return nil
	}

	if f.cache != nil {
		if series, ok := f.cache.get(coinID, currency, days); ok {
			logger.Debug(ctx, "Using cached price series", "coin", coinID, "currency", currency, "days", days)
			return series
		}
	}

	path := fmt.Sprintf("/coins/%s/ohlc?vs_currency=%s&days=%d",
		url.PathEscape(coinID), url.QueryEscape(currency), days)

	resp, err := f.client.GET(ctx, path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Price data error", err, "coin", coinID, "currency", currency, "days", days)
		return nil
	}

	// CoinGecko returns an array of [timestamp_ms, open, high, low, close]
	var raw [][]float64
	if err := resp.ParseJSON(&raw); err != nil {
		logger.ErrorWithErr(ctx, "Price payload parse error", err, "coin", coinID)
		return nil
	}
	if len(raw) == 0 {
		logger.Warn(ctx, "Price payload empty", "coin", coinID, "currency", currency, "days", days)
		return nil
	}

	series := make(types.Series, 0, len(raw))
	for _, row := range raw {
		if len(row) < 5 {
			logger.Warn(ctx, "Skipping malformed candle row", "coin", coinID, "fields", len(row))
			continue
		}
		series = append(series, types.Candle{
			Ts:    time.UnixMilli(int64(row[0])),
			Open:  row[1],
			High:  row[2],
			Low:   row[3],
			Close: row[4],
		})
	}
	if len(series) == 0 {
		logger.Warn(ctx, "No usable candles in payload", "coin", coinID)
		return nil
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Ts.Before(series[j].Ts) })

	if f.cache != nil {
		f.cache.set(coinID, currency, days, series)
	}

	logger.Info(ctx, "Price series fetched", "coin", coinID, "currency", currency, "days", days, "candles", len(series))
	return series
}
