package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto-insight/internal/api"
)

func newTestFetcher(handler http.HandlerFunc, opts ...Option) (*CoinGeckoFetcher, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := api.NewClient(
		api.WithBaseURL(server.URL),
		api.WithTimeout(5*time.Second),
	)
	return NewCoinGeckoFetcher(client, opts...), server
}

func candlePayload(n int) string {
	payload := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			payload += ","
		}
		ts := int64(1700000000000) + int64(i)*86400000
		payload += fmt.Sprintf("[%d,%d,%d,%d,%d]", ts, 100+i, 105+i, 95+i, 102+i)
	}
	return payload + "]"
}

func TestFetchReturnsOrderedCandles(t *testing.T) {
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/ohlc" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("Expected vs_currency usd, got %s", got)
		}
		if got := r.URL.Query().Get("days"); got != "30" {
			t.Errorf("Expected days 30, got %s", got)
		}
		fmt.Fprint(w, candlePayload(30))
	})
	defer server.Close()

	series := fetcher.Fetch(context.Background(), "bitcoin", "usd", 30)

	if len(series) != 30 {
		t.Fatalf("Expected 30 candles, got %d", len(series))
	}

	// Timestamps converted from milliseconds and ascending.
	want := time.UnixMilli(1700000000000)
	if !series[0].Ts.Equal(want) {
		t.Errorf("Expected first timestamp %v, got %v", want, series[0].Ts)
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Ts.Before(series[i].Ts) {
			t.Fatalf("Series not ascending at index %d", i)
		}
	}

	last := series[len(series)-1]
	if last.Open != 129 || last.High != 134 || last.Low != 124 || last.Close != 131 {
		t.Errorf("Unexpected last candle: %+v", last)
	}
}

func TestFetchRejectsInvalidInput(t *testing.T) {
	called := false
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	defer server.Close()

	ctx := context.Background()
	if series := fetcher.Fetch(ctx, "", "usd", 30); series != nil {
		t.Errorf("Expected empty series for empty coin id, got %d candles", len(series))
	}
	if series := fetcher.Fetch(ctx, "bitcoin", "usd", 0); series != nil {
		t.Errorf("Expected empty series for zero days, got %d candles", len(series))
	}
	if series := fetcher.Fetch(ctx, "bitcoin", "usd", -7); series != nil {
		t.Errorf("Expected empty series for negative days, got %d candles", len(series))
	}

	if called {
		t.Error("Expected no request for invalid input")
	}
}

func TestFetchServerError(t *testing.T) {
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})
	defer server.Close()

	if series := fetcher.Fetch(context.Background(), "bitcoin", "usd", 30); series != nil {
		t.Errorf("Expected empty series on server error, got %d candles", len(series))
	}
}

func TestFetchUnparseablePayload(t *testing.T) {
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"not an array"}`)
	})
	defer server.Close()

	if series := fetcher.Fetch(context.Background(), "bitcoin", "usd", 30); series != nil {
		t.Errorf("Expected empty series on unparseable payload, got %d candles", len(series))
	}
}

func TestFetchEmptyPayload(t *testing.T) {
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	})
	defer server.Close()

	if series := fetcher.Fetch(context.Background(), "bitcoin", "usd", 30); series != nil {
		t.Errorf("Expected empty series on empty payload, got %d candles", len(series))
	}
}

func TestFetchCacheKeyedOnExactTriple(t *testing.T) {
	requests := 0
	fetcher, server := newTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, candlePayload(7))
	}, WithCache(time.Minute))
	defer server.Close()

	ctx := context.Background()

	fetcher.Fetch(ctx, "bitcoin", "usd", 7)
	fetcher.Fetch(ctx, "bitcoin", "usd", 7)
	if requests != 1 {
		t.Errorf("Expected 1 request for repeated triple, got %d", requests)
	}

	// A different triple must not reuse the cached result.
	fetcher.Fetch(ctx, "bitcoin", "usd", 14)
	fetcher.Fetch(ctx, "bitcoin", "eur", 7)
	fetcher.Fetch(ctx, "ethereum", "usd", 7)
	if requests != 4 {
		t.Errorf("Expected 4 requests across distinct triples, got %d", requests)
	}
}
