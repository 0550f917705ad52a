package interfaces

import (
	"context"

	"crypto-insight/internal/types"
)

// PriceFetcher retrieves OHLC history for a coin. Failures yield an
// empty series, never an error.
type PriceFetcher interface {
	Fetch(ctx context.Context, coinID, currency string, days int) types.Series
}

// ContentFetcher returns raw article content for a coin from news
// sources. The crawling mechanism is opaque to the pipeline and is
// replaced by a stub in tests.
type ContentFetcher interface {
	FetchContent(ctx context.Context, coin string) ([]types.Article, error)
}
