package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"crypto-insight/internal/api"
	"crypto-insight/internal/insight"
	"crypto-insight/internal/llm"
	"crypto-insight/internal/market"
	"crypto-insight/internal/news"
	"crypto-insight/internal/pipeline"
	"crypto-insight/internal/store"
	"crypto-insight/internal/types"
)

// buildRunner wires the pipeline's collaborators. All HTTP and LLM
// clients are created once here and reused for the process lifetime.
func buildRunner(cfg *store.Config) *pipeline.Runner {
	marketClient := api.NewClient(
		api.WithBaseURL(cfg.Market.BaseURL),
		api.WithTimeout(time.Duration(cfg.Market.TimeoutSeconds)*time.Second),
		api.WithLogging(true),
	)

	var fetcherOpts []market.Option
	if cfg.Market.CacheMinutes > 0 {
		fetcherOpts = append(fetcherOpts,
			market.WithCache(time.Duration(cfg.Market.CacheMinutes)*time.Minute))
	}
	prices := market.NewCoinGeckoFetcher(marketClient, fetcherOpts...)

	completer := llm.NewCompleter(cfg)

	scraperTimeout := time.Duration(cfg.News.TimeoutSeconds) * time.Second
	var scraper *news.Scraper
	if len(cfg.News.Sources) > 0 {
		sources := make([]news.Source, 0, len(cfg.News.Sources))
		for _, u := range cfg.News.Sources {
			sources = append(sources, news.Source{
				Name:      u,
				SearchURL: u,
				Selectors: news.ArticleSelectors{Item: "article", Headline: "h2, h3", Snippet: "p"},
			})
		}
		scraper = news.NewScraperWithSources(scraperTimeout, sources)
	} else {
		scraper = news.NewScraper(scraperTimeout)
	}

	newsSv := news.NewService(scraper, completer, cfg, news.ServiceConfigFrom(cfg))
	synth := insight.NewSynthesizer(completer, cfg)

	return pipeline.New(prices, newsSv, synth)
}

// printReport renders the analysis result to stdout as plain text or JSON.
func printReport(report *types.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("=== %s/%s market analysis ===\n\n", report.Coin, report.Currency)

	if report.Features != nil {
		f := report.Features
		fmt.Printf("Current price:      %.2f\n", f.CurrentPrice)
		fmt.Printf("Crossover signal:   %s\n", f.Signal)
		fmt.Printf("%d-day volatility:  %.2f%%\n", f.VolWindow, f.Volatility*100)
	} else {
		fmt.Println("Technical features unavailable (no price data)")
	}

	fmt.Printf("\nSentiment (%d articles analyzed, %.0f%% positive):\n",
		len(report.Sentiments), report.PositiveShare()*100)
	for _, rec := range report.Sentiments {
		fmt.Printf("  [%s] %.0f%% confidence - %s\n", rec.Sentiment, rec.Confidence*100, rec.Summary)
	}

	fmt.Println("\n=== Forecast ===")
	fmt.Println(report.Forecast.Message())
	return nil
}
