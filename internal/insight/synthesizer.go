package insight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/store"
	"crypto-insight/internal/ta"
	"crypto-insight/internal/trace"
	"crypto-insight/internal/types"
)

// Synthesizer combines technical features and sentiment distribution into
// a market forecast via the completion capability. Its result is always a
// tagged Forecast; no failure mode escapes as an error or panic, because
// the presentation layer must always receive something to display.
type Synthesizer struct {
	completer   interfaces.Completer
	temperature float32
	maxTokens   int
}

// NewSynthesizer creates a forecast synthesizer.
func NewSynthesizer(completer interfaces.Completer, cfg *store.Config) *Synthesizer {
	return &Synthesizer{
		completer:   completer,
		temperature: cfg.LLM.Synthesis.Temperature,
		maxTokens:   cfg.LLM.Synthesis.MaxTokens,
	}
}

// Synthesize validates inputs, derives technical features, and requests a
// free-text forecast. Validation failures and completion failures come
// back as the Forecast's failure text.
func (s *Synthesizer) Synthesize(ctx context.Context, dist types.Distribution, series types.Series, window int) types.Forecast {
	ctx, span := trace.StartSpan(ctx, "synthesize-insights")
	defer span.End()

	if window <= 0 {
		return types.Forecast{Err: "Error: window must be a positive integer."}
	}
	if len(series) < window {
		return types.Forecast{Err: fmt.Sprintf(
			"Error: Not enough data to calculate %d-day volatility. Only %d rows available.", window, len(series))}
	}

	features, err := ta.Compute(series, window)
	if err != nil {
		return types.Forecast{Err: fmt.Sprintf("Insights generation failed: %v", err)}
	}

	prompt := BuildPrompt(features, dist)
	logger.Debug(ctx, "Synthesis prompt built", "prompt_len", len(prompt), "window", window)

	text, err := s.completer.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Forecast generation failed", err)
		return types.Forecast{Err: fmt.Sprintf("Insights generation failed: %v", err)}
	}

	return types.Forecast{Text: text}
}

// BuildPrompt renders the structured market-data prompt. Percentages and
// prices use 2 decimal places; metrics without enough history render as
// n/a rather than crashing the formatting.
func BuildPrompt(f types.FeatureSet, dist types.Distribution) string {
	var b strings.Builder
	b.WriteString("Analyze this market data:\n")
	fmt.Fprintf(&b, "- Current Price: %s\n", fixed(f.CurrentPrice))
	fmt.Fprintf(&b, "- 7D Price Change: %s\n", percent(f.PriceChange7D))
	fmt.Fprintf(&b, "- 30D Price Change: %s\n", percent(f.PriceChange30))
	fmt.Fprintf(&b, "- %dD Volatility: %s\n", f.VolWindow, percent(f.Volatility))
	fmt.Fprintf(&b, "- Market Sentiment Distribution: %s\n", formatDistribution(dist))
	fmt.Fprintf(&b, "- SMA Crossover Signal: %s\n", f.Signal)
	b.WriteString(`
Provide:
1. Short-term (1 week) price prediction based on recent trends, sentiment, and SMA crossover signals.
2. Key risk factors considering volatility, sentiment shifts, and SMA crossover signals.
3. Recommended trading strategies based on current market conditions and SMA crossover signals.
4. Long-term outlook considering historical performance, market sentiment, and SMA crossover signals.
`)
	return b.String()
}

// formatDistribution renders categories in a fixed order so prompts are
// deterministic for a given distribution.
func formatDistribution(dist types.Distribution) string {
	if len(dist) == 0 {
		return "no sentiment signal"
	}

	order := []types.Sentiment{types.SentimentPositive, types.SentimentNeutral, types.SentimentNegative}
	parts := make([]string, 0, len(dist))
	for _, s := range order {
		if v, ok := dist[s]; ok {
			parts = append(parts, fmt.Sprintf("%s: %.2f", s, v))
		}
	}
	return strings.Join(parts, ", ")
}

func fixed(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
