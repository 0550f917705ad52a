package news

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/store"
	"crypto-insight/internal/trace"
	"crypto-insight/internal/types"
)

// maxPromptContentLen bounds how much article text is embedded in the
// extraction prompt.
const maxPromptContentLen = 8000

// SentimentAnalyzer extracts a structured sentiment record from one
// article's text using the completion capability.
type SentimentAnalyzer struct {
	completer   interfaces.Completer
	temperature float32
	maxTokens   int
}

// NewSentimentAnalyzer creates a new sentiment analyzer
func NewSentimentAnalyzer(completer interfaces.Completer, cfg *store.Config) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		completer:   completer,
		temperature: cfg.LLM.Extraction.Temperature,
		maxTokens:   cfg.LLM.Extraction.MaxTokens,
	}
}

// AnalyzeArticle analyzes the sentiment of a single article. A nil
// record means the article contributes nothing to the run: the
// completion failed, the response was not valid JSON, or a required
// field was missing. Failures are isolated per article and logged, never
// raised.
func (a *SentimentAnalyzer) AnalyzeArticle(ctx context.Context, text string) *types.SentimentRecord {
	ctx, span := trace.StartSpan(ctx, "analyze-article-sentiment")
	defer span.End()

	out, err := a.completer.Complete(ctx, interfaces.CompletionRequest{
		System:      "You are a cryptocurrency market analyst. Respond ONLY with valid JSON.",
		Prompt:      a.buildPrompt(text),
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Sentiment analysis failed", err)
		return nil
	}

	var raw struct {
		Sentiment  string   `json:"sentiment"`
		Confidence *float64 `json:"confidence"`
		KeyTerms   []string `json:"key_terms"`
		Summary    string   `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		logger.ErrorWithErr(ctx, "Sentiment response is not valid JSON", err, "response_len", len(out))
		return nil
	}

	sentiment := normalizeSentiment(raw.Sentiment)
	if !sentiment.Valid() {
		logger.Warn(ctx, "Sentiment response missing or unknown sentiment", "value", raw.Sentiment)
		return nil
	}
	if len(raw.KeyTerms) == 0 {
		logger.Warn(ctx, "Sentiment response missing key_terms")
		return nil
	}
	if raw.Summary == "" {
		logger.Warn(ctx, "Sentiment response missing summary")
		return nil
	}

	// Only confidence may be absent; it defaults rather than failing the
	// record.
	confidence := 0.5
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}

	return &types.SentimentRecord{
		Sentiment:  sentiment,
		Confidence: confidence,
		KeyTerms:   raw.KeyTerms,
		Summary:    raw.Summary,
	}
}

func (a *SentimentAnalyzer) buildPrompt(text string) string {
	if len(text) > maxPromptContentLen {
		text = text[:maxPromptContentLen] + "..."
	}

	return fmt.Sprintf(`Analyze this cryptocurrency content. Return sentiment (Positive/Neutral/Negative),
confidence score (0-1), 3 key terms, and a 300-word summary.

Respond ONLY with a JSON object with keys "sentiment", "confidence", "key_terms", "summary".

Content:
%s`, text)
}

func normalizeSentiment(v string) types.Sentiment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "positive":
		return types.SentimentPositive
	case "neutral":
		return types.SentimentNeutral
	case "negative":
		return types.SentimentNegative
	}
	return types.Sentiment(v)
}
