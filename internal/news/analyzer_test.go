package news

import (
	"context"
	"testing"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/store"
	"crypto-insight/internal/types"
)

// stubCompleter returns a canned response or error and records the last
// request it received.
type stubCompleter struct {
	response string
	err      error
	lastReq  interfaces.CompletionRequest
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	return s.response, s.err
}

func newTestAnalyzer(completer interfaces.Completer) *SentimentAnalyzer {
	cfg := &store.Config{}
	cfg.LLM.Extraction.Temperature = 0.3
	cfg.LLM.Extraction.MaxTokens = 4000
	return NewSentimentAnalyzer(completer, cfg)
}

func TestAnalyzeArticle(t *testing.T) {
	stub := &stubCompleter{
		response: `{"sentiment":"Positive","confidence":0.9,"key_terms":["etf","rally","adoption"],"summary":"Strong inflows."}`,
	}
	analyzer := newTestAnalyzer(stub)

	record := analyzer.AnalyzeArticle(context.Background(), "some article text")
	if record == nil {
		t.Fatal("Expected a sentiment record")
	}

	if record.Sentiment != types.SentimentPositive {
		t.Errorf("Expected Positive, got %s", record.Sentiment)
	}
	if record.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", record.Confidence)
	}
	if len(record.KeyTerms) != 3 {
		t.Errorf("Expected 3 key terms, got %d", len(record.KeyTerms))
	}
	if record.Summary != "Strong inflows." {
		t.Errorf("Unexpected summary: %s", record.Summary)
	}

	if !stub.lastReq.JSONMode {
		t.Error("Expected JSON mode requested")
	}
	if stub.lastReq.Temperature != 0.3 {
		t.Errorf("Expected temperature 0.3, got %f", stub.lastReq.Temperature)
	}
}

func TestAnalyzeArticleDefaultsConfidence(t *testing.T) {
	stub := &stubCompleter{
		response: `{"sentiment":"Negative","key_terms":["hack","exploit","loss"],"summary":"Exchange compromised."}`,
	}
	analyzer := newTestAnalyzer(stub)

	record := analyzer.AnalyzeArticle(context.Background(), "text")
	if record == nil {
		t.Fatal("Expected a sentiment record")
	}
	if record.Confidence != 0.5 {
		t.Errorf("Expected default confidence 0.5, got %f", record.Confidence)
	}
}

func TestAnalyzeArticleUnparseableResponse(t *testing.T) {
	stub := &stubCompleter{response: "I think the market looks bullish overall."}
	analyzer := newTestAnalyzer(stub)

	if record := analyzer.AnalyzeArticle(context.Background(), "text"); record != nil {
		t.Errorf("Expected nil record for unparseable response, got %+v", record)
	}
}

func TestAnalyzeArticleMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"missing sentiment": `{"confidence":0.8,"key_terms":["a","b","c"],"summary":"s"}`,
		"unknown sentiment": `{"sentiment":"Confused","confidence":0.8,"key_terms":["a"],"summary":"s"}`,
		"missing key_terms": `{"sentiment":"Neutral","confidence":0.8,"summary":"s"}`,
		"missing summary":   `{"sentiment":"Neutral","confidence":0.8,"key_terms":["a","b","c"]}`,
	}

	for name, response := range cases {
		stub := &stubCompleter{response: response}
		analyzer := newTestAnalyzer(stub)

		if record := analyzer.AnalyzeArticle(context.Background(), "text"); record != nil {
			t.Errorf("%s: expected nil record, got %+v", name, record)
		}
	}
}

func TestAnalyzeArticleCompletionFailure(t *testing.T) {
	stub := &stubCompleter{err: context.DeadlineExceeded}
	analyzer := newTestAnalyzer(stub)

	if record := analyzer.AnalyzeArticle(context.Background(), "text"); record != nil {
		t.Errorf("Expected nil record on completion failure, got %+v", record)
	}
}

func TestAnalyzeArticleLowercaseSentiment(t *testing.T) {
	stub := &stubCompleter{
		response: `{"sentiment":"positive","confidence":0.7,"key_terms":["a","b","c"],"summary":"s"}`,
	}
	analyzer := newTestAnalyzer(stub)

	record := analyzer.AnalyzeArticle(context.Background(), "text")
	if record == nil {
		t.Fatal("Expected a sentiment record")
	}
	if record.Sentiment != types.SentimentPositive {
		t.Errorf("Expected normalized Positive, got %s", record.Sentiment)
	}
}
