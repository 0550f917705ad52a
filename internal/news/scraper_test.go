package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()

	if len(sources) != 3 {
		t.Fatalf("Expected 3 default sources, got %d", len(sources))
	}
	for _, src := range sources {
		if !strings.Contains(src.SearchURL, "{coin}") {
			t.Errorf("Source %s missing {coin} placeholder: %s", src.Name, src.SearchURL)
		}
		if src.Selectors.Item == "" || src.Selectors.Headline == "" {
			t.Errorf("Source %s missing selectors", src.Name)
		}
	}
}

func TestFetchContentExtractsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("q"); got != "bitcoin" {
			t.Errorf("Expected coin in query, got %s", got)
		}
		fmt.Fprint(w, `<html><body>
			<article><h3>Bitcoin rallies past resistance</h3><p>Spot ETF inflows continue.</p></article>
			<article><h3>Miners accumulate</h3><p>Hash rate at record highs.</p></article>
		</body></html>`)
	}))
	defer server.Close()

	scraper := NewScraperWithSources(5*time.Second, []Source{{
		Name:      "TestSource",
		SearchURL: server.URL + "/search?q={coin}",
		Selectors: ArticleSelectors{Item: "article", Headline: "h3", Snippet: "p"},
	}})

	articles, err := scraper.FetchContent(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articles))
	}

	article := articles[0]
	if !strings.Contains(article.Content, "Bitcoin rallies past resistance") {
		t.Errorf("Expected headline in content, got:\n%s", article.Content)
	}
	if !strings.Contains(article.Content, "Hash rate at record highs.") {
		t.Errorf("Expected snippet in content, got:\n%s", article.Content)
	}
	if article.Markdown == "" {
		t.Error("Expected markdown rendering")
	}
	if !strings.Contains(article.Source, "q=bitcoin") {
		t.Errorf("Expected source URL with coin, got %s", article.Source)
	}
}

func TestFetchContentIsolatesSourceFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><article><h3>Only source that works</h3></article></body></html>`)
	}))
	defer server.Close()

	scraper := NewScraperWithSources(2*time.Second, []Source{
		{
			Name:      "Dead",
			SearchURL: "http://127.0.0.1:1/search?q={coin}",
			Selectors: ArticleSelectors{Item: "article", Headline: "h3", Snippet: "p"},
		},
		{
			Name:      "Alive",
			SearchURL: server.URL + "/search?q={coin}",
			Selectors: ArticleSelectors{Item: "article", Headline: "h3", Snippet: "p"},
		},
	})

	articles, err := scraper.FetchContent(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("Expected 1 article from the live source, got %d", len(articles))
	}
	if !strings.Contains(articles[0].Content, "Only source that works") {
		t.Errorf("Unexpected content: %s", articles[0].Content)
	}
}

func TestFetchContentAllSourcesFail(t *testing.T) {
	scraper := NewScraperWithSources(1*time.Second, []Source{{
		Name:      "Dead",
		SearchURL: "http://127.0.0.1:1/search?q={coin}",
		Selectors: ArticleSelectors{Item: "article", Headline: "h3", Snippet: "p"},
	}})

	if _, err := scraper.FetchContent(context.Background(), "bitcoin"); err == nil {
		t.Error("Expected error when every source fails")
	}
}
