package news

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"crypto-insight/internal/logger"
	"crypto-insight/internal/types"
)

// Scraper fetches crypto news content from multiple sources. It
// implements interfaces.ContentFetcher; the pipeline never sees colly.
type Scraper struct {
	sources   []Source
	timeout   time.Duration
	converter *md.Converter
}

// Source defines one news source searchable by coin name. The {coin}
// placeholder in SearchURL is replaced with the query-escaped coin name.
type Source struct {
	Name      string
	SearchURL string
	Selectors ArticleSelectors
}

// ArticleSelectors defines CSS selectors for extracting article data
type ArticleSelectors struct {
	Item     string // result containers on the search page
	Headline string
	Snippet  string
}

// NewScraper creates a scraper over the default crypto news sources.
func NewScraper(timeout time.Duration) *Scraper {
	return NewScraperWithSources(timeout, DefaultSources())
}

// NewScraperWithSources creates a scraper over a custom source list.
func NewScraperWithSources(timeout time.Duration, sources []Source) *Scraper {
	return &Scraper{
		sources:   sources,
		timeout:   timeout,
		converter: md.NewConverter("", true, nil),
	}
}

// DefaultSources returns the crypto news search pages scraped per coin.
func DefaultSources() []Source {
	return []Source{
		{
			Name:      "CoinDesk",
			SearchURL: "https://www.coindesk.com/search/?s={coin}",
			Selectors: ArticleSelectors{
				Item:     "article, div.searchstory-card",
				Headline: "h2, h3, h4",
				Snippet:  "p",
			},
		},
		{
			Name:      "Cointelegraph",
			SearchURL: "https://cointelegraph.com/search?query={coin}",
			Selectors: ArticleSelectors{
				Item:     "article, li.search-page__item",
				Headline: "h2, h3",
				Snippet:  "p",
			},
		},
		{
			Name:      "GoogleNews",
			SearchURL: "https://news.google.com/search?q={coin}+cryptocurrency",
			Selectors: ArticleSelectors{
				Item:     "article",
				Headline: "h3, h4",
				Snippet:  "p, span",
			},
		},
	}
}

// FetchContent fetches one article of aggregated search-result text per
// source for the given coin. Source failures are isolated: a source that
// cannot be reached or yields nothing contributes no article. An error
// is returned only when every source came up empty.
func (s *Scraper) FetchContent(ctx context.Context, coin string) ([]types.Article, error) {
	logger.Info(ctx, "Starting content fetch", "coin", coin, "sources", len(s.sources))

	articles := make([]types.Article, 0, len(s.sources))
	for _, src := range s.sources {
		article, err := s.fetchSource(ctx, src, coin)
		if err != nil {
			logger.ErrorWithErr(ctx, "Source fetch failed", err, "source", src.Name, "coin", coin)
			continue
		}
		articles = append(articles, article)
	}

	if len(articles) == 0 {
		return nil, errors.New("no content fetched from any source")
	}

	logger.Info(ctx, "Content fetch completed", "coin", coin, "articles", len(articles))
	return articles, nil
}

// fetchSource scrapes one source's search page and flattens the result
// items into a single article.
func (s *Scraper) fetchSource(ctx context.Context, src Source, coin string) (types.Article, error) {
	target := strings.ReplaceAll(src.SearchURL, "{coin}", url.QueryEscape(coin))

	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	var content strings.Builder
	var markdown string

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find(src.Selectors.Item).Each(func(_ int, item *goquery.Selection) {
			headline := strings.TrimSpace(item.Find(src.Selectors.Headline).First().Text())
			snippet := strings.TrimSpace(item.Find(src.Selectors.Snippet).First().Text())

			if headline == "" && snippet == "" {
				return
			}
			if headline != "" {
				content.WriteString(headline)
				content.WriteString("\n")
			}
			if snippet != "" {
				content.WriteString(snippet)
				content.WriteString("\n")
			}
			content.WriteString("\n")
		})

		markdown = s.converter.Convert(e.DOM.Find(src.Selectors.Item))
	})

	if err := c.Visit(target); err != nil {
		return types.Article{}, err
	}
	c.Wait()

	text := strings.TrimSpace(content.String())
	if text == "" {
		return types.Article{}, errors.New("no article text extracted")
	}

	logger.Debug(ctx, "Source scraped", "source", src.Name, "url", target, "chars", len(text))

	return types.Article{
		Source:   target,
		Content:  text,
		Markdown: markdown,
	}, nil
}
