package news

import (
	"context"
	"sync"
	"time"

	"crypto-insight/internal/interfaces"
	"crypto-insight/internal/logger"
	"crypto-insight/internal/store"
	"crypto-insight/internal/types"
)

// Service fetches news content for a coin and turns it into per-article
// sentiment records plus an aggregate distribution, with per-coin caching.
type Service struct {
	fetcher  interfaces.ContentFetcher
	analyzer *SentimentAnalyzer
	cache    *sentimentCache
	cfg      *ServiceConfig
}

// ServiceConfig configures the news sentiment service
type ServiceConfig struct {
	MaxArticles   int           // Maximum articles analyzed per coin
	CacheDuration time.Duration // How long to cache sentiment results
	Enabled       bool          // Whether sentiment analysis is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:   9,
		CacheDuration: 1 * time.Hour,
		Enabled:       true,
	}
}

// ServiceConfigFrom maps the repo config onto a service configuration.
func ServiceConfigFrom(cfg *store.Config) *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:   cfg.News.MaxArticles,
		CacheDuration: time.Duration(cfg.News.CacheMinutes) * time.Minute,
		Enabled:       cfg.News.Enabled,
	}
}

// Result is everything sentiment analysis produces for one coin.
type Result struct {
	Articles []types.Article
	Records  []types.SentimentRecord
	Dist     types.Distribution
}

// sentimentCache stores per-coin results temporarily
type sentimentCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	result    *Result
	timestamp time.Time
}

func newSentimentCache(ttl time.Duration) *sentimentCache {
	cache := &sentimentCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *sentimentCache) get(coin string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[coin]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

func (c *sentimentCache) set(coin string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[coin] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
}

func (c *sentimentCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *sentimentCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for coin, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, coin)
		}
	}
}

// NewService creates a news sentiment service over the given content
// fetcher and completion capability.
func NewService(fetcher interfaces.ContentFetcher, completer interfaces.Completer, botCfg *store.Config, serviceCfg *ServiceConfig) *Service {
	if serviceCfg == nil {
		serviceCfg = DefaultServiceConfig()
	}

	return &Service{
		fetcher:  fetcher,
		analyzer: NewSentimentAnalyzer(completer, botCfg),
		cache:    newSentimentCache(serviceCfg.CacheDuration),
		cfg:      serviceCfg,
	}
}

// Analyze fetches content for a coin and extracts sentiment per article,
// one task per article with a barrier gather. Articles whose extraction
// fails contribute nothing; they never abort the run.
func (s *Service) Analyze(ctx context.Context, coin string) (*Result, error) {
	if !s.cfg.Enabled {
		logger.Info(ctx, "Sentiment analysis disabled", "coin", coin)
		return &Result{Dist: types.Distribution{}}, nil
	}

	if cached, ok := s.cache.get(coin); ok {
		logger.Info(ctx, "Using cached sentiment", "coin", coin)
		return cached, nil
	}

	articles, err := s.fetcher.FetchContent(ctx, coin)
	if err != nil {
		return nil, err
	}
	if len(articles) > s.cfg.MaxArticles {
		articles = articles[:s.cfg.MaxArticles]
	}

	logger.Info(ctx, "Analyzing article sentiment", "coin", coin, "articles", len(articles))

	// Fan out one extraction per article; failed slots stay nil.
	results := make([]*types.SentimentRecord, len(articles))
	var wg sync.WaitGroup
	for i, article := range articles {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			results[i] = s.analyzer.AnalyzeArticle(ctx, text)
		}(i, article.Content)
	}
	wg.Wait()

	records := make([]types.SentimentRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	result := &Result{
		Articles: articles,
		Records:  records,
		Dist:     Aggregate(records),
	}

	logger.Info(ctx, "Sentiment analysis completed", "coin", coin,
		"analyzed", len(records), "failed", len(articles)-len(records))

	s.cache.set(coin, result)
	return result, nil
}

// ClearCache removes all cached sentiment results
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedCoins returns the coins with cached sentiment results
func (s *Service) CachedCoins() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	coins := make([]string, 0, len(s.cache.data))
	for coin := range s.cache.data {
		coins = append(coins, coin)
	}
	return coins
}
