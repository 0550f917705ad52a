package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Analysis struct {
		Coin             string `yaml:"coin"`
		Currency         string `yaml:"currency"`
		Days             int    `yaml:"days"`
		VolatilityWindow int    `yaml:"volatility_window"`
	} `yaml:"analysis"`
	Market struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheMinutes   int    `yaml:"cache_minutes"`
	} `yaml:"market"`
	News struct {
		Enabled        bool     `yaml:"enabled"`
		MaxArticles    int      `yaml:"max_articles"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		CacheMinutes   int      `yaml:"cache_minutes"`
		Sources        []string `yaml:"sources"`
	} `yaml:"news"`
	LLM struct {
		Provider   string `yaml:"provider"`
		Model      string `yaml:"model"`
		Extraction struct {
			Temperature float32 `yaml:"temperature"`
			MaxTokens   int     `yaml:"max_tokens"`
		} `yaml:"extraction"`
		Synthesis struct {
			Temperature float32 `yaml:"temperature"`
			MaxTokens   int     `yaml:"max_tokens"`
		} `yaml:"synthesis"`
	} `yaml:"llm"`
}

func (c *Config) Validate() error {
	if c.Analysis.Coin == "" {
		return fmt.Errorf("analysis.coin cannot be empty")
	}
	if c.Analysis.Days <= 0 {
		return fmt.Errorf("analysis.days must be positive, got %d", c.Analysis.Days)
	}
	if c.Analysis.VolatilityWindow <= 0 {
		return fmt.Errorf("analysis.volatility_window must be positive, got %d", c.Analysis.VolatilityWindow)
	}
	switch strings.ToUpper(c.LLM.Provider) {
	case "GROQ", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("llm.provider must be 'GROQ', 'CLAUDE', or 'NOOP', got '%s'", c.LLM.Provider)
	}
	if c.LLM.Extraction.Temperature < 0 || c.LLM.Extraction.Temperature > 2 {
		return fmt.Errorf("llm.extraction.temperature must be between 0-2, got %.2f", c.LLM.Extraction.Temperature)
	}
	if c.LLM.Synthesis.Temperature < 0 || c.LLM.Synthesis.Temperature > 2 {
		return fmt.Errorf("llm.synthesis.temperature must be between 0-2, got %.2f", c.LLM.Synthesis.Temperature)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Analysis.Coin == "" {
		c.Analysis.Coin = "bitcoin"
	}
	if c.Analysis.Currency == "" {
		c.Analysis.Currency = "usd"
	}
	if c.Analysis.Days == 0 {
		c.Analysis.Days = 30
	}
	if c.Analysis.VolatilityWindow == 0 {
		c.Analysis.VolatilityWindow = c.Analysis.Days
	}
	if c.Market.BaseURL == "" {
		c.Market.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Market.TimeoutSeconds == 0 {
		c.Market.TimeoutSeconds = 15
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 9
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama-3.1-8b-instant"
	}
	if c.LLM.Extraction.Temperature == 0 {
		c.LLM.Extraction.Temperature = 0.3
	}
	if c.LLM.Extraction.MaxTokens == 0 {
		c.LLM.Extraction.MaxTokens = 4000
	}
	if c.LLM.Synthesis.Temperature == 0 {
		c.LLM.Synthesis.Temperature = 0.5
	}
	if c.LLM.Synthesis.MaxTokens == 0 {
		c.LLM.Synthesis.MaxTokens = 5000
	}
}
