package types

import (
	"math"
	"time"
)

// Candle is one OHLC period. Ts carries millisecond precision from the
// market data source.
type Candle struct {
	Ts                     time.Time `json:"timestamp"`
	Open, High, Low, Close float64
}

// Series is a price series ordered by ascending timestamp.
type Series []Candle

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Latest returns the most recent candle, or a zero candle for an empty series.
func (s Series) Latest() Candle {
	if len(s) == 0 {
		return Candle{}
	}
	return s[len(s)-1]
}

// Sentiment is the categorical label assigned to one article.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Valid reports whether s is one of the three known categories.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// SentimentRecord is the structured result of analyzing one article.
// Immutable once produced; a failed extraction yields no record at all.
type SentimentRecord struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	KeyTerms   []string  `json:"key_terms"`
	Summary    string    `json:"summary"`
}

// Distribution maps each sentiment category present in a batch to its
// fraction of the batch. Fractions over present categories sum to 1.
type Distribution map[Sentiment]float64

// Crossover is the SMA trend signal.
type Crossover string

const (
	CrossoverBullish Crossover = "Bullish"
	CrossoverBearish Crossover = "Bearish"
	CrossoverUnknown Crossover = "Unknown"
)

// FeatureSet holds the derived technical features for the latest point of
// a series. Change and volatility fields are NaN when there is not enough
// history to compute them.
type FeatureSet struct {
	CurrentPrice  float64   `json:"current_price"`
	SMA7          float64   `json:"sma_7"`
	SMA14         float64   `json:"sma_14"`
	Signal        Crossover `json:"crossover_signal"`
	PriceChange7D float64   `json:"price_change_7d"`
	PriceChange30 float64   `json:"price_change_30d"`
	Volatility    float64   `json:"volatility"`
	VolWindow     int       `json:"volatility_window"`
}

// Article is one piece of fetched news content.
type Article struct {
	Source   string `json:"source"`
	Content  string `json:"content"`
	Markdown string `json:"markdown,omitempty"`
}

// Forecast is the tagged result of insight synthesis: either generated
// text or a failure reason, never both.
type Forecast struct {
	Text string `json:"text,omitempty"`
	Err  string `json:"error,omitempty"`
}

// OK reports whether the forecast carries generated text.
func (f Forecast) OK() bool { return f.Err == "" }

// Message returns the displayable string for the presentation layer.
func (f Forecast) Message() string {
	if f.Err != "" {
		return f.Err
	}
	return f.Text
}

// Report is everything one analysis run hands to the presentation shell,
// as plain values with no framework types attached.
type Report struct {
	Coin       string            `json:"coin"`
	Currency   string            `json:"currency"`
	Series     Series            `json:"series"`
	Features   *FeatureSet       `json:"features,omitempty"`
	Articles   []Article         `json:"articles"`
	Sentiments []SentimentRecord `json:"sentiments"`
	Dist       Distribution      `json:"sentiment_distribution"`
	Forecast   Forecast          `json:"forecast"`
}

// PositiveShare returns the fraction of positively classified articles,
// zero when no sentiment signal exists.
func (r *Report) PositiveShare() float64 {
	if v, ok := r.Dist[SentimentPositive]; ok && !math.IsNaN(v) {
		return v
	}
	return 0
}
