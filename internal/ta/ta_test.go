package ta

import (
	"errors"
	"math"
	"testing"
	"time"

	"crypto-insight/internal/types"
)

func seriesOf(closes ...float64) types.Series {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(types.Series, 0, len(closes))
	for i, c := range closes {
		s = append(s, types.Candle{
			Ts:    base.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		})
	}
	return s
}

func rising(n int) types.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return seriesOf(closes...)
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}

	if got := SMA(vals, 5); got != 3 {
		t.Errorf("Expected SMA 3, got %f", got)
	}
	if got := SMA(vals, 2); got != 4.5 {
		t.Errorf("Expected SMA 4.5, got %f", got)
	}
	if got := SMA(vals, 6); !math.IsNaN(got) {
		t.Errorf("Expected NaN for insufficient history, got %f", got)
	}
	if got := SMA(vals, 0); !math.IsNaN(got) {
		t.Errorf("Expected NaN for zero window, got %f", got)
	}
}

func TestPctChange(t *testing.T) {
	vals := []float64{100, 110, 121}

	got := PctChange(vals, 2)
	if math.Abs(got-0.21) > 1e-9 {
		t.Errorf("Expected 0.21, got %f", got)
	}

	if got := PctChange(vals, 3); !math.IsNaN(got) {
		t.Errorf("Expected NaN when history shorter than k+1, got %f", got)
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	vals := []float64{100, 100, 100, 100, 100}

	got := Volatility(vals, 3)
	if got != 0 {
		t.Errorf("Expected zero volatility for a flat series, got %f", got)
	}
}

func TestVolatilityInsufficientReturns(t *testing.T) {
	vals := []float64{100, 101, 102}

	// 3 closes give only 2 returns, not enough for a window of 3.
	if got := Volatility(vals, 3); !math.IsNaN(got) {
		t.Errorf("Expected NaN, got %f", got)
	}
}

func TestComputeBullishCrossover(t *testing.T) {
	series := rising(35)

	features, err := Compute(series, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if math.IsNaN(features.SMA7) || math.IsNaN(features.SMA14) {
		t.Fatal("Expected both SMAs defined for a 35-point series")
	}
	if features.SMA7 <= features.SMA14 {
		t.Errorf("Expected SMA7 > SMA14 on a rising series, got %f vs %f", features.SMA7, features.SMA14)
	}
	if features.Signal != types.CrossoverBullish {
		t.Errorf("Expected Bullish signal, got %s", features.Signal)
	}
	if features.CurrentPrice != 134 {
		t.Errorf("Expected current price 134, got %f", features.CurrentPrice)
	}
	if math.IsNaN(features.PriceChange7D) || math.IsNaN(features.PriceChange30) {
		t.Error("Expected both price changes defined for a 35-point series")
	}
}

func TestComputeShortSeriesChanges(t *testing.T) {
	// 14 points: SMAs defined, 30-day change is not.
	features, err := Compute(rising(14), 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.IsNaN(features.PriceChange7D) {
		t.Error("Expected 7-day change defined")
	}
	if !math.IsNaN(features.PriceChange30) {
		t.Errorf("Expected 30-day change undefined, got %f", features.PriceChange30)
	}
}

func TestComputeUnknownCrossover(t *testing.T) {
	// 10 points: SMA7 is defined, SMA14 is not.
	features, err := Compute(rising(10), 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if features.Signal != types.CrossoverUnknown {
		t.Errorf("Expected Unknown signal, got %s", features.Signal)
	}
}

func TestComputeInsufficientData(t *testing.T) {
	_, err := Compute(rising(10), 20)
	if err == nil {
		t.Fatal("Expected error for series shorter than window")
	}

	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("Expected InsufficientDataError, got %T", err)
	}
	if ide.Required != 20 {
		t.Errorf("Expected required 20, got %d", ide.Required)
	}
	if ide.Available != 10 {
		t.Errorf("Expected available 10, got %d", ide.Available)
	}
}

func TestComputeRejectsBadWindow(t *testing.T) {
	if _, err := Compute(rising(10), 0); err == nil {
		t.Error("Expected error for zero window")
	}
}
