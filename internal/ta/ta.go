package ta

import (
	"fmt"
	"math"

	"crypto-insight/internal/types"
)

// SMA windows are fixed and independent of the caller-supplied
// volatility window.
const (
	FastSMAWindow = 7
	SlowSMAWindow = 14
)

// InsufficientDataError reports that a series is too short for the
// requested window.
type InsufficientDataError struct {
	Required  int
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d rows, have %d", e.Required, e.Available)
}

// SMA returns the trailing-window mean of the last n values, or NaN when
// fewer than n values exist.
func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// StdDev returns the standard deviation of the last n values, or NaN when
// fewer than n values exist.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// PctChange returns the fractional change between the latest value and the
// value k periods earlier, or NaN when fewer than k+1 periods exist.
func PctChange(vals []float64, k int) float64 {
	if k <= 0 || len(vals) < k+1 {
		return math.NaN()
	}
	prev := vals[len(vals)-1-k]
	if prev == 0 {
		return math.NaN()
	}
	return (vals[len(vals)-1] - prev) / prev
}

// Returns computes period-over-period fractional changes. The result has
// len(vals)-1 entries.
func Returns(vals []float64) []float64 {
	if len(vals) < 2 {
		return nil
	}
	out := make([]float64, 0, len(vals)-1)
	for i := 1; i < len(vals); i++ {
		if vals[i-1] == 0 {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, (vals[i]-vals[i-1])/vals[i-1])
	}
	return out
}

// Volatility returns the standard deviation of period-over-period
// fractional changes over a trailing window, evaluated at the latest
// point. NaN when the series is too short to fill the window.
func Volatility(closes []float64, window int) float64 {
	return StdDev(Returns(closes), window)
}

// CrossoverSignal compares fast and slow SMAs at the latest point.
// Unknown when either is undefined or the two are equal.
func CrossoverSignal(fast, slow float64) types.Crossover {
	switch {
	case math.IsNaN(fast) || math.IsNaN(slow):
		return types.CrossoverUnknown
	case fast > slow:
		return types.CrossoverBullish
	case fast < slow:
		return types.CrossoverBearish
	default:
		return types.CrossoverUnknown
	}
}

// Compute derives the full technical feature set for the latest point of
// a series. window governs only the volatility calculation; the SMA pair
// always uses the fixed 7/14 windows. Pure function of its inputs.
func Compute(series types.Series, window int) (types.FeatureSet, error) {
	if window < 1 {
		return types.FeatureSet{}, fmt.Errorf("window must be at least 1, got %d", window)
	}
	if len(series) < window {
		return types.FeatureSet{}, &InsufficientDataError{Required: window, Available: len(series)}
	}

	closes := series.Closes()
	sma7 := SMA(closes, FastSMAWindow)
	sma14 := SMA(closes, SlowSMAWindow)

	return types.FeatureSet{
		CurrentPrice:  closes[len(closes)-1],
		SMA7:          sma7,
		SMA14:         sma14,
		Signal:        CrossoverSignal(sma7, sma14),
		PriceChange7D: PctChange(closes, 7),
		PriceChange30: PctChange(closes, 30),
		Volatility:    Volatility(closes, window),
		VolWindow:     window,
	}, nil
}
