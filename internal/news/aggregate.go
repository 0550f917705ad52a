package news

import "crypto-insight/internal/types"

// Aggregate reduces a batch of sentiment records into a normalized
// distribution over the categories present. Empty input yields an empty
// distribution, not an error; callers treat that as insufficient signal
// and must not attempt percentage math against it.
func Aggregate(records []types.SentimentRecord) types.Distribution {
	dist := types.Distribution{}
	if len(records) == 0 {
		return dist
	}

	counts := map[types.Sentiment]int{}
	for _, r := range records {
		counts[r.Sentiment]++
	}

	total := float64(len(records))
	for sentiment, count := range counts {
		dist[sentiment] = float64(count) / total
	}
	return dist
}
