package leaderboard

import "sort"

// Rank orders a batch of entries by descending score and assigns dense
// 1-based ranks. The input slice is not mutated; the result is a fresh
// slice of copies.
//
// The sort is stable: entries with equal score and equal reputation keep
// their relative input order.
func Rank(entries []Entry, metric Metric, timeframe Timeframe) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranksBefore(ranked[i], ranked[j], metric, timeframe)
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
