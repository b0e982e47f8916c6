// Package leaderboard implements the ranking and windowed retrieval engine
// behind the community leaderboard page.
//
// The engine is composed of small, independently testable pieces:
//
//	// Pure scoring for one entry
//	score := leaderboard.Score(entry, leaderboard.MetricHelpful, leaderboard.TimeframeMonth)
//
//	// Rank a locally held batch
//	ranked := leaderboard.Rank(entries, leaderboard.MetricActive, leaderboard.TimeframeAll)
//
//	// Plan the paginated window below the podium
//	win := leaderboard.PlanWindow(topCount, requestedPage, pageSize, podiumSize)
//
//	// Assemble the full view for one request
//	view, err := assembler.Assemble(ctx, leaderboard.Request{
//		Metric:    leaderboard.MetricTrending,
//		Timeframe: leaderboard.TimeframeWeek,
//		Page:      2,
//	})
//
// The remote ranked-page source is consumed through the PageSource
// interface so the Assembler and Fetcher can be tested with a stub
// collaborator. Each request is a pure function of its inputs plus one
// round of remote fetches; nothing is cached between requests.
//
// When the remote source fails and synthetic fallback is enabled, the
// Assembler generates a deterministic index-seeded dataset and ranks it
// locally, producing the same output shape with no I/O.
package leaderboard
