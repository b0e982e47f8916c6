package leaderboard

import "math"

// Score weights for the helpful and trending metrics.
const (
	helpfulVoteWeight    = 0.15
	weeklyScale          = 0.6
	trendingReviewWeight = 4.0
	trendingVoteWeight   = 0.6
	trendingViewWeight   = 0.02
	trendingWeekDamping  = 0.7
)

// clampStat treats negative inputs as 0. Upstream counters are defined as
// non-negative, so negatives only appear on malformed data.
func clampStat(n int) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}

// Score computes the ranking score for one entry under the given metric
// and timeframe. It is deterministic and side-effect-free.
//
// The week timeframe has no dedicated counters upstream; it is derived by
// scaling the 30-day counters down to a 7-day estimate.
func Score(e Entry, metric Metric, timeframe Timeframe) float64 {
	switch metric {
	case MetricActive:
		switch timeframe {
		case TimeframeMonth:
			return clampStat(e.Stats.RecentReviewCount)
		case TimeframeWeek:
			return math.Round(clampStat(e.Stats.RecentReviewCount) * weeklyScale)
		default:
			return clampStat(e.Stats.ReviewCount)
		}

	case MetricHelpful:
		switch timeframe {
		case TimeframeMonth:
			return clampStat(e.Stats.RecentHelpfulVotes)
		case TimeframeWeek:
			return math.Round(clampStat(e.Stats.RecentHelpfulVotes) * weeklyScale)
		default:
			return clampStat(e.Stats.Reputation) + clampStat(e.Stats.HelpfulVotes)*helpfulVoteWeight
		}

	case MetricTrending:
		score := clampStat(e.Stats.RecentReviewCount)*trendingReviewWeight +
			clampStat(e.Stats.RecentHelpfulVotes)*trendingVoteWeight +
			clampStat(e.Stats.RecentViews)*trendingViewWeight
		if timeframe == TimeframeWeek {
			score *= trendingWeekDamping
		}
		return score
	}

	return 0
}

// ranksBefore reports whether a should be ordered ahead of b under the
// given metric and timeframe. Equal scores break ties on reputation;
// entries still tied after that keep their input order (callers must use
// a stable sort).
func ranksBefore(a, b Entry, metric Metric, timeframe Timeframe) bool {
	sa, sb := Score(a, metric, timeframe), Score(b, metric, timeframe)
	if sa != sb {
		return sa > sb
	}
	return a.Stats.Reputation > b.Stats.Reputation
}
