package leaderboard

import (
	"context"
	"fmt"
)

// Synthetic dataset shape. The multipliers are primes so consecutive
// indexes spread across the value ranges instead of rising monotonically.
const (
	syntheticReviewSpread  = 240
	syntheticViewSpread    = 90000
	syntheticRepSpread     = 4800
	syntheticVoteSpread    = 1900
	syntheticRecentReviews = 46
	syntheticRecentVotes   = 320
	syntheticRecentViews   = 21000
)

// SyntheticEntries generates a deterministic dataset of count entries for
// the fallback path. Every value is a pure function of the entry index;
// there is no runtime randomness, so repeated calls (including concurrent
// ones) produce identical data.
func SyntheticEntries(count int) []Entry {
	if count <= 0 {
		return nil
	}

	entries := make([]Entry, count)
	for i := range entries {
		n := i + 1
		entries[i] = Entry{
			Profile: NewProfile(
				fmt.Sprintf("reviewer%03d", n),
				fmt.Sprintf("Reviewer %d", n),
				"",
			),
			Stats: Stats{
				ReviewCount:        12 + (n*37)%syntheticReviewSpread,
				TotalViews:         500 + (n*911)%syntheticViewSpread,
				Reputation:         20 + (n*53)%syntheticRepSpread,
				HelpfulVotes:       (n * 29) % syntheticVoteSpread,
				RecentReviewCount:  (n * 7) % syntheticRecentReviews,
				RecentHelpfulVotes: (n * 13) % syntheticRecentVotes,
				RecentViews:        (n * 349) % syntheticRecentViews,
			},
		}
	}
	return entries
}

// SyntheticSource is a PageSource backed by the synthetic dataset. It
// lets the service run without a remote ranked source, for example in
// demos and local development.
type SyntheticSource struct {
	total int
}

// NewSyntheticSource creates a source holding total synthetic reviewers.
func NewSyntheticSource(total int) *SyntheticSource {
	if total < 0 {
		total = 0
	}
	return &SyntheticSource{total: total}
}

// FetchRankedPage serves one ranked page of the synthetic dataset. The
// whole dataset is ranked per call; the dataset is small enough that
// caching would buy nothing.
func (s *SyntheticSource) FetchRankedPage(ctx context.Context, metric Metric, timeframe Timeframe, page, pageSize int, locale string) (*RankedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page and page size must be positive", ErrInvalidFilter)
	}

	ranked := Rank(SyntheticEntries(s.total), metric, timeframe)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}

	totalPages := (len(ranked) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &RankedPage{
		Items: ranked[start:end],
		PageInfo: PageInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: len(ranked),
		},
	}, nil
}
