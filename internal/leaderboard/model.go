package leaderboard

import (
	"fmt"
	"strings"
)

// Metric selects which statistics drive the leaderboard score.
type Metric string

const (
	// MetricActive ranks reviewers by review volume.
	MetricActive Metric = "active"
	// MetricHelpful ranks reviewers by reputation and helpful votes.
	MetricHelpful Metric = "helpful"
	// MetricTrending ranks reviewers by a blend of recent activity signals.
	MetricTrending Metric = "trending"
)

// ParseMetric validates and converts a raw string into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricActive:
		return MetricActive, nil
	case MetricHelpful:
		return MetricHelpful, nil
	case MetricTrending:
		return MetricTrending, nil
	}
	return "", fmt.Errorf("%w: metric %q", ErrInvalidFilter, s)
}

// Timeframe selects the statistical time horizon used by the score.
type Timeframe string

const (
	// TimeframeAll uses lifetime counters.
	TimeframeAll Timeframe = "all"
	// TimeframeMonth uses the rolling 30-day counters.
	TimeframeMonth Timeframe = "month"
	// TimeframeWeek uses the rolling 30-day counters scaled to a week.
	TimeframeWeek Timeframe = "week"
)

// ParseTimeframe validates and converts a raw string into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(strings.ToLower(strings.TrimSpace(s))) {
	case TimeframeAll:
		return TimeframeAll, nil
	case TimeframeMonth:
		return TimeframeMonth, nil
	case TimeframeWeek:
		return TimeframeWeek, nil
	}
	return "", fmt.Errorf("%w: timeframe %q", ErrInvalidFilter, s)
}

// Profile identifies a reviewer. Profiles are immutable once fetched.
type Profile struct {
	// Username is unique and lowercase-normalized for lookups.
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// NewProfile builds a Profile with a lowercase-normalized username.
func NewProfile(username, displayName, avatarURL string) Profile {
	return Profile{
		Username:    strings.ToLower(strings.TrimSpace(username)),
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
}

// Stats holds the raw counters a reviewer accumulates. All values are
// non-negative; absent values decode to 0.
type Stats struct {
	ReviewCount  int `json:"review_count"`
	TotalViews   int `json:"total_views"`
	Reputation   int `json:"reputation"`
	HelpfulVotes int `json:"helpful_votes"`

	// Rolling 30-day windows of the counters above.
	RecentReviewCount  int `json:"recent_review_count"`
	RecentHelpfulVotes int `json:"recent_helpful_votes"`
	RecentViews        int `json:"recent_views"`
}

// Entry is one row of a leaderboard. Rank is assigned only by the Ranker
// or carried through from the remote source, never computed upstream of
// either; it is 1-based and dense within a single ranking pass.
type Entry struct {
	Profile Profile  `json:"profile"`
	Stats   Stats    `json:"stats"`
	Rank    int      `json:"rank,omitempty"`
	Badges  []string `json:"badges,omitempty"`
}

// PageInfo describes one paginated window. Pages are 1-indexed and
// TotalPages is never below 1.
type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// RankedPage is one page of pre-ranked entries returned by the remote
// ranked-data source.
type RankedPage struct {
	Items    []Entry  `json:"items"`
	PageInfo PageInfo `json:"page_info"`
}

// RankWindow is the derived pagination geometry for the list portion of a
// leaderboard below the podium. It is computed per request, never stored.
type RankWindow struct {
	// ListTotal is the number of ranked entries below the podium.
	ListTotal int
	// TotalPages is at least 1 even when ListTotal is 0.
	TotalPages int
	// CurrentPage is clamped into [1, TotalPages].
	CurrentPage int
	// ListStartRank and ListEndRank bound the ranks shown on CurrentPage.
	// Both are 0 when ListTotal is 0.
	ListStartRank int
	ListEndRank   int
}

// View is the assembled view-model for one leaderboard request.
type View struct {
	Podium   []Entry  `json:"podium"`
	Entries  []Entry  `json:"entries"`
	PageInfo PageInfo `json:"page_info"`
}

// Request carries all filter state for one leaderboard request. There is
// deliberately no ambient "current page / current filters" state.
type Request struct {
	Metric    Metric
	Timeframe Timeframe
	Page      int
	Locale    string
}
