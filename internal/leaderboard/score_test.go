package leaderboard

import (
	"math"
	"testing"
)

// entryWithStats is a shorthand for building a test entry.
func entryWithStats(s Stats) Entry {
	return Entry{Profile: NewProfile("tester", "", ""), Stats: s}
}

// TestScore_Formulas tests every metric/timeframe scoring combination.
func TestScore_Formulas(t *testing.T) {
	stats := Stats{
		ReviewCount:        80,
		TotalViews:         50000,
		Reputation:         1200,
		HelpfulVotes:       300,
		RecentReviewCount:  10,
		RecentHelpfulVotes: 25,
		RecentViews:        4000,
	}

	tests := []struct {
		name      string
		metric    Metric
		timeframe Timeframe
		expected  float64
	}{
		{
			name:      "active all uses lifetime review count",
			metric:    MetricActive,
			timeframe: TimeframeAll,
			expected:  80,
		},
		{
			name:      "active month uses recent review count",
			metric:    MetricActive,
			timeframe: TimeframeMonth,
			expected:  10,
		},
		{
			name:      "active week scales recent reviews down",
			metric:    MetricActive,
			timeframe: TimeframeWeek,
			expected:  6, // round(10 * 0.6)
		},
		{
			name:      "helpful all blends reputation and votes",
			metric:    MetricHelpful,
			timeframe: TimeframeAll,
			expected:  1245, // 1200 + 300*0.15
		},
		{
			name:      "helpful month uses recent votes",
			metric:    MetricHelpful,
			timeframe: TimeframeMonth,
			expected:  25,
		},
		{
			name:      "helpful week scales recent votes down",
			metric:    MetricHelpful,
			timeframe: TimeframeWeek,
			expected:  15, // round(25 * 0.6)
		},
		{
			name:      "trending all blends recent signals",
			metric:    MetricTrending,
			timeframe: TimeframeAll,
			expected:  135, // 10*4 + 25*0.6 + 4000*0.02
		},
		{
			name:      "trending month matches all",
			metric:    MetricTrending,
			timeframe: TimeframeMonth,
			expected:  135,
		},
		{
			name:      "trending week dampens the blend",
			metric:    MetricTrending,
			timeframe: TimeframeWeek,
			expected:  94.5, // 135 * 0.7
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(entryWithStats(stats), tt.metric, tt.timeframe)
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestScore_WeekRounding checks the rounding behavior of the scaled week scores.
func TestScore_WeekRounding(t *testing.T) {
	tests := []struct {
		name     string
		recent   int
		expected float64
	}{
		{"rounds down", 10, 6},  // 6.0
		{"rounds up", 11, 7},    // 6.6
		{"half rounds up", 5, 3}, // 3.0
		{"zero stays zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entryWithStats(Stats{RecentReviewCount: tt.recent})
			got := Score(e, MetricActive, TimeframeWeek)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestScore_NegativeStatsClamped verifies malformed negative counters
// score as zero instead of producing negative scores.
func TestScore_NegativeStatsClamped(t *testing.T) {
	e := entryWithStats(Stats{
		ReviewCount:        -5,
		Reputation:         -10,
		HelpfulVotes:       -2,
		RecentReviewCount:  -7,
		RecentHelpfulVotes: -1,
		RecentViews:        -300,
	})

	for _, metric := range []Metric{MetricActive, MetricHelpful, MetricTrending} {
		for _, timeframe := range []Timeframe{TimeframeAll, TimeframeMonth, TimeframeWeek} {
			if got := Score(e, metric, timeframe); got != 0 {
				t.Errorf("Score(%s, %s) = %v, expected 0", metric, timeframe, got)
			}
		}
	}
}

// TestScore_ZeroValueEntry checks that an entry with absent stats scores zero.
func TestScore_ZeroValueEntry(t *testing.T) {
	var e Entry
	if got := Score(e, MetricTrending, TimeframeAll); got != 0 {
		t.Errorf("expected 0 for zero-value entry, got %v", got)
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		input   string
		want    Metric
		wantErr bool
	}{
		{"active", MetricActive, false},
		{"helpful", MetricHelpful, false},
		{"trending", MetricTrending, false},
		{" Trending ", MetricTrending, false},
		{"", "", true},
		{"views", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMetric(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		input   string
		want    Timeframe
		wantErr bool
	}{
		{"all", TimeframeAll, false},
		{"month", TimeframeMonth, false},
		{"WEEK", TimeframeWeek, false},
		{"day", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeframe(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
