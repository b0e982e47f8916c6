package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PageSource is the remote ranked-data collaborator. Items come back
// pre-ranked by the backend for the requested page; the source performs
// the authoritative global ranking.
type PageSource interface {
	FetchRankedPage(ctx context.Context, metric Metric, timeframe Timeframe, page, pageSize int, locale string) (*RankedPage, error)
}

// Fetcher translates a desired rank range into the minimal set of backend
// page requests and reduces the responses to the exact rank window.
type Fetcher struct {
	source PageSource
	logger *slog.Logger
}

// NewFetcher creates a Fetcher backed by the given page source.
func NewFetcher(source PageSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{source: source, logger: logger}
}

// FetchRange returns the entries whose rank lies within
// [startRank, endRank], ordered ascending by rank.
//
// Malformed bounds (startRank <= 0, endRank <= 0, endRank < startRank)
// are a documented edge case, not an error: the result is empty and no
// request is issued. Request failures propagate to the caller, which owns
// the fallback decision.
//
// The range is covered by at most the two backend pages containing
// startRank and endRank, fetched concurrently. That covers any span with
// endRank-startRank < 2*backendPageSize, which holds for the podium and
// for any single list page; this is not a general-purpose range fetch.
func (f *Fetcher) FetchRange(ctx context.Context, metric Metric, timeframe Timeframe, locale string, startRank, endRank, backendPageSize int) ([]Entry, error) {
	if startRank <= 0 || endRank <= 0 || endRank < startRank || backendPageSize <= 0 {
		return nil, nil
	}

	startPage := (startRank-1)/backendPageSize + 1
	endPage := (endRank-1)/backendPageSize + 1

	pages := []int{startPage}
	if endPage != startPage {
		pages = append(pages, endPage)
	}

	var mu sync.Mutex
	var merged []Entry

	g, gctx := errgroup.WithContext(ctx)
	for _, page := range pages {
		g.Go(func() error {
			resp, err := f.source.FetchRankedPage(gctx, metric, timeframe, page, backendPageSize, locale)
			if err != nil {
				return fmt.Errorf("fetch ranked page %d: %w", page, err)
			}
			mu.Lock()
			merged = append(merged, resp.Items...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	window := merged[:0]
	for _, e := range merged {
		if e.Rank >= startRank && e.Rank <= endRank {
			window = append(window, e)
		}
	}
	sort.Slice(window, func(i, j int) bool { return window[i].Rank < window[j].Rank })

	f.logger.DebugContext(ctx, "fetched rank range",
		slog.Int("start_rank", startRank),
		slog.Int("end_rank", endRank),
		slog.Int("pages", len(pages)),
		slog.Int("entries", len(window)))

	return window, nil
}
