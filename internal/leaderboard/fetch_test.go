package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// stubSource is a PageSource backed by a pre-ranked in-memory board.
// It records every page requested and can fail selected pages.
type stubSource struct {
	mu        sync.Mutex
	board     []Entry // board[i].Rank == i+1
	pagesSeen []int
	failPages map[int]error
	failAll   error
}

func newStubSource(total int) *stubSource {
	board := Rank(SyntheticEntries(total), MetricHelpful, TimeframeAll)
	return &stubSource{board: board, failPages: map[int]error{}}
}

func (s *stubSource) FetchRankedPage(ctx context.Context, metric Metric, timeframe Timeframe, page, pageSize int, locale string) (*RankedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pagesSeen = append(s.pagesSeen, page)
	s.mu.Unlock()

	if s.failAll != nil {
		return nil, s.failAll
	}
	if err := s.failPages[page]; err != nil {
		return nil, err
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(s.board) {
		start = len(s.board)
	}
	if end > len(s.board) {
		end = len(s.board)
	}

	items := make([]Entry, end-start)
	copy(items, s.board[start:end])

	totalPages := (len(s.board) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &RankedPage{
		Items: items,
		PageInfo: PageInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: len(s.board),
		},
	}, nil
}

func (s *stubSource) requested() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.pagesSeen))
	copy(out, s.pagesSeen)
	return out
}

// TestFetchRange_InvalidBounds verifies malformed ranges return empty
// without issuing any request.
func TestFetchRange_InvalidBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"zero start", 0, 5},
		{"zero end", 5, 0},
		{"negative start", -3, 5},
		{"end before start", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newStubSource(100)
			fetcher := NewFetcher(source, nil)

			got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", tt.start, tt.end, 20)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected empty result, got %d entries", len(got))
			}
			if pages := source.requested(); len(pages) != 0 {
				t.Errorf("expected no requests, backend saw pages %v", pages)
			}
		})
	}
}

// TestFetchRange_PageMapping verifies the minimal page cover is requested.
func TestFetchRange_PageMapping(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantPages  map[int]bool
	}{
		{"single page in the middle", 21, 25, map[int]bool{2: true}},
		{"spanning a page boundary", 15, 25, map[int]bool{1: true, 2: true}},
		{"first page only", 1, 20, map[int]bool{1: true}},
		{"exact page boundary", 21, 40, map[int]bool{2: true}},
		{"single rank", 41, 41, map[int]bool{3: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newStubSource(100)
			fetcher := NewFetcher(source, nil)

			got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", tt.start, tt.end, 20)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			pages := source.requested()
			if len(pages) != len(tt.wantPages) {
				t.Fatalf("expected %d requests, got %v", len(tt.wantPages), pages)
			}
			for _, p := range pages {
				if !tt.wantPages[p] {
					t.Errorf("unexpected backend page %d requested", p)
				}
			}

			wantLen := tt.end - tt.start + 1
			if len(got) != wantLen {
				t.Fatalf("expected %d entries, got %d", wantLen, len(got))
			}
			for i, e := range got {
				if e.Rank != tt.start+i {
					t.Errorf("position %d: expected rank %d, got %d", i, tt.start+i, e.Rank)
				}
			}
		})
	}
}

// TestFetchRange_FiltersToWindow verifies entries outside the requested
// ranks are dropped even though whole pages are fetched.
func TestFetchRange_FiltersToWindow(t *testing.T) {
	source := newStubSource(100)
	fetcher := NewFetcher(source, nil)

	got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", 4, 23, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	if got[0].Rank != 4 || got[len(got)-1].Rank != 23 {
		t.Errorf("window bounds [%d, %d], expected [4, 23]", got[0].Rank, got[len(got)-1].Rank)
	}
}

// TestFetchRange_TruncatedTail verifies ranks past the end of the board
// simply come back missing.
func TestFetchRange_TruncatedTail(t *testing.T) {
	source := newStubSource(50)
	fetcher := NewFetcher(source, nil)

	got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", 44, 63, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 7 {
		t.Fatalf("expected 7 entries (ranks 44-50), got %d", len(got))
	}
	if got[len(got)-1].Rank != 50 {
		t.Errorf("expected last rank 50, got %d", got[len(got)-1].Rank)
	}
}

// TestFetchRange_ErrorPropagates verifies a failed page fails the whole
// range fetch.
func TestFetchRange_ErrorPropagates(t *testing.T) {
	wantErr := errors.New("backend down")

	source := newStubSource(100)
	source.failPages[2] = wantErr
	fetcher := NewFetcher(source, nil)

	_, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", 15, 25, 20)
	if err == nil {
		t.Fatal("expected error when one page fetch fails")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

// TestFetchRange_ContextCancelled verifies a cancelled context aborts the
// fetch with the context error.
func TestFetchRange_ContextCancelled(t *testing.T) {
	source := newStubSource(100)
	fetcher := NewFetcher(source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.FetchRange(ctx, MetricActive, TimeframeAll, "", 1, 20, 20)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestFetchRange_ZeroBackendPageSize treats a non-positive backend page
// size as an empty request, not a division by zero.
func TestFetchRange_ZeroBackendPageSize(t *testing.T) {
	source := newStubSource(100)
	fetcher := NewFetcher(source, nil)

	got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", 1, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d entries", len(got))
	}
	if pages := source.requested(); len(pages) != 0 {
		t.Errorf("expected no requests, backend saw pages %v", pages)
	}
}

// TestFetchRange_OrderedAcrossPages verifies merged pages come back
// ordered by rank regardless of fetch completion order.
func TestFetchRange_OrderedAcrossPages(t *testing.T) {
	source := newStubSource(100)
	fetcher := NewFetcher(source, nil)

	for i := 0; i < 10; i++ {
		got, err := fetcher.FetchRange(context.Background(), MetricActive, TimeframeAll, "", 15, 25, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := 1; j < len(got); j++ {
			if got[j].Rank <= got[j-1].Rank {
				t.Fatalf("iteration %d: ranks out of order: %d then %d", i, got[j-1].Rank, got[j].Rank)
			}
		}
	}
}

func ExampleFetcher_FetchRange() {
	source := newStubSource(100)
	fetcher := NewFetcher(source, nil)

	entries, _ := fetcher.FetchRange(context.Background(), MetricHelpful, TimeframeAll, "en", 4, 6, 20)
	for _, e := range entries {
		fmt.Println(e.Rank)
	}
	// Output:
	// 4
	// 5
	// 6
}
