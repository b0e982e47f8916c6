package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hasancaglar07/usercomments-sub003/internal/tracing"
)

// Defaults for the assembler configuration.
const (
	DefaultPodiumSize      = 3
	DefaultPageSize        = 20
	DefaultBackendPageSize = 20
	DefaultMaxRanks        = 100
)

// Config holds the sizing and fallback policy for the Assembler.
type Config struct {
	// PodiumSize is the fixed top slice shown distinctly from the list.
	PodiumSize int
	// PageSize is the size of one list page below the podium.
	PageSize int
	// BackendPageSize is the fixed page size of the remote ranked source.
	BackendPageSize int
	// MaxRanks caps how deep the leaderboard goes regardless of how many
	// entries the remote source reports.
	MaxRanks int
	// AllowSyntheticFallback controls whether a remote failure falls back
	// to the deterministic synthetic dataset instead of surfacing
	// ErrUnavailable.
	AllowSyntheticFallback bool
}

// Validate checks that the Config has valid values.
func (c Config) Validate() error {
	if c.PodiumSize < 0 {
		return fmt.Errorf("PodiumSize must be >= 0 (got %d)", c.PodiumSize)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PageSize must be > 0 (got %d)", c.PageSize)
	}
	if c.BackendPageSize <= 0 {
		return fmt.Errorf("BackendPageSize must be > 0 (got %d)", c.BackendPageSize)
	}
	if c.MaxRanks <= 0 {
		return fmt.Errorf("MaxRanks must be > 0 (got %d)", c.MaxRanks)
	}
	// A list page must fit inside the two-page covering strategy of the
	// Fetcher (see Fetcher.FetchRange).
	if c.PageSize >= 2*c.BackendPageSize {
		return fmt.Errorf("PageSize must be < 2*BackendPageSize (got %d >= %d)", c.PageSize, 2*c.BackendPageSize)
	}
	return nil
}

// DefaultConfig returns the production sizing with fallback disabled.
func DefaultConfig() Config {
	return Config{
		PodiumSize:      DefaultPodiumSize,
		PageSize:        DefaultPageSize,
		BackendPageSize: DefaultBackendPageSize,
		MaxRanks:        DefaultMaxRanks,
	}
}

// podiumBadges decorates the top three ranks.
var podiumBadges = map[int][]string{
	1: {"crown", "flame", "gem"},
	2: {"flame", "star"},
	3: {"gem", "bolt"},
}

// Assembler produces the full leaderboard view-model for one request. It
// holds no mutable state; every request is computed from scratch.
type Assembler struct {
	source  PageSource
	fetcher *Fetcher
	config  Config
	metrics *Metrics
	logger  *slog.Logger
}

// NewAssembler creates an Assembler over the given page source. metrics
// may be nil to disable instrumentation.
func NewAssembler(source PageSource, config Config, metrics *Metrics, logger *slog.Logger) (*Assembler, error) {
	if source == nil {
		return nil, fmt.Errorf("page source is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assembler config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		source:  source,
		fetcher: NewFetcher(source, logger),
		config:  config,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Assemble produces the podium and one list page for the requested
// metric, timeframe and page.
//
// It first attempts the remote source. On any remote error it either
// switches to the synthetic dataset (when the config permits) or returns
// an error wrapping ErrUnavailable. A single remote failure is terminal
// for the request; there is no retry loop.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*View, error) {
	start := time.Now()
	if a.metrics != nil {
		a.metrics.IncRequests(req.Metric, req.Timeframe)
		defer func() {
			a.metrics.ObserveAssemblyDuration(time.Since(start).Seconds())
		}()
	}

	view, err := a.assembleRemote(ctx, req)
	if err == nil {
		return view, nil
	}
	// Context cancellation means the caller abandoned the request; the
	// fallback would be wasted work on a response nobody reads.
	if ctx.Err() != nil {
		return nil, err
	}

	if a.metrics != nil {
		a.metrics.IncRemoteFailures()
	}
	if !a.config.AllowSyntheticFallback {
		a.logger.ErrorContext(ctx, "remote leaderboard fetch failed",
			slog.String("metric", string(req.Metric)),
			slog.String("timeframe", string(req.Timeframe)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	a.logger.WarnContext(ctx, "remote leaderboard fetch failed, serving synthetic data",
		slog.String("metric", string(req.Metric)),
		slog.String("timeframe", string(req.Timeframe)),
		slog.String("error", err.Error()))
	if a.metrics != nil {
		a.metrics.IncSyntheticFallbacks()
	}
	return a.assembleSynthetic(req), nil
}

// assembleRemote runs the live path: podium fetch, window plan, list
// fetch. The podium request doubles as the source of the reported total,
// so the window can be planned without an extra round trip.
func (a *Assembler) assembleRemote(ctx context.Context, req Request) (view *View, err error) {
	ctx, endSpan := tracing.StartRemoteSpan(ctx, "leaderboard.podium")
	podiumPage, err := a.source.FetchRankedPage(ctx, req.Metric, req.Timeframe, 1, a.config.PodiumSize, req.Locale)
	endSpan(err)
	if err != nil {
		return nil, fmt.Errorf("fetch podium: %w", err)
	}

	topCount := podiumPage.PageInfo.TotalItems
	if topCount > a.config.MaxRanks {
		topCount = a.config.MaxRanks
	}

	win := PlanWindow(topCount, req.Page, a.config.PageSize, a.config.PodiumSize)

	var list []Entry
	if win.ListTotal > 0 {
		ctx, endSpan := tracing.StartRemoteSpan(ctx, "leaderboard.list")
		list, err = a.fetcher.FetchRange(ctx, req.Metric, req.Timeframe, req.Locale,
			win.ListStartRank, win.ListEndRank, a.config.BackendPageSize)
		endSpan(err)
		if err != nil {
			return nil, fmt.Errorf("fetch list page %d: %w", win.CurrentPage, err)
		}
	}

	podium := make([]Entry, 0, a.config.PodiumSize)
	for _, e := range podiumPage.Items {
		if e.Rank >= 1 && e.Rank <= a.config.PodiumSize {
			e.Badges = podiumBadges[e.Rank]
			podium = append(podium, e)
		}
	}

	return a.buildView(podium, list, win), nil
}

// assembleSynthetic runs the fallback path entirely locally: generate the
// deterministic dataset, rank it, and slice out the same shapes the
// remote path produces. No I/O is involved.
func (a *Assembler) assembleSynthetic(req Request) *View {
	ranked := Rank(SyntheticEntries(a.config.MaxRanks), req.Metric, req.Timeframe)

	win := PlanWindow(len(ranked), req.Page, a.config.PageSize, a.config.PodiumSize)

	podiumEnd := a.config.PodiumSize
	if podiumEnd > len(ranked) {
		podiumEnd = len(ranked)
	}
	podium := make([]Entry, podiumEnd)
	copy(podium, ranked[:podiumEnd])
	for i := range podium {
		podium[i].Badges = podiumBadges[podium[i].Rank]
	}

	var list []Entry
	if win.ListTotal > 0 {
		list = make([]Entry, win.ListEndRank-win.ListStartRank+1)
		copy(list, ranked[win.ListStartRank-1:win.ListEndRank])
	}

	return a.buildView(podium, list, win)
}

func (a *Assembler) buildView(podium, list []Entry, win RankWindow) *View {
	if podium == nil {
		podium = []Entry{}
	}
	if list == nil {
		list = []Entry{}
	}
	return &View{
		Podium:  podium,
		Entries: list,
		PageInfo: PageInfo{
			Page:       win.CurrentPage,
			PageSize:   a.config.PageSize,
			TotalPages: win.TotalPages,
			TotalItems: win.ListTotal,
		},
	}
}
