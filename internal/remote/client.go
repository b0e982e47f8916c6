package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hasancaglar07/usercomments-sub003/internal/leaderboard"
)

// ErrUnexpectedStatus indicates the backend answered with a non-2xx
// status code.
var ErrUnexpectedStatus = errors.New("ranked source returned unexpected status")

// Client fetches pre-ranked leaderboard pages from the ranked-statistics
// service. It implements leaderboard.PageSource.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a ranked-page client with the given configuration.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// FetchRankedPage requests one page of pre-ranked entries for the given
// metric and timeframe. The backend performs the authoritative global
// ranking; items come back with rank already populated.
func (c *Client) FetchRankedPage(ctx context.Context, metric leaderboard.Metric, timeframe leaderboard.Timeframe, page, pageSize int, locale string) (*leaderboard.RankedPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1 (got %d)", page)
	}
	if pageSize < 1 {
		pageSize = c.config.PageSize
	}

	q := url.Values{}
	q.Set("metric", string(metric))
	q.Set("timeframe", string(timeframe))
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if locale != "" {
		q.Set("locale", locale)
	}

	endpoint := c.config.BaseURL + "/v1/leaderboard?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build ranked page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ranked source unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var rankedPage leaderboard.RankedPage
	if err := json.NewDecoder(resp.Body).Decode(&rankedPage); err != nil {
		return nil, fmt.Errorf("decode ranked page: %w", err)
	}

	c.logger.DebugContext(ctx, "fetched ranked page",
		slog.String("metric", string(metric)),
		slog.String("timeframe", string(timeframe)),
		slog.Int("page", page),
		slog.Int("items", len(rankedPage.Items)),
		slog.Duration("latency", time.Since(start)))

	return &rankedPage, nil
}
