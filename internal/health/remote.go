package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RemoteChecker implements health checking for the remote ranked-data source.
type RemoteChecker struct {
	url    string
	client *http.Client
}

// NewRemoteChecker creates a new checker for the ranked source.
// The url should be the base URL of the source (e.g., "https://reviews.example.com").
func NewRemoteChecker(url string) *RemoteChecker {
	return &RemoteChecker{
		url: url,
		client: &http.Client{
			Timeout: 3 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// HealthCheck verifies the ranked source is reachable. The source exposes
// no dedicated health endpoint, so reachability of the base URL stands in.
func (c *RemoteChecker) HealthCheck(ctx context.Context) error {
	if c.url == "" {
		return fmt.Errorf("remote source url not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ranked source: %w", err)
	}
	defer resp.Body.Close()

	// Only 2xx counts as healthy; other statuses likely indicate the
	// service is unavailable or misconfigured.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ranked source unhealthy: unexpected status code %d", resp.StatusCode)
	}

	return nil
}
