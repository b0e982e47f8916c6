// Package remote provides the HTTP client for the ranked-statistics
// service that backs the leaderboard.
package remote

import (
	"fmt"
	"net/url"
	"time"
)

// Defaults for the client configuration.
const (
	DefaultTimeout  = 5 * time.Second
	DefaultPageSize = 20
)

// Config holds the configuration for the ranked-page client.
type Config struct {
	// BaseURL is the root of the ranked-statistics service,
	// e.g. "https://stats.internal.example.com".
	BaseURL string

	// Timeout bounds each page request.
	Timeout time.Duration

	// PageSize is the fixed page size the backend serves.
	PageSize int
}

// Validate checks that the Config has valid values and fills defaults
// for zero-valued optional fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https (got %q)", c.BaseURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.PageSize < 0 {
		return fmt.Errorf("page size must be >= 0 (got %d)", c.PageSize)
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}

	return nil
}
