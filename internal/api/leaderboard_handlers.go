// Package api provides HTTP API handlers for the leaderboard service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hasancaglar07/usercomments-sub003/internal/leaderboard"
	"github.com/hasancaglar07/usercomments-sub003/internal/middleware"
)

// ViewAssembler builds a leaderboard view for a request. Satisfied by
// leaderboard.Assembler; handlers depend on the interface for testability.
type ViewAssembler interface {
	Assemble(ctx context.Context, req leaderboard.Request) (*leaderboard.View, error)
}

// LeaderboardHandlers holds dependencies for leaderboard HTTP handlers.
type LeaderboardHandlers struct {
	assembler ViewAssembler
	logger    *slog.Logger
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(assembler ViewAssembler, logger *slog.Logger) *LeaderboardHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{
		assembler: assembler,
		logger:    logger,
	}
}

// maxLocaleLength bounds the locale tag passed through to the ranked source.
const maxLocaleLength = 35

// GetLeaderboard handles GET /leaderboard.
//
// Query parameters:
//   - metric: one of "active", "helpful", "trending" (default "active")
//   - timeframe: one of "all", "month", "week" (default "all")
//   - page: 1-based page number (default 1; out-of-range values are clamped)
//   - locale: optional BCP 47 tag forwarded to the ranked source
func (h *LeaderboardHandlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	query := r.URL.Query()

	metric, err := parseMetricParam(query.Get("metric"))
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation,
			"metric must be one of: active, helpful, trending")
		return
	}

	timeframe, err := parseTimeframeParam(query.Get("timeframe"))
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation,
			"timeframe must be one of: all, month, week")
		return
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "page must be an integer")
			return
		}
		// Out-of-range pages are clamped downstream, not rejected.
		page = parsed
	}

	locale := strings.TrimSpace(query.Get("locale"))
	if len(locale) > maxLocaleLength {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "locale tag too long")
		return
	}

	view, err := h.assembler.Assemble(r.Context(), leaderboard.Request{
		Metric:    metric,
		Timeframe: timeframe,
		Page:      page,
		Locale:    locale,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away; nothing useful to write.
			h.logger.DebugContext(r.Context(), "leaderboard request cancelled", "error", err)
			return
		}
		if errors.Is(err, leaderboard.ErrUnavailable) {
			ctx := middleware.SetErrorCode(r.Context(), ErrCodeUnavailable)
			WriteError(w, ctx, http.StatusServiceUnavailable, ErrCodeUnavailable,
				"Ranked data source is unavailable")
			return
		}
		h.logger.ErrorContext(r.Context(), "leaderboard assembly failed", "error", err)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode leaderboard response", "error", err)
	}
}

// parseMetricParam maps the metric query parameter to a Metric, defaulting
// to MetricActive when absent.
func parseMetricParam(raw string) (leaderboard.Metric, error) {
	if raw == "" {
		return leaderboard.MetricActive, nil
	}
	return leaderboard.ParseMetric(raw)
}

// parseTimeframeParam maps the timeframe query parameter to a Timeframe,
// defaulting to TimeframeAll when absent.
func parseTimeframeParam(raw string) (leaderboard.Timeframe, error) {
	if raw == "" {
		return leaderboard.TimeframeAll, nil
	}
	return leaderboard.ParseTimeframe(raw)
}
