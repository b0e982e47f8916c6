package leaderboard

import "errors"

// Engine errors.
var (
	// ErrInvalidFilter indicates an unknown metric or timeframe value.
	ErrInvalidFilter = errors.New("invalid leaderboard filter")

	// ErrUnavailable indicates the remote ranked source failed and
	// synthetic fallback is disabled. It is distinct from "no data
	// exists": the caller should render an explicit unavailable state.
	ErrUnavailable = errors.New("leaderboard unavailable")
)
