package model

import "errors"

// Sentinel errors for the rating flow. Call sites wrap these with eris for
// context; callers classify with errors.Is / eris.Is.
var (
	// ErrFetchFailed means the provider could not produce a season table.
	ErrFetchFailed = errors.New("season fetch failed")

	// ErrPlayerNotFound means the normalized identity has no row in the
	// joined season dataset.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrBaselineUndefined means a required position-statistic baseline
	// has no eligible data, or a ratio denominator is zero or missing.
	// Wrapped messages name the statistic and position.
	ErrBaselineUndefined = errors.New("baseline undefined")
)
