// Package store persists cached season datasets and comparison history.
// Two drivers exist: sqlite (default, zero-setup) and postgres.
package store

import (
	"context"
	"time"

	"github.com/courtsource/hooprank/internal/model"
)

// SeasonInfo summarizes one cached season snapshot.
type SeasonInfo struct {
	Season    int       `json:"season"`
	Players   int       `json:"players"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the persistence interface for the rating service.
type Store interface {
	// Season dataset cache. GetSeasonSnapshot returns (nil, nil) when the
	// season is absent or expired — building a dataset is expensive,
	// querying it is cheap, so snapshots are cached with a TTL and
	// refreshed on expiry.
	GetSeasonSnapshot(ctx context.Context, season int) (*model.SeasonSnapshot, error)
	SetSeasonSnapshot(ctx context.Context, snap *model.SeasonSnapshot, ttl time.Duration) error
	ListSeasons(ctx context.Context) ([]SeasonInfo, error)
	PurgeSeason(ctx context.Context, season int) (bool, error)
	DeleteExpiredSnapshots(ctx context.Context) (int, error)

	// Comparison audit trail.
	RecordComparison(ctx context.Context, cmp *model.Comparison) error
	ListComparisons(ctx context.Context, limit int) ([]model.Comparison, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}
