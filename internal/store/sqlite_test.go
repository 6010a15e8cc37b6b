package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsource/hooprank/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testSnapshot(season int) *model.SeasonSnapshot {
	return &model.SeasonSnapshot{
		Season:    season,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Records: []model.PlayerSeasonRecord{
			{
				IdentityKey:   "nikolajokic",
				DisplayName:   "Nikola Jokić",
				Team:          "DEN",
				Position:      "C",
				MinutesPlayed: model.StatOf(2737),
				Points:        model.StatOf(36.5),
				TrueShooting:  model.StatOf(0.701),
			},
			{
				IdentityKey: "benchguy",
				DisplayName: "Bench Guy",
				Position:    "SG",
				// All stats missing.
			},
		},
	}
}

func TestSQLiteSeasonSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Absent season is (nil, nil), not an error.
	got, err := s.GetSeasonSnapshot(ctx, 2024)
	require.NoError(t, err)
	assert.Nil(t, got)

	snap := testSnapshot(2024)
	require.NoError(t, s.SetSeasonSnapshot(ctx, snap, time.Hour))

	got, err = s.GetSeasonSnapshot(ctx, 2024)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2024, got.Season)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "Nikola Jokić", got.Records[0].DisplayName)
	assert.Equal(t, 36.5, got.Records[0].Points.Or(0))
	// Missing stats survive the round trip as missing.
	assert.False(t, got.Records[1].Points.Present())
}

func TestSQLiteSeasonSnapshotUpsert(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSeasonSnapshot(ctx, testSnapshot(2023), time.Hour))

	updated := testSnapshot(2023)
	updated.Records = updated.Records[:1]
	require.NoError(t, s.SetSeasonSnapshot(ctx, updated, time.Hour))

	got, err := s.GetSeasonSnapshot(ctx, 2023)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Records, 1)
}

func TestSQLiteSnapshotExpiry(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Zero TTL means the snapshot expires at its fetch time.
	require.NoError(t, s.SetSeasonSnapshot(ctx, testSnapshot(2010), 0))

	got, err := s.GetSeasonSnapshot(ctx, 2010)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Expired rows still exist until pruned.
	n, err := s.DeleteExpiredSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.DeleteExpiredSnapshots(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteListSeasons(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSeasonSnapshot(ctx, testSnapshot(2024), time.Hour))
	require.NoError(t, s.SetSeasonSnapshot(ctx, testSnapshot(2000), time.Hour))

	infos, err := s.ListSeasons(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, 2000, infos[0].Season)
	assert.Equal(t, 2024, infos[1].Season)
	assert.Equal(t, 2, infos[0].Players)
	assert.True(t, infos[0].ExpiresAt.After(infos[0].FetchedAt))
}

func TestSQLitePurgeSeason(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSeasonSnapshot(ctx, testSnapshot(2024), time.Hour))

	purged, err := s.PurgeSeason(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, purged)

	purged, err = s.PurgeSeason(ctx, 2024)
	require.NoError(t, err)
	assert.False(t, purged)

	got, err := s.GetSeasonSnapshot(ctx, 2024)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteComparisons(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	cmp := &model.Comparison{
		A:       model.ComparisonSide{Player: "Nikola Jokić", Season: 2024, Result: &model.RatingResult{Composite: 1.412}},
		B:       model.ComparisonSide{Player: "Shaquille O'Neal", Season: 2000, Result: &model.RatingResult{Composite: 1.398}},
		Winner:  "a",
		Profile: "default",
	}
	require.NoError(t, s.RecordComparison(ctx, cmp))
	// ID and timestamp are assigned on insert.
	assert.NotEmpty(t, cmp.ID)
	assert.False(t, cmp.CreatedAt.IsZero())

	second := &model.Comparison{
		A:         model.ComparisonSide{Player: "Luka Dončić", Season: 2024, Err: "player not found"},
		B:         model.ComparisonSide{Player: "Stephen Curry", Season: 2016, Result: &model.RatingResult{Composite: 1.5}},
		Profile:   "qualified",
		CreatedAt: cmp.CreatedAt.Add(time.Second),
	}
	require.NoError(t, s.RecordComparison(ctx, second))

	cmps, err := s.ListComparisons(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cmps, 2)
	// Newest first.
	assert.Equal(t, "qualified", cmps[0].Profile)
	assert.Equal(t, "player not found", cmps[0].A.Err)
	assert.Nil(t, cmps[0].A.Result)
	assert.Equal(t, "a", cmps[1].Winner)
	require.NotNil(t, cmps[1].A.Result)
	assert.Equal(t, 1.412, cmps[1].A.Result.Composite)

	cmps, err = s.ListComparisons(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, cmps, 1)
}
