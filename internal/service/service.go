// Package service orchestrates the rating flow: season dataset acquisition
// (memoized), player lookup, baselines, and the rating engine.
package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/courtsource/hooprank/internal/dataset"
	"github.com/courtsource/hooprank/internal/model"
	"github.com/courtsource/hooprank/internal/rating"
	"github.com/courtsource/hooprank/internal/store"
)

// Provider produces the two raw season tables. The bbref client is the
// production implementation.
type Provider interface {
	FetchPossessionTable(ctx context.Context, season int) ([]model.RawRow, error)
	FetchAdvancedTable(ctx context.Context, season int) ([]model.RawRow, error)
}

// Options configures the rating service.
type Options struct {
	// CacheTTL bounds how long a persisted season snapshot stays fresh.
	CacheTTL time.Duration
}

// Ratings is the core-facing service consumed by the CLI and HTTP
// presentation layers.
type Ratings struct {
	provider Provider
	store    store.Store // nil disables persistence
	registry *rating.Registry
	ttl      time.Duration

	mu    sync.RWMutex
	memo  map[int]*dataset.Dataset
	group singleflight.Group
}

// New creates a Ratings service. store may be nil, in which case season
// datasets are memoized in process only.
func New(provider Provider, st store.Store, registry *rating.Registry, opts Options) *Ratings {
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Ratings{
		provider: provider,
		store:    st,
		registry: registry,
		ttl:      ttl,
		memo:     make(map[int]*dataset.Dataset),
	}
}

// Registry exposes the profile registry for presentation layers.
func (r *Ratings) Registry() *rating.Registry { return r.registry }

// Dataset returns the joined dataset for a season, from the in-process
// memo, then the store cache, then a fresh fetch+join. Concurrent requests
// for the same season share one build.
func (r *Ratings) Dataset(ctx context.Context, season int) (*dataset.Dataset, error) {
	r.mu.RLock()
	if d, ok := r.memo[season]; ok {
		r.mu.RUnlock()
		return d, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(strconv.Itoa(season), func() (any, error) {
		return r.buildDataset(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dataset.Dataset), nil
}

func (r *Ratings) buildDataset(ctx context.Context, season int) (*dataset.Dataset, error) {
	if r.store != nil {
		snap, err := r.store.GetSeasonSnapshot(ctx, season)
		if err != nil {
			zap.L().Warn("season cache read failed, refetching",
				zap.Int("season", season),
				zap.Error(err),
			)
		} else if snap != nil {
			d := dataset.FromSnapshot(snap)
			r.remember(season, d)
			zap.L().Debug("season dataset from cache",
				zap.Int("season", season),
				zap.Int("players", d.Len()),
			)
			return d, nil
		}
	}

	var poss, adv []model.RawRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		poss, err = r.provider.FetchPossessionTable(gctx, season)
		return err
	})
	g.Go(func() error {
		var err error
		adv, err = r.provider.FetchAdvancedTable(gctx, season)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := dataset.Build(season, poss, adv)
	zap.L().Info("season dataset built",
		zap.Int("season", season),
		zap.Int("players", d.Len()),
	)

	if r.store != nil {
		if err := r.store.SetSeasonSnapshot(ctx, d.Snapshot(), r.ttl); err != nil {
			zap.L().Warn("season cache write failed",
				zap.Int("season", season),
				zap.Error(err),
			)
		}
	}
	r.remember(season, d)
	return d, nil
}

func (r *Ratings) remember(season int, d *dataset.Dataset) {
	r.mu.Lock()
	r.memo[season] = d
	r.mu.Unlock()
}

// Invalidate drops a season from the in-process memo and the store cache.
func (r *Ratings) Invalidate(ctx context.Context, season int) error {
	r.mu.Lock()
	delete(r.memo, season)
	r.mu.Unlock()
	if r.store == nil {
		return nil
	}
	_, err := r.store.PurgeSeason(ctx, season)
	return err
}

// Rate computes the rating for one (player, season) under the named
// profile (empty = default). Fails with ErrFetchFailed, ErrPlayerNotFound,
// or ErrBaselineUndefined; no partial results.
func (r *Ratings) Rate(ctx context.Context, player string, season int, profileName string) (*model.RatingResult, error) {
	profile, err := r.registry.Lookup(profileName)
	if err != nil {
		return nil, err
	}
	engine, err := rating.NewEngine(profile)
	if err != nil {
		return nil, err
	}

	d, err := r.Dataset(ctx, season)
	if err != nil {
		return nil, err
	}
	rec, err := d.Lookup(player)
	if err != nil {
		return nil, err
	}
	base, err := d.Baseline(rec.Position, profile.MinMinutes)
	if err != nil {
		return nil, err
	}

	result, err := engine.Rate(rec, base)
	if err != nil {
		return nil, err
	}
	zap.L().Info("rated player",
		zap.String("player", rec.DisplayName),
		zap.Int("season", season),
		zap.String("profile", profile.Name),
		zap.Float64("tar", result.Rounded().Composite),
	)
	return result, nil
}

// Compare rates two (player, season) pairs concurrently under one profile.
// One side failing does not abort the other; per-side errors land in the
// comparison, and the winner is decided only when both sides succeeded.
// The outcome is recorded to the store when one is configured.
func (r *Ratings) Compare(ctx context.Context, playerA string, seasonA int, playerB string, seasonB int, profileName string) (*model.Comparison, error) {
	profile, err := r.registry.Lookup(profileName)
	if err != nil {
		return nil, err
	}

	cmp := &model.Comparison{
		A:         model.ComparisonSide{Player: playerA, Season: seasonA},
		B:         model.ComparisonSide{Player: playerB, Season: seasonB},
		Profile:   profile.Name,
		CreatedAt: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	rateSide := func(side *model.ComparisonSide) {
		defer wg.Done()
		res, err := r.Rate(ctx, side.Player, side.Season, profile.Name)
		if err != nil {
			side.Err = eris.ToString(err, false)
			return
		}
		side.Result = res
	}
	wg.Add(2)
	go rateSide(&cmp.A)
	go rateSide(&cmp.B)
	wg.Wait()

	cmp.Decide()

	if r.store != nil {
		if err := r.store.RecordComparison(ctx, cmp); err != nil {
			zap.L().Warn("failed to record comparison", zap.Error(err))
		}
	}
	return cmp, nil
}
