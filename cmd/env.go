package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtsource/hooprank/internal/bbref"
	"github.com/courtsource/hooprank/internal/rating"
	"github.com/courtsource/hooprank/internal/service"
	"github.com/courtsource/hooprank/internal/store"
)

// ratingEnv holds the initialized provider, store, profile registry,
// and rating service used by the rate/compare/serve/seasons commands.
type ratingEnv struct {
	Store    store.Store // nil when no store is configured
	Registry *rating.Registry
	Ratings  *service.Ratings
}

// Close releases resources held by the environment.
func (e *ratingEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv builds the bbref client, opens and migrates the configured
// store, loads profiles, and wires the rating service. Callers should
// defer env.Close().
func initEnv(ctx context.Context) (*ratingEnv, error) {
	client := bbref.NewClient(bbref.Options{
		BaseURL:           cfg.Provider.BaseURL,
		UserAgent:         cfg.Provider.UserAgent,
		Timeout:           time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		MaxRetries:        cfg.Provider.MaxRetries,
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
	})

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	registry := rating.NewRegistry()
	if cfg.Rating.ProfilesFile != "" {
		if err := registry.LoadFile(cfg.Rating.ProfilesFile); err != nil {
			if st != nil {
				_ = st.Close()
			}
			return nil, err
		}
		zap.L().Info("loaded extra profiles", zap.String("file", cfg.Rating.ProfilesFile))
	}

	ratings := service.New(client, st, registry, service.Options{
		CacheTTL: time.Duration(cfg.Cache.TTLHours) * time.Hour,
	})

	return &ratingEnv{Store: st, Registry: registry, Ratings: ratings}, nil
}

// initStore opens the configured persistence backend. An empty driver
// means no persistence: season snapshots live only in memory.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "":
		zap.L().Debug("no store driver configured, persistence disabled")
		return nil, nil
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// profileOrDefault resolves the --profile flag against the config default.
func profileOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Rating.Profile
}
