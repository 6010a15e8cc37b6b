package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/courtsource/hooprank/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS season_snapshots (
	season       INTEGER PRIMARY KEY,
	records      JSONB NOT NULL,
	player_count INTEGER NOT NULL,
	fetched_at   TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	id         UUID PRIMARY KEY,
	profile    TEXT NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_season_snapshots_expires_at ON season_snapshots(expires_at);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetSeasonSnapshot(ctx context.Context, season int) (*model.SeasonSnapshot, error) {
	var recordsJSON []byte
	var fetchedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT records, fetched_at FROM season_snapshots WHERE season = $1 AND expires_at > now()`,
		season,
	).Scan(&recordsJSON, &fetchedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get season snapshot")
	}

	snap := &model.SeasonSnapshot{Season: season, FetchedAt: fetchedAt}
	if err := json.Unmarshal(recordsJSON, &snap.Records); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal season records")
	}
	return snap, nil
}

func (s *PostgresStore) SetSeasonSnapshot(ctx context.Context, snap *model.SeasonSnapshot, ttl time.Duration) error {
	recordsJSON, err := json.Marshal(snap.Records)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal season records")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO season_snapshots (season, records, player_count, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (season) DO UPDATE SET
			records = EXCLUDED.records,
			player_count = EXCLUDED.player_count,
			fetched_at = EXCLUDED.fetched_at,
			expires_at = EXCLUDED.expires_at`,
		snap.Season, recordsJSON, len(snap.Records),
		snap.FetchedAt.UTC(), snap.FetchedAt.UTC().Add(ttl),
	)
	return eris.Wrap(err, "postgres: set season snapshot")
}

func (s *PostgresStore) ListSeasons(ctx context.Context) ([]SeasonInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT season, player_count, fetched_at, expires_at FROM season_snapshots ORDER BY season`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list seasons")
	}
	defer rows.Close()

	var infos []SeasonInfo
	for rows.Next() {
		var info SeasonInfo
		if err := rows.Scan(&info.Season, &info.Players, &info.FetchedAt, &info.ExpiresAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan season info")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "postgres: iterate seasons")
}

func (s *PostgresStore) PurgeSeason(ctx context.Context, season int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM season_snapshots WHERE season = $1`, season)
	if err != nil {
		return false, eris.Wrap(err, "postgres: purge season")
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) DeleteExpiredSnapshots(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM season_snapshots WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired snapshots")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) RecordComparison(ctx context.Context, cmp *model.Comparison) error {
	if cmp.ID == "" {
		cmp.ID = uuid.New().String()
	}
	if cmp.CreatedAt.IsZero() {
		cmp.CreatedAt = time.Now().UTC()
	}
	resultJSON, err := json.Marshal(cmp)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal comparison")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO comparisons (id, profile, result, created_at) VALUES ($1, $2, $3, $4)`,
		cmp.ID, cmp.Profile, resultJSON, cmp.CreatedAt,
	)
	return eris.Wrap(err, "postgres: record comparison")
}

func (s *PostgresStore) ListComparisons(ctx context.Context, limit int) ([]model.Comparison, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT result FROM comparisons ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list comparisons")
	}
	defer rows.Close()

	var cmps []model.Comparison
	for rows.Next() {
		var resultJSON []byte
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan comparison")
		}
		var cmp model.Comparison
		if err := json.Unmarshal(resultJSON, &cmp); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal comparison")
		}
		cmps = append(cmps, cmp)
	}
	return cmps, eris.Wrap(rows.Err(), "postgres: iterate comparisons")
}
