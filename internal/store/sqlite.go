package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/courtsource/hooprank/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS season_snapshots (
	season       INTEGER PRIMARY KEY,
	records      TEXT NOT NULL,
	player_count INTEGER NOT NULL,
	fetched_at   DATETIME NOT NULL,
	expires_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS comparisons (
	id         TEXT PRIMARY KEY,
	profile    TEXT NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_season_snapshots_expires_at ON season_snapshots(expires_at);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetSeasonSnapshot(ctx context.Context, season int) (*model.SeasonSnapshot, error) {
	var recordsJSON string
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT records, fetched_at FROM season_snapshots WHERE season = ? AND expires_at > ?`,
		season, time.Now().UTC(),
	).Scan(&recordsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get season snapshot")
	}

	snap := &model.SeasonSnapshot{Season: season, FetchedAt: fetchedAt}
	if err := json.Unmarshal([]byte(recordsJSON), &snap.Records); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal season records")
	}
	return snap, nil
}

func (s *SQLiteStore) SetSeasonSnapshot(ctx context.Context, snap *model.SeasonSnapshot, ttl time.Duration) error {
	recordsJSON, err := json.Marshal(snap.Records)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal season records")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO season_snapshots (season, records, player_count, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(season) DO UPDATE SET
			records = excluded.records,
			player_count = excluded.player_count,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at`,
		snap.Season, string(recordsJSON), len(snap.Records),
		snap.FetchedAt.UTC(), snap.FetchedAt.UTC().Add(ttl),
	)
	return eris.Wrap(err, "sqlite: set season snapshot")
}

func (s *SQLiteStore) ListSeasons(ctx context.Context) ([]SeasonInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT season, player_count, fetched_at, expires_at FROM season_snapshots ORDER BY season`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list seasons")
	}
	defer rows.Close()

	var infos []SeasonInfo
	for rows.Next() {
		var info SeasonInfo
		if err := rows.Scan(&info.Season, &info.Players, &info.FetchedAt, &info.ExpiresAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan season info")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "sqlite: iterate seasons")
}

func (s *SQLiteStore) PurgeSeason(ctx context.Context, season int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM season_snapshots WHERE season = ?`, season)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: purge season")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: purge season rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) DeleteExpiredSnapshots(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM season_snapshots WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired snapshots")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) RecordComparison(ctx context.Context, cmp *model.Comparison) error {
	if cmp.ID == "" {
		cmp.ID = uuid.New().String()
	}
	if cmp.CreatedAt.IsZero() {
		cmp.CreatedAt = time.Now().UTC()
	}
	resultJSON, err := json.Marshal(cmp)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal comparison")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, profile, result, created_at) VALUES (?, ?, ?, ?)`,
		cmp.ID, cmp.Profile, string(resultJSON), cmp.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: record comparison")
}

func (s *SQLiteStore) ListComparisons(ctx context.Context, limit int) ([]model.Comparison, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM comparisons ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list comparisons")
	}
	defer rows.Close()

	var cmps []model.Comparison
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan comparison")
		}
		var cmp model.Comparison
		if err := json.Unmarshal([]byte(resultJSON), &cmp); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal comparison")
		}
		cmps = append(cmps, cmp)
	}
	return cmps, eris.Wrap(rows.Err(), "sqlite: iterate comparisons")
}
