package dataset

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/courtsource/hooprank/internal/model"
)

// Source table column identifiers (basketball-reference data-stat names).
const (
	ColMinutes       = "mp"
	ColPoints        = "pts"
	ColAssists       = "ast"
	ColOffRebounds   = "orb"
	ColDefRebounds   = "drb"
	ColTurnovers     = "tov"
	ColSteals        = "stl"
	ColBlocks        = "blk"
	ColTrueShooting  = "ts_pct"
	ColDefRating     = "def_rtg"
	ColThreePtRate   = "fg3a_per_fga_pct"
	ColFreeThrowRate = "fta_per_fga_pct"
)

// headerArtifact is the literal player-cell value of the repeated header
// rows the source embeds mid-table.
const headerArtifact = "Player"

// Dataset is one season's joined player records, indexed by identity key.
// Read-only once built.
type Dataset struct {
	season  int
	records []model.PlayerSeasonRecord
	byKey   map[string]int
}

// Build joins the advanced table onto the possession table by normalized
// identity. Every possession row is retained; advanced fields are missing
// when no advanced row matches. Counting stats and position come from the
// possession table, efficiency stats from the advanced table when present.
func Build(season int, poss, adv []model.RawRow) *Dataset {
	advByKey := make(map[string]model.RawRow, len(adv))
	for _, row := range adv {
		if row.Name == headerArtifact {
			continue
		}
		key := NormalizeName(row.Name)
		if key == "" {
			continue
		}
		// First occurrence wins; later duplicates (TOT rows, key
		// collisions) are ignored.
		if _, seen := advByKey[key]; !seen {
			advByKey[key] = row
		}
	}

	d := &Dataset{
		season: season,
		byKey:  make(map[string]int, len(poss)),
	}
	for _, row := range poss {
		if row.Name == headerArtifact {
			continue
		}
		key := NormalizeName(row.Name)
		if key == "" {
			continue
		}
		if _, seen := d.byKey[key]; seen {
			continue
		}

		rec := model.PlayerSeasonRecord{
			IdentityKey: key,
			DisplayName: row.Name,
			Team:        row.Team,
			Position:    row.Position,

			MinutesPlayed:     model.ParseStat(row.Cells[ColMinutes]),
			Points:            model.ParseStat(row.Cells[ColPoints]),
			Assists:           model.ParseStat(row.Cells[ColAssists]),
			OffensiveRebounds: model.ParseStat(row.Cells[ColOffRebounds]),
			DefensiveRebounds: model.ParseStat(row.Cells[ColDefRebounds]),
			Turnovers:         model.ParseStat(row.Cells[ColTurnovers]),
			Steals:            model.ParseStat(row.Cells[ColSteals]),
			Blocks:            model.ParseStat(row.Cells[ColBlocks]),
		}

		advRow, matched := advByKey[key]
		rec.TrueShooting = preferCell(advRow.Cells, row.Cells, ColTrueShooting, matched)
		rec.DefensiveRating = preferCell(advRow.Cells, row.Cells, ColDefRating, matched)
		rec.ThreePointRate = preferCell(advRow.Cells, row.Cells, ColThreePtRate, matched)
		rec.FreeThrowRate = preferCell(advRow.Cells, row.Cells, ColFreeThrowRate, matched)
		if rec.Position == "" && matched {
			rec.Position = advRow.Position
		}

		d.byKey[key] = len(d.records)
		d.records = append(d.records, rec)
	}
	return d
}

// preferCell takes the advanced table's value for a shared efficiency
// column, falling back to the possession table's copy of the column.
func preferCell(advCells, possCells map[string]string, col string, matched bool) model.Stat {
	if matched {
		if s := model.ParseStat(advCells[col]); s.Present() {
			return s
		}
	}
	return model.ParseStat(possCells[col])
}

// FromSnapshot rebuilds a Dataset from a cached season snapshot.
func FromSnapshot(snap *model.SeasonSnapshot) *Dataset {
	d := &Dataset{
		season:  snap.Season,
		records: snap.Records,
		byKey:   make(map[string]int, len(snap.Records)),
	}
	for i, rec := range snap.Records {
		if _, seen := d.byKey[rec.IdentityKey]; !seen {
			d.byKey[rec.IdentityKey] = i
		}
	}
	return d
}

// Snapshot captures the dataset for persistence.
func (d *Dataset) Snapshot() *model.SeasonSnapshot {
	return &model.SeasonSnapshot{
		Season:    d.season,
		FetchedAt: time.Now().UTC(),
		Records:   d.records,
	}
}

// Season returns the season this dataset was built for.
func (d *Dataset) Season() int { return d.season }

// Len returns the number of player records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the joined records in source order.
func (d *Dataset) Records() []model.PlayerSeasonRecord { return d.records }

// Lookup resolves a user-entered name against the dataset. The identity
// key collapses case, punctuation, and diacritics; when two players share
// a key, the first row wins.
func (d *Dataset) Lookup(name string) (*model.PlayerSeasonRecord, error) {
	i, ok := d.byKey[NormalizeName(name)]
	if !ok {
		return nil, eris.Wrapf(model.ErrPlayerNotFound, "player %q not found for %d season", name, d.season)
	}
	return &d.records[i], nil
}
