package dataset

import (
	"github.com/rotisserie/eris"

	"github.com/courtsource/hooprank/internal/model"
)

// statField pairs a record accessor with a baseline setter so the mean
// loop stays table-driven.
type statField struct {
	get func(*model.PlayerSeasonRecord) model.Stat
	set func(*model.PositionBaseline, model.Stat)
}

var statFields = []statField{
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.MinutesPlayed },
		func(b *model.PositionBaseline, s model.Stat) { b.MinutesPlayed = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.Points },
		func(b *model.PositionBaseline, s model.Stat) { b.Points = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.Assists },
		func(b *model.PositionBaseline, s model.Stat) { b.Assists = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.OffensiveRebounds },
		func(b *model.PositionBaseline, s model.Stat) { b.OffensiveRebounds = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.DefensiveRebounds },
		func(b *model.PositionBaseline, s model.Stat) { b.DefensiveRebounds = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.Turnovers },
		func(b *model.PositionBaseline, s model.Stat) { b.Turnovers = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.Steals },
		func(b *model.PositionBaseline, s model.Stat) { b.Steals = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.Blocks },
		func(b *model.PositionBaseline, s model.Stat) { b.Blocks = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.TrueShooting },
		func(b *model.PositionBaseline, s model.Stat) { b.TrueShooting = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.DefensiveRating },
		func(b *model.PositionBaseline, s model.Stat) { b.DefensiveRating = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.ThreePointRate },
		func(b *model.PositionBaseline, s model.Stat) { b.ThreePointRate = s }},
	{func(r *model.PlayerSeasonRecord) model.Stat { return r.FreeThrowRate },
		func(b *model.PositionBaseline, s model.Stat) { b.FreeThrowRate = s }},
}

// Baseline computes the mean of each statistic over all players whose
// position tag exactly equals pos. Grouping is strict: compound tags like
// "PF-C" form their own group. minMinutes > 0 restricts the group to
// players with known minutes above the floor.
//
// Means are over non-missing entries only; a statistic with zero
// non-missing entries stays missing in the result, and any rating that
// needs it fails. An empty group is ErrBaselineUndefined immediately.
func (d *Dataset) Baseline(pos model.Position, minMinutes float64) (*model.PositionBaseline, error) {
	var group []*model.PlayerSeasonRecord
	for i := range d.records {
		rec := &d.records[i]
		if rec.Position != pos {
			continue
		}
		if minMinutes > 0 {
			mp, ok := rec.MinutesPlayed.Value()
			if !ok || mp < minMinutes {
				continue
			}
		}
		group = append(group, rec)
	}
	if len(group) == 0 {
		return nil, eris.Wrapf(model.ErrBaselineUndefined,
			"position %s in %d season: no qualifying players (min minutes %.0f)", pos, d.season, minMinutes)
	}

	b := &model.PositionBaseline{
		Season:     d.season,
		Position:   pos,
		MinMinutes: minMinutes,
		Players:    len(group),
	}
	for _, f := range statFields {
		var sum float64
		var n int
		for _, rec := range group {
			if v, ok := f.get(rec).Value(); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			f.set(b, model.MissingStat())
			continue
		}
		f.set(b, model.StatOf(sum/float64(n)))
	}
	return b, nil
}
