package rating

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/courtsource/hooprank/internal/model"
)

// Engine computes ratings under one scoring profile. Rate is a pure
// function: identical inputs produce identical outputs, no side effects.
type Engine struct {
	profile Profile
}

// NewEngine validates the profile and returns an engine for it.
func NewEngine(p Profile) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{profile: p}, nil
}

// Profile returns the engine's scoring profile.
func (e *Engine) Profile() Profile { return e.profile }

// Rate computes the offensive and defensive sub-ratings, the minutes
// factor, and their product for one player against their position
// baseline. Results carry full precision; callers round for display.
//
// Any statistic that is missing for the player, and any baseline that is
// missing or zero where it serves as a denominator, fails the whole
// computation with an error naming the statistic — a rating is
// all-or-nothing, never NaN or Inf.
func (e *Engine) Rate(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (*model.RatingResult, error) {
	aor, shooting, err := e.offense(rec, base)
	if err != nil {
		return nil, err
	}
	adr, err := e.defense(rec, base)
	if err != nil {
		return nil, err
	}
	minutes, err := minutesFactor(rec, base)
	if err != nil {
		return nil, err
	}

	mp, _ := rec.MinutesPlayed.Value()
	return &model.RatingResult{
		Player:         rec.DisplayName,
		Season:         base.Season,
		Position:       rec.Position,
		Profile:        e.profile.Name,
		Offensive:      aor,
		Defensive:      adr,
		Composite:      aor * adr * minutes,
		MinutesPlayed:  mp,
		ShootingFactor: shooting,
	}, nil
}

// offense computes the AOR sub-rating and the shooting multiplier.
func (e *Engine) offense(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, float64, error) {
	pos := rec.Position

	ts, err := ratioFactor("true shooting", rec.TrueShooting, base.TrueShooting, pos)
	if err != nil {
		return 0, 0, err
	}
	scoring, err := ratioFactor("points", rec.Points, base.Points, pos)
	if err != nil {
		return 0, 0, err
	}
	creation, err := ratioFactor("assists", rec.Assists, base.Assists, pos)
	if err != nil {
		return 0, 0, err
	}
	orb, err := ratioFactor("offensive rebounds", rec.OffensiveRebounds, base.OffensiveRebounds, pos)
	if err != nil {
		return 0, 0, err
	}
	tov, err := turnoverFactor(rec, base)
	if err != nil {
		return 0, 0, err
	}

	shooting, err := e.shootingMultiplier(rec, base)
	if err != nil {
		return 0, 0, err
	}

	w := e.profile.Offense
	aor := w.TrueShooting*ts +
		w.Scoring*scoring +
		w.Creation*creation +
		w.OffensiveRebound*orb +
		w.Turnover*tov
	aor *= shooting

	if e.profile.AORCeiling > 0 {
		aor = math.Min(aor, e.profile.AORCeiling)
	}
	return aor, shooting, nil
}

// shootingMultiplier blends the 3PAr and FTr ratios per the profile's
// shape, clamped into the profile's bounds so zero-average outliers never
// produce extreme multipliers.
func (e *Engine) shootingMultiplier(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, error) {
	pos := rec.Position
	r3, err := ratioFactor("three-point attempt rate", rec.ThreePointRate, base.ThreePointRate, pos)
	if err != nil {
		return 0, err
	}
	rft, err := ratioFactor("free-throw rate", rec.FreeThrowRate, base.FreeThrowRate, pos)
	if err != nil {
		return 0, err
	}

	cfg := e.profile.Shooting
	var m float64
	switch cfg.Shape {
	case ShapeAdditive:
		m = 1 + ((r3+rft)/2)/2
	default: // ShapeGeometric
		m = math.Sqrt(math.Max(0.01, r3) * math.Max(0.01, rft))
	}
	return clamp(m, cfg.Floor, cfg.Ceiling), nil
}

// defense computes the ADR sub-rating with position-class weights.
func (e *Engine) defense(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, error) {
	pos := rec.Position

	drtg, err := defensiveRatingFactor(rec, base)
	if err != nil {
		return 0, err
	}
	drb, err := ratioFactor("defensive rebounds", rec.DefensiveRebounds, base.DefensiveRebounds, pos)
	if err != nil {
		return 0, err
	}
	stl, err := ratioFactor("steals", rec.Steals, base.Steals, pos)
	if err != nil {
		return 0, err
	}
	blk, err := ratioFactor("blocks", rec.Blocks, base.Blocks, pos)
	if err != nil {
		return 0, err
	}

	caps := e.profile.Caps
	drb = math.Min(drb, caps.DefensiveRebound)
	stl = math.Min(stl, caps.Steal)
	blk = math.Min(blk, caps.Block)

	rim := e.profile.Rim.Block*blk + e.profile.Rim.Rebound*drb

	w := e.profile.Defense[pos.Class()]
	adr := w.DefensiveRating*drtg + w.Steal*stl + w.Rim*rim
	if w.Ceiling > 0 {
		adr = math.Min(adr, w.Ceiling)
	}
	if w.Floor > 0 {
		adr = math.Max(adr, w.Floor)
	}
	return adr, nil
}

// minutesFactor rewards playing the position-average workload, capped at
// 1.0; below-average minutes scale the composite down proportionally.
func minutesFactor(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, error) {
	mp, err := playerValue("minutes played", rec.MinutesPlayed, rec.Position)
	if err != nil {
		return 0, err
	}
	avg, err := baselineValue("minutes played", base.MinutesPlayed, rec.Position)
	if err != nil {
		return 0, err
	}
	return math.Min(1.0, mp/avg), nil
}

// turnoverFactor is inverted (average over player) since fewer turnovers
// is better. Zero player turnovers is exactly neutral, regardless of the
// position average.
func turnoverFactor(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, error) {
	tov, err := playerValue("turnovers", rec.Turnovers, rec.Position)
	if err != nil {
		return 0, err
	}
	if tov == 0 {
		return 1.0, nil
	}
	avg, ok := base.Turnovers.Value()
	if !ok {
		return 0, eris.Wrapf(model.ErrBaselineUndefined,
			"statistic turnovers for position %s: no non-missing values", rec.Position)
	}
	return avg / tov, nil
}

// defensiveRatingFactor is sqrt(average / player): defensive rating is
// inversely scaled (lower is better) and the raw ratio overstates small
// differences.
func defensiveRatingFactor(rec *model.PlayerSeasonRecord, base *model.PositionBaseline) (float64, error) {
	drtg, err := playerValue("defensive rating", rec.DefensiveRating, rec.Position)
	if err != nil {
		return 0, err
	}
	if drtg <= 0 {
		return 0, eris.Wrapf(model.ErrBaselineUndefined,
			"statistic defensive rating for position %s: player value %.2f is not positive", rec.Position, drtg)
	}
	avg, err := baselineValue("defensive rating", base.DefensiveRating, rec.Position)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(avg / drtg), nil
}

// ratioFactor is the common "player over position average" factor. The
// player value must be present and the average present and positive;
// anything else is a named computation error, never Inf or NaN.
func ratioFactor(stat string, player, avg model.Stat, pos model.Position) (float64, error) {
	pv, err := playerValue(stat, player, pos)
	if err != nil {
		return 0, err
	}
	av, err := baselineValue(stat, avg, pos)
	if err != nil {
		return 0, err
	}
	return pv / av, nil
}

func playerValue(stat string, s model.Stat, pos model.Position) (float64, error) {
	v, ok := s.Value()
	if !ok {
		return 0, eris.Wrapf(model.ErrBaselineUndefined,
			"statistic %s for position %s: player value missing", stat, pos)
	}
	return v, nil
}

func baselineValue(stat string, s model.Stat, pos model.Position) (float64, error) {
	v, ok := s.Value()
	if !ok {
		return 0, eris.Wrapf(model.ErrBaselineUndefined,
			"statistic %s for position %s: no non-missing values", stat, pos)
	}
	if v <= 0 {
		return 0, eris.Wrapf(model.ErrBaselineUndefined,
			"statistic %s for position %s: position average %.4f is not a usable denominator", stat, pos, v)
	}
	return v, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
