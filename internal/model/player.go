package model

import "time"

// Position is the raw position tag from the source table ("PG", "SG", "SF",
// "PF", "C", or compound tags like "PF-C"). Baseline grouping is by exact
// tag equality; compound tags form their own peer groups.
type Position string

// PositionClass buckets positions for defensive weighting. Different
// positions defend differently, so the defensive sub-rating weights are
// looked up per class.
type PositionClass string

const (
	ClassGuard PositionClass = "guard"
	ClassWing  PositionClass = "wing"
	ClassBig   PositionClass = "big"
)

// Class maps a position tag to its defensive weighting class. Anything
// that is not a pure guard or wing tag falls to the big bucket, matching
// the grouping the formula was tuned against.
func (p Position) Class() PositionClass {
	switch p {
	case "PG", "SG":
		return ClassGuard
	case "SF":
		return ClassWing
	default:
		return ClassBig
	}
}

// RawRow is one already-tabular row from a provider table, keyed by the
// source table's column headers. Numeric cells stay raw strings here;
// coercion to Stat happens in the dataset builder.
type RawRow struct {
	Name     string            `json:"name"`
	Position Position          `json:"position"`
	Team     string            `json:"team"`
	Cells    map[string]string `json:"cells"`
}

// PlayerSeasonRecord is one player's unified statistics for one season,
// assembled by joining the possession and advanced tables.
type PlayerSeasonRecord struct {
	IdentityKey string   `json:"identity_key"`
	DisplayName string   `json:"display_name"`
	Team        string   `json:"team"`
	Position    Position `json:"position"`

	// Possession-table counting stats (per 100 possessions).
	MinutesPlayed     Stat `json:"mp"`
	Points            Stat `json:"pts"`
	Assists           Stat `json:"ast"`
	OffensiveRebounds Stat `json:"orb"`
	DefensiveRebounds Stat `json:"drb"`
	Turnovers         Stat `json:"tov"`
	Steals            Stat `json:"stl"`
	Blocks            Stat `json:"blk"`

	// Advanced-table efficiency stats.
	TrueShooting    Stat `json:"ts_pct"`
	DefensiveRating Stat `json:"drtg"`
	ThreePointRate  Stat `json:"fg3ar"`
	FreeThrowRate   Stat `json:"ftr"`
}

// PositionBaseline holds the mean of each statistic across all players
// sharing one position tag in one season, over non-missing entries only.
// A field is missing when no eligible row carried that statistic.
type PositionBaseline struct {
	Season     int      `json:"season"`
	Position   Position `json:"position"`
	MinMinutes float64  `json:"min_minutes"`
	Players    int      `json:"players"`

	MinutesPlayed     Stat `json:"mp"`
	Points            Stat `json:"pts"`
	Assists           Stat `json:"ast"`
	OffensiveRebounds Stat `json:"orb"`
	DefensiveRebounds Stat `json:"drb"`
	Turnovers         Stat `json:"tov"`
	Steals            Stat `json:"stl"`
	Blocks            Stat `json:"blk"`

	TrueShooting    Stat `json:"ts_pct"`
	DefensiveRating Stat `json:"drtg"`
	ThreePointRate  Stat `json:"fg3ar"`
	FreeThrowRate   Stat `json:"ftr"`
}

// SeasonSnapshot is a cached joined season dataset, persisted by the store
// so repeated ratings within a season reuse one fetch and join.
type SeasonSnapshot struct {
	Season    int                  `json:"season"`
	FetchedAt time.Time            `json:"fetched_at"`
	Records   []PlayerSeasonRecord `json:"records"`
}
