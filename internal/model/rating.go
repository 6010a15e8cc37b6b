package model

import (
	"math"
	"time"
)

// RatingResult is the output of one rating computation. Values are kept at
// full precision; Rounded produces the 3-decimal display form. Immutable
// once computed.
type RatingResult struct {
	Player   string   `json:"player"`
	Season   int      `json:"season"`
	Position Position `json:"position"`
	Profile  string   `json:"profile"`

	Offensive      float64 `json:"aor"`
	Defensive      float64 `json:"adr"`
	Composite      float64 `json:"tar"`
	MinutesPlayed  float64 `json:"mp"`
	ShootingFactor float64 `json:"shooting_factor"`
}

// Rounded returns a copy with ratings rounded to 3 decimal places and
// minutes to 1, the display convention.
func (r RatingResult) Rounded() RatingResult {
	out := r
	out.Offensive = round3(r.Offensive)
	out.Defensive = round3(r.Defensive)
	out.Composite = round3(r.Composite)
	out.ShootingFactor = round3(r.ShootingFactor)
	out.MinutesPlayed = math.Round(r.MinutesPlayed*10) / 10
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ComparisonSide is one half of a two-player comparison. Err is set when
// that side's rating failed; the other side still reports.
type ComparisonSide struct {
	Player string        `json:"player"`
	Season int           `json:"season"`
	Result *RatingResult `json:"result,omitempty"`
	Err    string        `json:"error,omitempty"`
}

// Comparison is the outcome of comparing two (player, season) pairs.
// Winner is "a", "b", "tie", or "" when either side failed.
type Comparison struct {
	ID        string         `json:"id"`
	A         ComparisonSide `json:"a"`
	B         ComparisonSide `json:"b"`
	Winner    string         `json:"winner,omitempty"`
	Profile   string         `json:"profile"`
	CreatedAt time.Time      `json:"created_at"`
}

// Decide sets Winner from the two sides' composite ratings. Both sides
// must have succeeded for a winner to be declared.
func (c *Comparison) Decide() {
	if c.A.Result == nil || c.B.Result == nil {
		c.Winner = ""
		return
	}
	a, b := c.A.Result.Rounded().Composite, c.B.Result.Rounded().Composite
	switch {
	case a > b:
		c.Winner = "a"
	case b > a:
		c.Winner = "b"
	default:
		c.Winner = "tie"
	}
}
