// Package rating implements the Total Adjusted Rating engine: a pure
// function from one player's season record and their position baseline to
// offensive, defensive, and composite ratings. Every weight, cap, and
// formula shape lives in a named Profile so prior formula tunings stay
// reproducible.
package rating

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/courtsource/hooprank/internal/model"
)

// ShootingShape selects how the shooting-volume multiplier blends the
// three-point-attempt-rate and free-throw-rate ratios.
type ShootingShape string

const (
	// ShapeGeometric is sqrt(r3 * rft), each ratio floored at 0.01.
	ShapeGeometric ShootingShape = "geometric"
	// ShapeAdditive is 1 + mean(r3, rft)/2.
	ShapeAdditive ShootingShape = "additive"
)

// OffenseWeights are the linear weights of the offensive sub-rating.
// They must sum to 1.
type OffenseWeights struct {
	TrueShooting     float64 `yaml:"true_shooting"`
	Scoring          float64 `yaml:"scoring"`
	Creation         float64 `yaml:"creation"`
	OffensiveRebound float64 `yaml:"offensive_rebound"`
	Turnover         float64 `yaml:"turnover"`
}

func (w OffenseWeights) sum() float64 {
	return w.TrueShooting + w.Scoring + w.Creation + w.OffensiveRebound + w.Turnover
}

// ShootingConfig bounds the shooting-volume multiplier.
type ShootingConfig struct {
	Shape   ShootingShape `yaml:"shape"`
	Floor   float64       `yaml:"floor"`
	Ceiling float64       `yaml:"ceiling"`
}

// FactorCaps are the upper bounds on the defensive ratio factors.
type FactorCaps struct {
	DefensiveRebound float64 `yaml:"defensive_rebound"`
	Steal            float64 `yaml:"steal"`
	Block            float64 `yaml:"block"`
}

// RimBlend composes the rim-impact factor from the block and
// defensive-rebound factors.
type RimBlend struct {
	Block   float64 `yaml:"block"`
	Rebound float64 `yaml:"rebound"`
}

// DefenseWeights are one position class's defensive weights. They must sum
// to 1. Ceiling and Floor clamp the sub-rating; zero means no clamp.
type DefenseWeights struct {
	DefensiveRating float64 `yaml:"defensive_rating"`
	Steal           float64 `yaml:"steal"`
	Rim             float64 `yaml:"rim"`
	Ceiling         float64 `yaml:"ceiling"`
	Floor           float64 `yaml:"floor"`
}

func (w DefenseWeights) sum() float64 {
	return w.DefensiveRating + w.Steal + w.Rim
}

// Profile is one named, versioned formula configuration.
type Profile struct {
	Name string `yaml:"name"`

	// MinMinutes restricts baseline groups to players above this
	// minutes floor. Zero means no floor.
	MinMinutes float64 `yaml:"min_minutes"`

	Offense  OffenseWeights `yaml:"offense"`
	Shooting ShootingConfig `yaml:"shooting"`

	// AORCeiling hard-caps the offensive sub-rating. Zero means no cap.
	AORCeiling float64 `yaml:"aor_ceiling"`

	Caps    FactorCaps                            `yaml:"caps"`
	Rim     RimBlend                              `yaml:"rim"`
	Defense map[model.PositionClass]DefenseWeights `yaml:"defense"`
}

// DefaultProfile reproduces the reference formula: geometric shooting
// multiplier in [0.85, 1.30], guard ceiling 1.05, big floor 0.95, no
// minutes qualification.
func DefaultProfile() Profile {
	return Profile{
		Name: "default",
		Offense: OffenseWeights{
			TrueShooting:     0.30,
			Scoring:          0.30,
			Creation:         0.20,
			OffensiveRebound: 0.10,
			Turnover:         0.10,
		},
		Shooting: ShootingConfig{Shape: ShapeGeometric, Floor: 0.85, Ceiling: 1.30},
		Caps:     FactorCaps{DefensiveRebound: 1.6, Steal: 1.5, Block: 1.7},
		Rim:      RimBlend{Block: 0.65, Rebound: 0.35},
		Defense: map[model.PositionClass]DefenseWeights{
			model.ClassGuard: {DefensiveRating: 0.55, Steal: 0.35, Rim: 0.10, Ceiling: 1.05},
			model.ClassWing:  {DefensiveRating: 0.45, Steal: 0.30, Rim: 0.25},
			model.ClassBig:   {DefensiveRating: 0.40, Steal: 0.15, Rim: 0.45, Floor: 0.95},
		},
	}
}

// QualifiedProfile is the stricter observed variant: 500-minute baseline
// floor, additive shooting boost in [0.80, 1.40], a 2.2 AOR ceiling, and
// no positional clamps.
func QualifiedProfile() Profile {
	return Profile{
		Name:       "qualified",
		MinMinutes: 500,
		Offense: OffenseWeights{
			TrueShooting:     0.25,
			Scoring:          0.25,
			Creation:         0.25,
			OffensiveRebound: 0.10,
			Turnover:         0.15,
		},
		Shooting:   ShootingConfig{Shape: ShapeAdditive, Floor: 0.80, Ceiling: 1.40},
		AORCeiling: 2.2,
		Caps:       FactorCaps{DefensiveRebound: 1.6, Steal: 1.5, Block: 1.7},
		Rim:        RimBlend{Block: 0.65, Rebound: 0.35},
		Defense: map[model.PositionClass]DefenseWeights{
			model.ClassGuard: {DefensiveRating: 0.50, Steal: 0.35, Rim: 0.15},
			model.ClassWing:  {DefensiveRating: 0.45, Steal: 0.30, Rim: 0.25},
			model.ClassBig:   {DefensiveRating: 0.40, Steal: 0.15, Rim: 0.45},
		},
	}
}

const weightTolerance = 1e-9

// Validate checks a profile's internal consistency.
func (p Profile) Validate() error {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "name is required")
	}
	if math.Abs(p.Offense.sum()-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("offense weights sum to %.4f, want 1.0", p.Offense.sum()))
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"offense.true_shooting", p.Offense.TrueShooting},
		{"offense.scoring", p.Offense.Scoring},
		{"offense.creation", p.Offense.Creation},
		{"offense.offensive_rebound", p.Offense.OffensiveRebound},
		{"offense.turnover", p.Offense.Turnover},
	} {
		if w.value < 0 {
			errs = append(errs, w.name+" must be >= 0")
		}
	}

	switch p.Shooting.Shape {
	case ShapeGeometric, ShapeAdditive:
	default:
		errs = append(errs, fmt.Sprintf("unknown shooting shape %q", p.Shooting.Shape))
	}
	if p.Shooting.Floor <= 0 || p.Shooting.Ceiling <= 0 || p.Shooting.Floor > p.Shooting.Ceiling {
		errs = append(errs, "shooting floor/ceiling must be positive with floor <= ceiling")
	}

	if p.Caps.DefensiveRebound <= 0 || p.Caps.Steal <= 0 || p.Caps.Block <= 0 {
		errs = append(errs, "defensive factor caps must be positive")
	}
	if math.Abs(p.Rim.Block+p.Rim.Rebound-1.0) > weightTolerance {
		errs = append(errs, "rim blend weights must sum to 1.0")
	}

	for _, class := range []model.PositionClass{model.ClassGuard, model.ClassWing, model.ClassBig} {
		w, ok := p.Defense[class]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing defense weights for %s", class))
			continue
		}
		if math.Abs(w.sum()-1.0) > weightTolerance {
			errs = append(errs, fmt.Sprintf("%s defense weights sum to %.4f, want 1.0", class, w.sum()))
		}
		if w.Ceiling < 0 || w.Floor < 0 {
			errs = append(errs, fmt.Sprintf("%s defense clamps must be >= 0", class))
		}
	}

	if p.MinMinutes < 0 {
		errs = append(errs, "min_minutes must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("profile %q: %s", p.Name, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds the available scoring profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry returns a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	r.profiles["default"] = DefaultProfile()
	r.profiles["qualified"] = QualifiedProfile()
	return r
}

// Lookup returns the named profile, or the default when name is empty.
func (r *Registry) Lookup(name string) (Profile, error) {
	if name == "" {
		name = "default"
	}
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, eris.Errorf("unknown scoring profile %q (have: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names lists registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads additional profiles from a YAML file. File profiles may
// add new tunings or override a built-in by reusing its name; each is
// validated before registration.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "profiles: read %s", path)
	}
	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return eris.Wrapf(err, "profiles: parse %s", path)
	}
	for _, p := range doc.Profiles {
		if err := p.Validate(); err != nil {
			return err
		}
		r.profiles[p.Name] = p
	}
	return nil
}
