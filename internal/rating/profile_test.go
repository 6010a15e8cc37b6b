package rating

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsource/hooprank/internal/model"
)

func TestBuiltinProfilesValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultProfile().Validate())
	assert.NoError(t, QualifiedProfile().Validate())
}

func TestProfileValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(p *Profile) { p.Name = "" },
			wantMsg: "name is required",
		},
		{
			name:    "offense weights off",
			mutate:  func(p *Profile) { p.Offense.Scoring = 0.5 },
			wantMsg: "offense weights sum",
		},
		{
			name:    "negative offense weight",
			mutate:  func(p *Profile) { p.Offense.Turnover = -0.1; p.Offense.Scoring = 0.5 },
			wantMsg: "must be >= 0",
		},
		{
			name:    "unknown shooting shape",
			mutate:  func(p *Profile) { p.Shooting.Shape = "cubic" },
			wantMsg: "unknown shooting shape",
		},
		{
			name:    "inverted shooting bounds",
			mutate:  func(p *Profile) { p.Shooting.Floor = 1.5; p.Shooting.Ceiling = 0.9 },
			wantMsg: "floor <= ceiling",
		},
		{
			name:    "zero factor cap",
			mutate:  func(p *Profile) { p.Caps.Steal = 0 },
			wantMsg: "caps must be positive",
		},
		{
			name:    "rim blend off",
			mutate:  func(p *Profile) { p.Rim.Block = 0.9 },
			wantMsg: "rim blend",
		},
		{
			name:    "missing defense class",
			mutate:  func(p *Profile) { delete(p.Defense, model.ClassWing) },
			wantMsg: "missing defense weights for wing",
		},
		{
			name: "defense weights off",
			mutate: func(p *Profile) {
				w := p.Defense[model.ClassBig]
				w.Steal = 0.5
				p.Defense[model.ClassBig] = w
			},
			wantMsg: "big defense weights sum",
		},
		{
			name:    "negative min minutes",
			mutate:  func(p *Profile) { p.MinMinutes = -1 },
			wantMsg: "min_minutes",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	p, err := r.Lookup("default")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)

	// Empty name resolves to the default profile.
	p, err = r.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)

	p, err = r.Lookup("qualified")
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.MinMinutes)

	_, err = r.Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)

	assert.Equal(t, []string{"default", "qualified"}, r.Names())
}

func TestRegistryLoadFile(t *testing.T) {
	t.Parallel()

	doc := `profiles:
  - name: experimental
    min_minutes: 250
    offense:
      true_shooting: 0.30
      scoring: 0.30
      creation: 0.20
      offensive_rebound: 0.10
      turnover: 0.10
    shooting:
      shape: geometric
      floor: 0.85
      ceiling: 1.30
    caps:
      defensive_rebound: 1.6
      steal: 1.5
      block: 1.7
    rim:
      block: 0.65
      rebound: 0.35
    defense:
      guard:
        defensive_rating: 0.55
        steal: 0.35
        rim: 0.10
      wing:
        defensive_rating: 0.45
        steal: 0.30
        rim: 0.25
      big:
        defensive_rating: 0.40
        steal: 0.15
        rim: 0.45
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))

	p, err := r.Lookup("experimental")
	require.NoError(t, err)
	assert.Equal(t, 250.0, p.MinMinutes)
	assert.Equal(t, []string{"default", "experimental", "qualified"}, r.Names())
}

func TestRegistryLoadFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	doc := `profiles:
  - name: broken
    shooting:
      shape: geometric
      floor: 0.85
      ceiling: 1.30
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r := NewRegistry()
	err := r.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"broken"`)

	_, err = r.Lookup("broken")
	assert.Error(t, err)
}

func TestRegistryLoadFileMissing(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	err := r.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
