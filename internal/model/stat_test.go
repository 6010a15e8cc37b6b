package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cell      string
		wantValue float64
		wantOK    bool
	}{
		{name: "plain number", cell: "27.4", wantValue: 27.4, wantOK: true},
		{name: "integer", cell: "82", wantValue: 82, wantOK: true},
		{name: "zero is present", cell: "0", wantValue: 0, wantOK: true},
		{name: "leading dot percentage", cell: ".701", wantValue: 0.701, wantOK: true},
		{name: "whitespace trimmed", cell: " 12.3 ", wantValue: 12.3, wantOK: true},
		{name: "empty is missing", cell: ""},
		{name: "whitespace only is missing", cell: "   "},
		{name: "garbage is missing", cell: "DNP"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := ParseStat(tt.cell)
			v, ok := s.Value()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantValue, v, 1e-12)
			}
		})
	}
}

func TestStatOfNonFinite(t *testing.T) {
	t.Parallel()

	assert.False(t, StatOf(math.NaN()).Present())
	assert.False(t, StatOf(math.Inf(1)).Present())
	assert.False(t, StatOf(math.Inf(-1)).Present())
	assert.True(t, StatOf(0).Present())
}

func TestStatOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.5, StatOf(5.5).Or(1.0))
	assert.Equal(t, 1.0, MissingStat().Or(1.0))
}

func TestStatJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		MP  Stat `json:"mp"`
		TOV Stat `json:"tov"`
	}

	in := wrapper{MP: StatOf(2836.0), TOV: MissingStat()}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mp":2836,"tov":null}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
